package memory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// Message is one turn of a conversation.
type Message struct {
	Role      string // "user" or "assistant"
	Content   string
	CreatedAt time.Time
}

// Store persists conversation sessions and messages in SQLite so an
// operator's session history survives restarts.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id);
`

// NewStore opens (or creates) the conversation database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating conversation directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "conversations.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening conversation store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing conversation schema: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// CreateSession starts a new conversation and returns its id.
func (s *Store) CreateSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at) VALUES (?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return id, nil
}

// AddInteraction records a complete user question and assistant answer.
func (s *Store) AddInteraction(ctx context.Context, sessionID, question, answer string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recording interaction: %w", err)
	}
	defer tx.Rollback()
	now := time.Now().UTC().Format(time.RFC3339)
	for _, m := range []Message{
		{Role: "user", Content: question},
		{Role: "assistant", Content: answer},
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
			sessionID, m.Role, m.Content, now); err != nil {
			return fmt.Errorf("recording %s message: %w", m.Role, err)
		}
	}
	return tx.Commit()
}

// Recent returns the last maxMessages messages of a session in
// chronological order, for inclusion in the next prompt.
func (s *Store) Recent(ctx context.Context, sessionID string, maxMessages int) ([]Message, error) {
	if maxMessages <= 0 {
		maxMessages = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, content, created_at FROM (
			SELECT id, role, content, created_at FROM messages
			WHERE session_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, sessionID, maxMessages)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var created string
		if err := rows.Scan(&m.Role, &m.Content, &created); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339, created)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// SessionCount reports how many sessions exist, for diagnostics.
func (s *Store) SessionCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, err
}
