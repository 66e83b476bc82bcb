package loader

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"turbobot/internal/domain"
)

// Loader reads plain-text maintenance manuals from a knowledge-base
// directory. Files are processed in sorted name order so document ids and
// downstream chunk ids are reproducible across runs.
type Loader struct {
	dir string
}

func New(dir string) *Loader {
	return &Loader{dir: dir}
}

// List returns the manual file paths in sorted name order.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base %s: %w", l.dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".txt") {
			continue
		}
		paths = append(paths, filepath.Join(l.dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadAll returns one Document per .txt file in the knowledge-base directory.
func (l *Loader) LoadAll() ([]domain.Document, error) {
	paths, err := l.List()
	if err != nil {
		return nil, err
	}
	docs := make([]domain.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := Parse(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Parse reads a single manual and extracts its title and section headings.
func Parse(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("load %s: %w", path, err)
	}
	text := string(data)
	return domain.Document{
		ID:         hashString(filepath.Base(path)),
		SourcePath: path,
		Title:      firstLine(text),
		Text:       text,
		Sections:   splitSections(text),
	}, nil
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}

// splitSections finds heading-delimited regions. A heading is either an
// all-caps line or a line underlined with === or ---.
func splitSections(text string) []domain.Section {
	lines := strings.Split(text, "\n")
	var sections []domain.Section
	var title string
	var body []string

	flush := func() {
		if title == "" {
			return
		}
		sections = append(sections, domain.Section{
			Title: title,
			Text:  strings.TrimSpace(strings.Join(body, "\n")),
		})
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		switch {
		case isUnderline(line) && len(body) > 0:
			// The preceding line was the heading.
			heading := strings.TrimSpace(body[len(body)-1])
			body = body[:len(body)-1]
			flush()
			title = heading
			body = nil
		case isAllCapsHeading(line):
			flush()
			title = line
			body = nil
		default:
			body = append(body, lines[i])
		}
	}
	flush()
	return sections
}

func isAllCapsHeading(line string) bool {
	if len(line) <= 3 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func isUnderline(line string) bool {
	if len(line) <= 3 {
		return false
	}
	for _, r := range line {
		if r != '=' && r != '-' {
			return false
		}
	}
	return true
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
