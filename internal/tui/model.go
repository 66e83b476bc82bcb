package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"turbobot/internal/chat"
	"turbobot/internal/domain"
	"turbobot/internal/pipeline"
	"turbobot/internal/telemetry"
)

// AssistantPort is the TUI-facing subset of the chat assistant.
type AssistantPort interface {
	Ask(ctx context.Context, question string, readings []telemetry.Reading) (chat.Reply, error)
}

// SearchPort exposes the diagnostics surface of the retrieval pipeline.
type SearchPort interface {
	Search(query string, topK int, minScore float64) ([]domain.Result, error)
	Stats() pipeline.Stats
}

// Model is the Bubble Tea model for the assistant TUI. A line starting with
// "/search " runs a raw retrieval query instead of the chat flow.
type Model struct {
	assistant AssistantPort
	search    SearchPort
	readings  []telemetry.Reading

	input    textinput.Model
	viewport viewport.Model
	summary  string
	status   string
	ready    bool
}

// New creates a new TUI model instance.
func New(assistant AssistantPort, search SearchPort, readings []telemetry.Reading, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about turbine maintenance, or /search <query>"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		assistant: assistant,
		search:    search,
		readings:  readings,
		input:     ti,
		viewport:  vp,
		summary:   summary,
		status:    "Knowledge base loaded. Type a question.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header+summary, status, query frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.submit(q)
				m.input.SetValue("")
				return m, nil
			}
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit(q string) {
	if rest, ok := strings.CutPrefix(q, "/search "); ok {
		m.runSearch(strings.TrimSpace(rest))
		return
	}
	reply, err := m.assistant.Ask(context.Background(), q, m.readings)
	switch {
	case err != nil:
		m.status = "Error: " + err.Error()
	case reply.Rejected:
		m.status = "Question rejected: " + reply.Reason
		m.viewport.SetContent("")
	default:
		m.status = fmt.Sprintf("Answered %q (manuals used: %t)", q, reply.KnowledgeUsed)
		m.viewport.SetContent(reply.Text)
	}
	m.viewport.GotoTop()
}

func (m *Model) runSearch(q string) {
	results, err := m.search.Search(q, 0, -1)
	if err != nil {
		m.status = "Search error: " + err.Error()
		return
	}
	stats := m.search.Stats()
	m.status = fmt.Sprintf("%d results over %d chunks (%d terms)", len(results), stats.ChunkCount, stats.VocabularySize)
	if len(results) == 0 {
		m.viewport.SetContent("No chunk cleared the relevance floor.")
		return
	}
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s  score=%.3f\n%s\n\n", i+1, r.SourcePath, r.Score, snippet(r.Text, 300))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}

func snippet(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("TurboBot: turbine maintenance assistant")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	answer := answerBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + summary + "\n" + answer + "\n" + input + "\n" + status
}

var (
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
