package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ragassist/internal/domain"
	"ragassist/internal/engine"
)

// AssistantPort is the TUI-facing subset of the engine.
type AssistantPort interface {
	Answer(ctx context.Context, query string, method engine.Method) (engine.Answer, error)
	AddDocument(ctx context.Context, filename string, data []byte) (int, error)
	RemoveDocument(ctx context.Context, filename string) error
	Summary() domain.CorpusSummary
}

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	assistant AssistantPort
	input     textinput.Model
	viewport  viewport.Model
	method    engine.Method
	status    string
	ready     bool
	content   string
}

// New creates a new TUI model instance.
func New(assistant AssistantPort, method engine.Method) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, or :add <path>, :rm <filename>, :method <name>"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		assistant: assistant,
		input:     ti,
		viewport:  vp,
		method:    method,
		status:    "Ready. Type a question and press Enter.",
		content:   "No answers yet.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.content)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			if line != "" {
				m = m.handleLine(line)
				m.input.SetValue("")
				m.viewport.SetContent(m.content)
				return m, nil
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleLine(line string) Model {
	ctx := context.Background()
	switch {
	case strings.HasPrefix(line, ":add "):
		path := strings.TrimSpace(strings.TrimPrefix(line, ":add "))
		data, err := os.ReadFile(path)
		if err != nil {
			m.status = "Error: " + err.Error()
			return m
		}
		n, err := m.assistant.AddDocument(ctx, filepath.Base(path), data)
		if err != nil {
			m.status = "Error: " + err.Error()
			return m
		}
		m.status = fmt.Sprintf("Added %s (%d chunks)", filepath.Base(path), n)
	case strings.HasPrefix(line, ":rm "):
		name := strings.TrimSpace(strings.TrimPrefix(line, ":rm "))
		if err := m.assistant.RemoveDocument(ctx, name); err != nil {
			m.status = "Error: " + err.Error()
			return m
		}
		m.status = "Removed " + name
	case strings.HasPrefix(line, ":method "):
		m.method = engine.ParseMethod(strings.TrimSpace(strings.TrimPrefix(line, ":method ")))
		m.status = "Search method: " + string(m.method)
	default:
		ans, err := m.assistant.Answer(ctx, line, m.method)
		if err != nil {
			// Generation failures still carry the retrieved sources.
			m.status = "Error: " + err.Error()
			m.content = renderSources(ans.Sources)
			return m
		}
		m.status = fmt.Sprintf("Answered with method %q", m.method)
		m.content = answerStyle.Render(ans.Text) + "\n\n" + renderSources(ans.Sources)
	}
	return m
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	sum := m.assistant.Summary()
	header := lipgloss.NewStyle().Bold(true).Render("RAG Assistant")
	counts := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		fmt.Sprintf("documents: %d  document chunks: %d  method: %s",
			sum.TotalDocuments, sum.TotalDocumentChunks, m.method))
	body := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "  " + counts + "\n" + body + "\n" + input + "\n" + status
}

func renderSources(sources []domain.SourceDoc) string {
	if len(sources) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(sourceHeaderStyle.Render("Sources"))
	for i, s := range sources {
		b.WriteString(fmt.Sprintf("\n%d. [%.3f] %s\n   %s", i+1, s.Score, describeMeta(s.Chunk.Meta), s.Chunk.Text))
	}
	return b.String()
}

func describeMeta(meta domain.ChunkMetadata) string {
	switch meta.Kind {
	case domain.MetadataDocument:
		return fmt.Sprintf("%s #%d (%s)", meta.Filename, meta.ChunkIndex, meta.SourceType)
	default:
		return fmt.Sprintf("seed %d: %s", meta.SourceIndex, meta.UserMessage)
	}
}

var (
	resultBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	answerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sourceHeaderStyle = lipgloss.NewStyle().Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
