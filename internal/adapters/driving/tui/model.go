// Package tui implements the interactive question-answering session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/corposearch/docqa-cli/internal/core/domain"
	"github.com/corposearch/docqa-cli/internal/core/ports/driving"
)

// answerMsg carries a completed answer back into the update loop.
type answerMsg struct {
	answer *domain.Answer
	err    error
}

// Model is the Bubble Tea model for the interactive session.
type Model struct {
	service  driving.Answerer
	input    textinput.Model
	viewport viewport.Model
	status   string
	thinking bool
	ready    bool
}

// New creates a new interactive session model.
func New(service driving.Answerer) Model {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Type a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		input:    ti,
		viewport: vp,
		status:   "Ready. Ask a question about your documents.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ah := answerBoxStyle.GetFrameSize()
		_, qh := questionBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, question box, spacer
		vh := msg.Height - reserved - ah
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = vh
		return m, nil

	case answerMsg:
		m.thinking = false
		switch {
		case msg.err != nil:
			m.status = "Error: " + msg.err.Error()
		case !msg.answer.Success:
			m.status = "Could not answer: " + msg.answer.Error
		default:
			m.status = "Answered. Ask another question or press Esc to quit."
			m.viewport.SetContent(renderAnswer(msg.answer))
			m.viewport.GotoTop()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.thinking {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.thinking = true
			m.status = "Thinking..."
			m.input.SetValue("")
			return m, m.ask(question)
		}
	}

	var inputCmd, vpCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, vpCmd)
}

// View renders the session layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("docqa interactive")
	answer := answerBoxStyle.Render(m.viewport.View())
	question := questionBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + answer + "\n" + question + "\n" + status
}

// ask runs the query pipeline off the update loop.
func (m Model) ask(question string) tea.Cmd {
	service := m.service
	return func() tea.Msg {
		answer, err := service.Ask(context.Background(), question, 0)
		return answerMsg{answer: answer, err: err}
	}
}

// renderAnswer formats the answer text with its source attributions.
func renderAnswer(answer *domain.Answer) string {
	var b strings.Builder
	b.WriteString(answer.Text)

	if answer.ContextFree {
		b.WriteString("\n\n")
		b.WriteString(noteStyle.Render("No relevant passages found; answered without document context."))
		return b.String()
	}

	if len(answer.Context) > 0 {
		b.WriteString("\n\n")
		b.WriteString(noteStyle.Render("Sources:"))
		for i, passage := range answer.Context {
			b.WriteString(fmt.Sprintf("\n  [%d] %s (%.3f)", i+1, passage.Source, passage.Score))
		}
	}
	return b.String()
}

var (
	headerStyle      = lipgloss.NewStyle().Bold(true)
	answerBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noteStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
