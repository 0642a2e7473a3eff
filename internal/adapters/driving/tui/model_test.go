package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corposearch/docqa-cli/internal/core/domain"
)

// stubAnswerer returns a canned answer and records questions.
type stubAnswerer struct {
	answer    *domain.Answer
	err       error
	questions []string
}

func (s *stubAnswerer) Ask(_ context.Context, question string, _ int) (*domain.Answer, error) {
	s.questions = append(s.questions, question)
	return s.answer, s.err
}

func (s *stubAnswerer) Retrieve(context.Context, string, int) (domain.RetrievalResult, error) {
	return domain.RetrievalResult{}, nil
}

func typeString(m Model, s string) Model {
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func TestNew(t *testing.T) {
	m := New(&stubAnswerer{})
	assert.NotNil(t, m.service)
	assert.Contains(t, m.status, "Ready")
	assert.False(t, m.ready)
}

func TestView_BeforeWindowSize(t *testing.T) {
	m := New(&stubAnswerer{})
	assert.Equal(t, "Loading...", m.View())
}

func TestUpdate_WindowSize(t *testing.T) {
	m := New(&stubAnswerer{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	assert.True(t, m.ready)
	assert.NotEqual(t, "Loading...", m.View())
}

func TestUpdate_EnterAsksQuestion(t *testing.T) {
	service := &stubAnswerer{answer: &domain.Answer{Success: true, Text: "An answer."}}
	m := New(service)
	m = typeString(m, "What is manual therapy?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	require.NotNil(t, cmd)
	assert.True(t, m.thinking)
	assert.Equal(t, "Thinking...", m.status)
	assert.Empty(t, m.input.Value(), "input clears after submitting")

	// Running the command performs the ask
	msg := cmd()
	answer, ok := msg.(answerMsg)
	require.True(t, ok)
	assert.Equal(t, "An answer.", answer.answer.Text)
	assert.Equal(t, []string{"What is manual therapy?"}, service.questions)
}

func TestUpdate_EmptyQuestionIgnored(t *testing.T) {
	m := New(&stubAnswerer{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestUpdate_AnswerMsg(t *testing.T) {
	m := New(&stubAnswerer{})
	m.thinking = true

	answer := &domain.Answer{
		Success: true,
		Text:    "Manual therapy mobilizes stiff joints.",
		Context: []domain.ContextPassage{{Source: "manual", Score: 0.91}},
	}
	updated, _ := m.Update(answerMsg{answer: answer})
	m = updated.(Model)

	assert.False(t, m.thinking)
	assert.Contains(t, m.status, "Answered")
}

func TestUpdate_AnswerMsg_Failure(t *testing.T) {
	m := New(&stubAnswerer{})
	m.thinking = true

	updated, _ := m.Update(answerMsg{answer: &domain.Answer{Error: "no documents indexed"}})
	m = updated.(Model)

	assert.False(t, m.thinking)
	assert.Contains(t, m.status, "no documents indexed")
}

func TestUpdate_AnswerMsg_Error(t *testing.T) {
	m := New(&stubAnswerer{})
	m.thinking = true

	updated, _ := m.Update(answerMsg{err: errors.New("context deadline exceeded")})
	m = updated.(Model)

	assert.False(t, m.thinking)
	assert.Contains(t, m.status, "context deadline exceeded")
}

func TestUpdate_Quit(t *testing.T) {
	m := New(&stubAnswerer{})

	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestRenderAnswer(t *testing.T) {
	t.Run("with sources", func(t *testing.T) {
		out := renderAnswer(&domain.Answer{
			Text: "An answer.",
			Context: []domain.ContextPassage{
				{Source: "manual", Score: 0.91},
				{Source: "exercise", Score: 0.42},
			},
		})
		assert.Contains(t, out, "An answer.")
		assert.Contains(t, out, "[1] manual (0.910)")
		assert.Contains(t, out, "[2] exercise (0.420)")
	})

	t.Run("context free", func(t *testing.T) {
		out := renderAnswer(&domain.Answer{Text: "A guess.", ContextFree: true})
		assert.Contains(t, out, "A guess.")
		assert.Contains(t, out, "without document context")
	})
}
