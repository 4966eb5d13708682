// internal/ui/debounce.go
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/sqlrepl/internal/autocomplete"
)

// DebounceMsg triggers the actual autocomplete lookup
type DebounceMsg struct {
	ID int
}

// CompletionMsg carries the candidates computed for the input as it was when
// lookup ID was scheduled.
type CompletionMsg struct {
	ID         int
	Candidates []autocomplete.Candidate
}

// scheduleCompletion cancels any pending lookup and starts a new debounce
// timer.
func (m PromptModel) scheduleCompletion() (PromptModel, tea.Cmd) {
	m.debounceID++
	id := m.debounceID
	return m, tea.Tick(m.delay, func(time.Time) tea.Msg {
		return DebounceMsg{ID: id}
	})
}

// cancelCompletion drops pending lookups and closes the menu.
func (m PromptModel) cancelCompletion() PromptModel {
	m.debounceID++
	m.completing = false
	m.suggestions = nil
	m.suggestionIdx = -1
	return m
}

// completeCmd runs the completer off the update loop.
func (m PromptModel) completeCmd(id int) tea.Cmd {
	if m.completer == nil {
		return nil
	}
	text, cursor := m.input.Value(), m.byteCursor()
	completer := m.completer
	return func() tea.Msg {
		return CompletionMsg{ID: id, Candidates: completer.Complete(context.Background(), text, cursor)}
	}
}
