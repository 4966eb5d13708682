// internal/ui/prompt_keys.go
// Key handling for the prompt: completion menu, history and reverse search.
package ui

import (
	"context"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m PromptModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return m.finish("", ErrInterrupted)
	case "ctrl+d":
		if m.input.Value() == "" {
			return m.finish("", io.EOF)
		}
	case "tab":
		return m.nextCandidate(1), nil
	case "shift+tab":
		return m.nextCandidate(-1), nil
	case "enter":
		if c, ok := m.selectedCandidate(); ok {
			m = m.applyCandidate(c)
			return m.cancelCompletion(), nil
		}
		return m.finish(m.input.Value(), nil)
	case "esc":
		return m.cancelCompletion(), nil
	case "up", "ctrl+p":
		if m.completing {
			return m.nextCandidate(-1), nil
		}
		return m.historyPrev(), nil
	case "down", "ctrl+n":
		if m.completing {
			return m.nextCandidate(1), nil
		}
		return m.historyNext(), nil
	case "ctrl+r":
		if len(m.history) == 0 {
			return m, nil
		}
		m = m.cancelCompletion()
		m.searching = true
		m.searchQuery = ""
		m.searchIdx = len(m.history)
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m = m.cancelCompletion()
	value := m.input.Value()
	if value == before || !m.completeWhileTyping || strings.TrimSpace(value) == "" {
		return m, cmd
	}
	m, tick := m.scheduleCompletion()
	return m, tea.Batch(cmd, tick)
}

// nextCandidate moves the menu selection by dir, opening the menu first when
// it is closed. A lone candidate is inserted directly.
func (m PromptModel) nextCandidate(dir int) PromptModel {
	if !m.completing {
		if m.completer == nil {
			return m
		}
		m.debounceID++
		cands := m.completer.Complete(context.Background(), m.input.Value(), m.byteCursor())
		switch len(cands) {
		case 0:
			return m
		case 1:
			return m.applyCandidate(cands[0])
		}
		m.suggestions = cands
		m.completing = true
		m.suggestionIdx = -1
	}

	n := len(m.suggestions)
	switch {
	case m.suggestionIdx < 0 && dir > 0:
		m.suggestionIdx = 0
	case m.suggestionIdx < 0:
		m.suggestionIdx = n - 1
	default:
		m.suggestionIdx = (m.suggestionIdx + dir + n) % n
	}
	return m
}

// historyPrev recalls the previous entry. With history search on, only
// entries starting with the text typed so far are considered.
func (m PromptModel) historyPrev() PromptModel {
	if m.historyIdx == len(m.history) {
		m.draft = m.input.Value()
	}
	for i := m.historyIdx - 1; i >= 0; i-- {
		if m.historyMatches(i) {
			m.historyIdx = i
			m.setInput(m.history[i])
			break
		}
	}
	return m
}

func (m PromptModel) historyNext() PromptModel {
	for i := m.historyIdx + 1; i < len(m.history); i++ {
		if m.historyMatches(i) {
			m.historyIdx = i
			m.setInput(m.history[i])
			return m
		}
	}
	if m.historyIdx < len(m.history) {
		m.historyIdx = len(m.history)
		m.setInput(m.draft)
	}
	return m
}

func (m PromptModel) historyMatches(i int) bool {
	return !m.historySearch || strings.HasPrefix(m.history[i], m.draft)
}

func (m *PromptModel) setInput(value string) {
	m.input.SetValue(value)
	m.input.CursorEnd()
}

func (m PromptModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.finish("", ErrInterrupted)
	case tea.KeyEsc, tea.KeyCtrlG:
		m.searching = false
		return m, nil
	case tea.KeyEnter:
		if match, ok := m.searchMatch(); ok {
			m.historyIdx = m.searchIdx
			m.setInput(match)
		}
		m.searching = false
		return m, nil
	case tea.KeyCtrlR:
		m.searchIdx = m.findMatch(m.searchIdx - 1)
		return m, nil
	case tea.KeyBackspace:
		if q := []rune(m.searchQuery); len(q) > 0 {
			m.searchQuery = string(q[:len(q)-1])
		}
		m.searchIdx = m.findMatch(len(m.history) - 1)
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		if msg.Type == tea.KeySpace {
			m.searchQuery += " "
		} else {
			m.searchQuery += string(msg.Runes)
		}
		m.searchIdx = m.findMatch(min(m.searchIdx, len(m.history)-1))
		return m, nil
	}
	return m, nil
}

// findMatch returns the newest history index at or before from containing
// the search query, or the current index when nothing older matches.
func (m PromptModel) findMatch(from int) int {
	q := strings.ToLower(m.searchQuery)
	for i := from; i >= 0; i-- {
		if strings.Contains(strings.ToLower(m.history[i]), q) {
			return i
		}
	}
	if !m.matchesAt(m.searchIdx) {
		return len(m.history)
	}
	return m.searchIdx
}

func (m PromptModel) matchesAt(i int) bool {
	return i >= 0 && i < len(m.history) &&
		strings.Contains(strings.ToLower(m.history[i]), strings.ToLower(m.searchQuery))
}

func (m PromptModel) searchMatch() (string, bool) {
	if !m.matchesAt(m.searchIdx) {
		return "", false
	}
	return m.history[m.searchIdx], true
}
