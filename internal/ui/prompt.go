// internal/ui/prompt.go
// Inline line editor: one PromptModel reads one line of input.
package ui

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"

	"github.com/nhath/sqlrepl/internal/autocomplete"
	"github.com/nhath/sqlrepl/internal/shell"
)

// ErrInterrupted is returned when the user presses Ctrl+C at the prompt.
var ErrInterrupted = errors.New("interrupted")

// Completer produces candidates for text with the cursor at a byte offset.
type Completer interface {
	Complete(ctx context.Context, text string, cursor int) []autocomplete.Candidate
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, text string, cursor int) []autocomplete.Candidate

func (f CompleterFunc) Complete(ctx context.Context, text string, cursor int) []autocomplete.Candidate {
	return f(ctx, text, cursor)
}

// PromptOptions configures a single prompt.
type PromptOptions struct {
	Prompt              string
	Continuation        bool
	Completer           Completer
	History             []string
	HistorySearch       bool
	CompleteWhileTyping bool
	CompleteDelay       time.Duration
	// Status, when set, is rendered as a bottom toolbar.
	Status func() []shell.StatusField
}

// PromptModel is the Bubble Tea model behind the interactive prompt.
type PromptModel struct {
	input  textinput.Model
	prompt string
	width  int

	completer           Completer
	completeWhileTyping bool
	delay               time.Duration
	debounceID          int
	completing          bool
	suggestions         []autocomplete.Candidate
	suggestionIdx       int

	history       []string
	historyIdx    int
	historySearch bool
	draft         string

	searching   bool
	searchQuery string
	searchIdx   int

	status func() []shell.StatusField

	done  bool
	value string
	err   error
}

// NewPrompt creates a focused prompt model.
func NewPrompt(opts PromptOptions) PromptModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Focus()

	promptStyle := PromptStyle
	if opts.Continuation {
		promptStyle = ContinuationStyle
	}

	delay := opts.CompleteDelay
	if delay <= 0 {
		delay = 150 * time.Millisecond
	}

	return PromptModel{
		input:               ti,
		prompt:              promptStyle.Render(opts.Prompt),
		completer:           opts.Completer,
		completeWhileTyping: opts.CompleteWhileTyping,
		delay:               delay,
		suggestionIdx:       -1,
		history:             opts.History,
		historyIdx:          len(opts.History),
		historySearch:       opts.HistorySearch,
		status:              opts.Status,
	}
}

// Init implements tea.Model.
func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Value returns the submitted line.
func (m PromptModel) Value() string {
	return m.value
}

// Err returns io.EOF or ErrInterrupted when the prompt was abandoned.
func (m PromptModel) Err() error {
	return m.err
}

// Update implements tea.Model.
func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(0, msg.Width-lipgloss.Width(m.prompt)-1)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case DebounceMsg:
		if msg.ID != m.debounceID {
			return m, nil
		}
		return m, m.completeCmd(msg.ID)

	case CompletionMsg:
		// Stale results from an older keystroke are dropped.
		if msg.ID != m.debounceID {
			return m, nil
		}
		m.suggestions = msg.Candidates
		m.suggestionIdx = -1
		m.completing = len(msg.Candidates) > 0
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PromptModel) finish(value string, err error) (tea.Model, tea.Cmd) {
	m = m.cancelCompletion()
	m.done = true
	m.value = value
	m.err = err
	return m, tea.Quit
}

// byteCursor converts the input's rune position into a byte offset.
func (m PromptModel) byteCursor() int {
	value := m.input.Value()
	pos := m.input.Position()
	offset := 0
	for i := 0; i < pos && offset < len(value); i++ {
		_, size := utf8.DecodeRuneInString(value[offset:])
		offset += size
	}
	return offset
}

// applyCandidate replaces the word under the cursor with c.
func (m PromptModel) applyCandidate(c autocomplete.Candidate) PromptModel {
	value := m.input.Value()
	cursor := m.byteCursor()
	start := min(c.Offset, cursor)
	head := value[:start] + c.Text
	m.input.SetValue(head + value[cursor:])
	m.input.SetCursor(utf8.RuneCountInString(head))
	return m
}

func (m PromptModel) selectedCandidate() (autocomplete.Candidate, bool) {
	if !m.completing || m.suggestionIdx < 0 || m.suggestionIdx >= len(m.suggestions) {
		return autocomplete.Candidate{}, false
	}
	return m.suggestions[m.suggestionIdx], true
}

// View implements tea.Model.
func (m PromptModel) View() string {
	if m.done {
		if errors.Is(m.err, ErrInterrupted) {
			return m.prompt + m.input.Value() + "^C\n"
		}
		return m.prompt + m.value + "\n"
	}

	var b strings.Builder
	if m.searching {
		b.WriteString(m.renderSearch())
	} else {
		b.WriteString(m.prompt + m.input.View())
	}
	if menu := m.renderSuggestions(); menu != "" {
		b.WriteString("\n" + menu)
	}
	if bar := m.renderStatusBar(); bar != "" {
		b.WriteString("\n" + bar)
	}
	return b.String()
}
