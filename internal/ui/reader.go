// internal/ui/reader.go
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"

	"github.com/nhath/sqlrepl/internal/shell"
)

// LineReader reads input lines for the main loop.
type LineReader interface {
	// ReadLine shows prompt and returns one line without its newline. It
	// returns io.EOF at end of input and ErrInterrupted on Ctrl+C.
	ReadLine(ctx context.Context, prompt string, continuation bool) (string, error)
	// Confirm asks a yes/no question.
	Confirm(question string) (bool, error)
	// AddHistory makes line available to history navigation.
	AddHistory(line string)
}

// ReaderOptions configures NewReader.
type ReaderOptions struct {
	In      *os.File
	Out     *os.File
	Session *shell.Session
	// Completer is used while reading from a terminal.
	Completer     Completer
	History       []string
	CompleteDelay time.Duration
}

// NewReader returns an interactive reader when both ends are terminals and a
// plain line reader otherwise.
func NewReader(opts ReaderOptions) LineReader {
	if isTerminal(opts.In) && isTerminal(opts.Out) {
		return &TerminalReader{
			in:        opts.In,
			out:       opts.Out,
			session:   opts.Session,
			completer: opts.Completer,
			history:   opts.History,
			delay:     opts.CompleteDelay,
		}
	}
	// Prompts only make sense when someone is typing.
	var prompts io.Writer
	if isTerminal(opts.In) {
		prompts = os.Stderr
	}
	return NewPlainReader(opts.In, prompts)
}

func isTerminal(f *os.File) bool {
	return f != nil && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// TerminalReader runs an inline Bubble Tea prompt for every line.
type TerminalReader struct {
	in        io.Reader
	out       io.Writer
	session   *shell.Session
	completer Completer
	history   []string
	delay     time.Duration
}

// ReadLine implements LineReader.
func (r *TerminalReader) ReadLine(ctx context.Context, prompt string, continuation bool) (string, error) {
	opts := PromptOptions{
		Prompt:        prompt,
		Continuation:  continuation,
		Completer:     r.completer,
		History:       r.history,
		CompleteDelay: r.delay,
	}
	if s := r.session; s != nil {
		opts.HistorySearch = s.HistorySearch
		opts.CompleteWhileTyping = s.CompleteWhileTyping
		if s.Infobar {
			opts.Status = s.StatusFields
		}
	}

	final, err := r.run(ctx, NewPrompt(opts))
	if err != nil {
		return "", err
	}
	m := final.(PromptModel)
	return m.Value(), m.Err()
}

// Confirm implements LineReader.
func (r *TerminalReader) Confirm(question string) (bool, error) {
	final, err := r.run(context.Background(), confirmModel{question: question})
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	return m.answer, m.err
}

// AddHistory implements LineReader.
func (r *TerminalReader) AddHistory(line string) {
	if n := len(r.history); n > 0 && r.history[n-1] == line {
		return
	}
	r.history = append(r.history, line)
}

func (r *TerminalReader) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(r.in),
		tea.WithOutput(r.out),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(err, "run prompt")
	}
	return final, nil
}

// confirmModel waits for a single y or n key.
type confirmModel struct {
	question string
	answer   bool
	done     bool
	err      error
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(key.String()) {
	case "y":
		m.answer, m.done = true, true
	case "n", "enter", "esc":
		m.done = true
	case "ctrl+c":
		m.done, m.err = true, ErrInterrupted
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.done {
		answer := "n"
		if m.answer {
			answer = "y"
		}
		return WarningStyle.Render(m.question) + " " + answer + "\n"
	}
	return WarningStyle.Render(m.question) + " "
}

// PlainReader reads lines from a non-interactive source such as a pipe.
type PlainReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPlainReader creates a reader over in. Prompts are written to out; pass
// nil to suppress them.
func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	if out == nil {
		out = io.Discard
	}
	return &PlainReader{in: bufio.NewReader(in), out: out}
}

// ReadLine implements LineReader.
func (r *PlainReader) ReadLine(ctx context.Context, prompt string, _ bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", errors.Wrap(err, "read line")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm implements LineReader by reading an answer line.
func (r *PlainReader) Confirm(question string) (bool, error) {
	fmt.Fprint(r.out, question+" ")
	line, err := r.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, errors.Wrap(err, "read answer")
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// AddHistory implements LineReader; plain input has no history navigation.
func (r *PlainReader) AddHistory(string) {}
