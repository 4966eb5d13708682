// Package repl runs the read-eval-print loop: it reads input through a
// LineReader, hands dot-commands to the registry and everything else to the
// database, and records what was run.
package repl

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/nhath/sqlrepl/internal/db"
	"github.com/nhath/sqlrepl/internal/history"
	"github.com/nhath/sqlrepl/internal/shell"
	"github.com/nhath/sqlrepl/internal/ui"
)

// ContinuationPrompt is shown while a statement spans several lines.
const ContinuationPrompt = "...> "

// Recorder persists executed input.
type Recorder interface {
	Add(entry *history.Entry) error
}

// Options configures a REPL.
type Options struct {
	Session  *shell.Session
	Registry *shell.Registry
	Reader   ui.LineReader
	// History may be nil.
	History Recorder
	// Script forces statement continuation regardless of the multi-line
	// setting, for input that is not typed interactively.
	Script bool
}

// REPL is the interactive loop around a session.
type REPL struct {
	session  *shell.Session
	registry *shell.Registry
	reader   ui.LineReader
	history  Recorder
	script   bool

	quit     bool
	exitCode int
}

// New creates a loop over opts. The session's Exit hook is replaced so that
// .exit ends Run instead of the process.
func New(opts Options) *REPL {
	r := &REPL{
		session:  opts.Session,
		registry: opts.Registry,
		reader:   opts.Reader,
		history:  opts.History,
		script:   opts.Script,
	}
	r.session.Exit = func(code int) {
		r.quit = true
		r.exitCode = code
	}
	return r
}

// Run reads and executes input until end of input, .exit or ctx is done. It
// returns the exit code requested with .exit.
func (r *REPL) Run(ctx context.Context) (int, error) {
	for !r.quit {
		if ctx.Err() != nil {
			return 0, nil
		}
		input, err := r.readInput(ctx)
		switch {
		case errors.Is(err, io.EOF):
			r.session.Log.Debugw("end of input")
			return 0, nil
		case errors.Is(err, ui.ErrInterrupted):
			continue
		case errors.Is(err, context.Canceled):
			return 0, nil
		case err != nil:
			return 1, err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		r.reader.AddHistory(input)
		r.Execute(ctx, input)
	}
	return r.exitCode, nil
}

// readInput reads one command: a dot-command line, or SQL up to a complete
// statement when continuation applies.
func (r *REPL) readInput(ctx context.Context) (string, error) {
	line, err := r.reader.ReadLine(ctx, r.session.Prompt, false)
	if err != nil {
		return "", err
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, ".") {
		return line, nil
	}
	if !r.session.Multiline && !r.script {
		return line, nil
	}

	buf := line
	for !db.IsComplete(buf) {
		next, err := r.reader.ReadLine(ctx, ContinuationPrompt, true)
		if errors.Is(err, io.EOF) {
			// Run what was typed; the next read sees EOF again.
			return buf, nil
		}
		if err != nil {
			return "", err
		}
		buf += "\n" + next
	}
	return buf, nil
}

// Execute runs input as a dot-command or as SQL and records it in history.
// Errors are printed, never returned.
func (r *REPL) Execute(ctx context.Context, input string) {
	s := r.session
	start := time.Now()
	entry := &history.Entry{
		Database: s.Database,
		Line:     input,
		Status:   history.StatusSuccess,
	}

	if !r.registry.Dispatch(ctx, s, input) {
		rows, err := shell.Eval(ctx, s, input)
		entry.RowCount = rows
		if err != nil {
			s.ReportError(err)
			entry.Status = history.StatusError
			entry.ErrorMessage = err.Error()
		}
	}
	entry.DurationMs = time.Since(start).Milliseconds()

	if r.history == nil {
		return
	}
	if err := r.history.Add(entry); err != nil {
		s.Log.Warnw("recording history", "error", err)
	}
}
