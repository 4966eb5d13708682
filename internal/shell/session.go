// Package shell holds the interactive session state and the dot-command
// registry that mutates it.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"

	"github.com/nhath/sqlrepl/internal/db"
	"github.com/nhath/sqlrepl/internal/logging"
	"github.com/nhath/sqlrepl/internal/ui/highlight"
	"github.com/nhath/sqlrepl/internal/ui/table"
)

// DefaultPrompt is shown until changed with .prompt.
const DefaultPrompt = "SQLite >> "

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(question string) (bool, error)

func (f ConfirmFunc) Confirm(question string) (bool, error) { return f(question) }

// Session is the state shared by the main loop and every dot-command. It is
// owned by a single goroutine; commands may replace fields wholesale.
type Session struct {
	Database            string
	Driver              db.Driver
	Prompt              string
	TableStyle          string
	Style               string
	Multiline           bool
	Infobar             bool
	CompleteWhileTyping bool
	HistorySearch       bool
	HistoryFile         string
	Editor              string
	Cwd                 string
	BackupStepPages     int

	// Out is the current output sink; .output may point it at a file.
	Out   io.Writer
	Err   io.Writer
	Stdin io.Reader

	Confirm Confirmer
	Getenv  func(string) string
	Exit    func(code int)
	Log     *logging.Logger

	stdout  io.Writer
	outFile *os.File
	outPath string
}

// NewSession creates a session printing to out and errOut with default
// settings and no open database.
func NewSession(out, errOut io.Writer, log *logging.Logger) *Session {
	if log == nil {
		log = logging.Nop()
	}
	cwd, _ := os.Getwd()
	return &Session{
		Prompt:              DefaultPrompt,
		TableStyle:          table.DefaultStyle,
		Style:               highlight.DefaultStyle,
		Infobar:             true,
		CompleteWhileTyping: true,
		HistorySearch:       true,
		Cwd:                 cwd,
		BackupStepPages:     64,
		Out:                 out,
		Err:                 errOut,
		Stdin:               os.Stdin,
		Confirm:             ConfirmFunc(func(string) (bool, error) { return false, nil }),
		Getenv:              os.Getenv,
		Exit:                os.Exit,
		Log:                 log,
		stdout:              out,
	}
}

// Verbose reports whether debug logging is on.
func (s *Session) Verbose() bool {
	return s.Log.Verbose()
}

// Open connects to dsn and makes it the active database, closing the
// previous connection only once the new one is up. A transaction left open
// on the previous connection is committed first; if that fails the previous
// database stays active.
func (s *Session) Open(dsn string) error {
	d, err := db.Open(dsn)
	if err != nil {
		return errors.Wrapf(err, "open %s", dsn)
	}
	if s.Driver != nil {
		if err := s.commitPending(context.Background()); err != nil {
			d.Close()
			return err
		}
		if err := s.Driver.Close(); err != nil {
			s.Log.Warnw("closing previous database", "database", s.Database, "error", err)
		}
	}
	s.Driver = d
	s.Database = dsn
	s.Log.Debugw("opened database", "database", dsn, "driver", d.Type())
	return nil
}

// SetOutput appends subsequent output to the file at path.
func (s *Session) SetOutput(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrapf(err, "cannot redirect output to %s", path)
	}
	s.closeOutput()
	s.outFile, s.outPath, s.Out = f, path, f
	return nil
}

// RestoreOutput points output back at the original sink.
func (s *Session) RestoreOutput() {
	s.closeOutput()
	s.Out = s.stdout
}

// OutputPath returns the file output is redirected to, or "stdout".
func (s *Session) OutputPath() string {
	if s.outFile == nil {
		return "stdout"
	}
	return s.outPath
}

func (s *Session) closeOutput() {
	if s.outFile != nil {
		if err := s.outFile.Close(); err != nil {
			s.Log.Warnw("closing output file", "path", s.outPath, "error", err)
		}
		s.outFile, s.outPath = nil, ""
	}
}

// Close commits any open transaction, then releases the database connection
// and any output file.
func (s *Session) Close() error {
	s.RestoreOutput()
	if s.Driver == nil {
		return nil
	}
	err := s.commitPending(context.Background())
	if cerr := s.Driver.Close(); cerr != nil {
		err = errors.CombineErrors(err, cerr)
	}
	s.Driver = nil
	return err
}

// commitPending commits a transaction left open on the active connection.
func (s *Session) commitPending(ctx context.Context) error {
	tx, ok := s.Driver.(db.Transactor)
	if !ok {
		return nil
	}
	open, err := tx.InTransaction(ctx)
	if err != nil || !open {
		return err
	}
	s.Log.Infow("committing open transaction", "database", s.Database)
	if _, err := s.Driver.Execute(ctx, "COMMIT"); err != nil {
		return errors.Wrapf(err, "commit open transaction on %s", s.Database)
	}
	return nil
}

// Println writes a line to the current output sink.
func (s *Session) Println(a ...any) {
	fmt.Fprintln(s.Out, a...)
}

// Printf writes formatted text to the current output sink.
func (s *Session) Printf(format string, a ...any) {
	fmt.Fprintf(s.Out, format, a...)
}

// ReportError prints err as a single line. Query failures use the engine's
// own message.
func (s *Session) ReportError(err error) {
	if err == nil {
		return
	}
	if qe, ok := db.IsQueryError(err); ok {
		fmt.Fprintf(s.Err, "An error occurred: %s\n", qe.Message())
		return
	}
	fmt.Fprintln(s.Err, err.Error())
}

// StatusField is one labelled value of the status bar.
type StatusField struct {
	Key   string
	Value string
}

// StatusFields returns what the bottom status bar displays.
func (s *Session) StatusFields() []StatusField {
	return []StatusField{
		{"Database", s.Database},
		{"Multiline", fmt.Sprint(s.Multiline)},
		{"Directory", s.Cwd},
		{"Tables", s.TableStyle},
	}
}

// editor returns the configured editor command, falling back to $EDITOR.
func (s *Session) editor() string {
	if s.Editor != "" {
		return s.Editor
	}
	return s.Getenv("EDITOR")
}

func (s *Session) outIsTerminal() bool {
	f, ok := s.Out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func (s *Session) requireDriver() error {
	if s.Driver == nil {
		return errors.New("no database is open")
	}
	return nil
}

