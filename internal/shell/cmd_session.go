// internal/shell/cmd_session.go
package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/nhath/sqlrepl/internal/db"
	"github.com/nhath/sqlrepl/internal/ui/table"
)

func exitCmd(_ context.Context, s *Session, _ string) error {
	s.Log.Debugw("quitting")
	s.Exit(0)
	return nil
}

func helpCmd(r *Registry) Handler {
	return func(_ context.Context, s *Session, pattern string) error {
		text := r.HelpText()
		if pattern == "" {
			s.Println(text)
			return nil
		}
		for _, line := range strings.Split(text, "\n") {
			if strings.Contains(strings.ToLower(line), strings.ToLower(pattern)) {
				s.Println(line)
			}
		}
		return nil
	}
}

func promptCmd(_ context.Context, s *Session, text string) error {
	if text == "" {
		return errors.New("usage: .prompt <str>")
	}
	newPrompt := text + " "
	s.Log.Infow("changing prompt", "from", s.Prompt, "to", newPrompt)
	s.Prompt = newPrompt
	return nil
}

func modeCmd(_ context.Context, s *Session, style string) error {
	available := strings.Join(table.Styles(), ", ")
	if style == "" {
		return errors.Newf("usage: .mode <style> (one of: %s)", available)
	}
	if !table.IsStyle(style) {
		return errors.Newf("unknown table style %q (one of: %s)", style, available)
	}
	s.Log.Infow("changing table style", "from", s.TableStyle, "to", style)
	s.TableStyle = strings.ToLower(style)
	return nil
}

func printCmd(_ context.Context, s *Session, text string) error {
	if text != "" {
		s.Println(text)
	}
	return nil
}

func logCmd(_ context.Context, s *Session, target string) error {
	verbose := !s.Verbose()
	if target == "" || strings.EqualFold(target, "stdout") {
		if err := s.Log.Redirect(s.stdout); err != nil {
			s.Log.Warnw("closing log file", "error", err)
		}
	} else {
		path := expandHome(target)
		if err := s.Log.RedirectToFile(path); err != nil {
			return err
		}
	}
	s.Log.SetVerbose(verbose)
	state := "off"
	if verbose {
		state = "on"
	}
	s.Printf("verbose logging %s\n", state)
	return nil
}

func showCmd(_ context.Context, s *Session, prefix string) error {
	report := s.report()
	if prefix == "" {
		s.Println(report)
		return nil
	}
	s.Log.Debugw("showing info", "prefix", prefix)
	for _, line := range strings.Split(report, "\n") {
		if strings.HasPrefix(strings.ToLower(line), strings.ToLower(prefix)) {
			s.Println(line)
		}
	}
	return nil
}

// report renders the session settings grouped by section.
func (s *Session) report() string {
	env := func(key string) string {
		if v := s.Getenv(key); v != "" {
			return v
		}
		return "?"
	}
	driver := "none"
	if s.Driver != nil {
		driver = string(s.Driver.Type())
	}

	sections := []struct {
		title string
		rows  [][2]string
	}{
		{"SQLite", [][2]string{
			{"sqlite", db.SQLiteVersion()},
			{"database", s.Database},
			{"driver", driver},
			{"verbose", fmt.Sprint(s.Verbose())},
		}},
		{"Environment", [][2]string{
			{"CWD", s.Cwd},
			{"EDITOR", env("EDITOR")},
			{"HOME", env("HOME")},
			{"USER", env("USER")},
			{"LC_ALL", env("LC_ALL")},
		}},
		{"Styling", [][2]string{
			{"prompt", s.Prompt},
			{"style", s.Style},
			{"table style", s.TableStyle},
		}},
		{"Editing", [][2]string{
			{"multi-line", fmt.Sprint(s.Multiline)},
			{"bottom toolbar", fmt.Sprint(s.Infobar)},
			{"complete while typing", fmt.Sprint(s.CompleteWhileTyping)},
			{"history search", fmt.Sprint(s.HistorySearch)},
			{"history file", s.HistoryFile},
			{"open in editor", s.editor()},
		}},
		{"Output", [][2]string{
			{"output", s.OutputPath()},
		}},
	}

	var b strings.Builder
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(sec.title + "\n")
		b.WriteString(strings.Repeat("-", max(len(sec.title), 8)))
		for _, row := range sec.rows {
			fmt.Fprintf(&b, "\n%-24s%s", row[0], row[1])
		}
	}
	return b.String()
}
