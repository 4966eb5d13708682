// cmd/sqlrepl/root.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nhath/sqlrepl/internal/autocomplete"
	"github.com/nhath/sqlrepl/internal/config"
	"github.com/nhath/sqlrepl/internal/db"
	"github.com/nhath/sqlrepl/internal/history"
	"github.com/nhath/sqlrepl/internal/logging"
	"github.com/nhath/sqlrepl/internal/repl"
	"github.com/nhath/sqlrepl/internal/shell"
	"github.com/nhath/sqlrepl/internal/ui"
)

// Version information (set via ldflags during build)
var Version = "dev"

type options struct {
	database   string
	configPath string
	prompt     string
	tableStyle string
	multiline  bool
	noInfobar  bool
	verbose    bool
	debug      bool
}

func newRootCmd(code *int) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "sqlrepl [database]",
		Short:         "SQLite shell with completion and syntax highlighting",
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.database = args[0]
			}
			c, err := run(cmd.Context(), cmd, opts)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				return err
			}
			*code = c
			return nil
		},
	}

	bindFlags(cmd.Flags(), opts)
	return cmd
}

func bindFlags(f *pflag.FlagSet, opts *options) {
	f.StringVarP(&opts.database, "database", "d", "", "database file or connection URL to open")
	f.StringVar(&opts.database, "db", "", "alias of --database")
	f.StringVar(&opts.configPath, "config", "", "config file (default: XDG config dir)")
	f.StringVar(&opts.prompt, "prompt", "", "prompt text")
	f.StringVar(&opts.tableStyle, "table-style", "", "table style for query results")
	f.BoolVar(&opts.multiline, "multiline", false, "continue statements until a semicolon")
	f.BoolVar(&opts.noInfobar, "no-infobar", false, "hide the bottom status bar")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	f.BoolVar(&opts.debug, "debug", false, "write debug logs to debug.log")
	_ = f.MarkHidden("db")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// applyFlags overrides config values with flags given on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *options) error {
	flags := cmd.Flags()
	if opts.database != "" {
		cfg.Database = opts.database
	}
	if flags.Changed("prompt") {
		cfg.Prompt = opts.prompt
	}
	if flags.Changed("table-style") {
		cfg.TableStyle = opts.tableStyle
	}
	if flags.Changed("multiline") {
		cfg.Multiline = opts.multiline
	}
	if opts.noInfobar {
		cfg.Infobar = false
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	if cfg.Database == "" {
		return errors.New("no database given")
	}
	return nil
}

func run(ctx context.Context, cmd *cobra.Command, opts *options) (int, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return 1, errors.Wrap(err, "load config")
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return 1, err
	}

	log := logging.New(os.Stderr, cfg.Verbose || opts.debug)
	defer log.Close()
	if opts.debug {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			return 1, errors.Wrap(err, "open debug log")
		}
		defer f.Close()
		if err := log.RedirectToFile("debug.log"); err != nil {
			return 1, err
		}
	}
	ui.InitStyles(cfg.Theme)

	historyPath := cfg.HistoryFile
	if historyPath == "" {
		if historyPath, err = history.DefaultPath(); err != nil {
			log.Warnw("resolving history path", "error", err)
		}
	}
	var recorder repl.Recorder
	var lines []string
	if historyPath != "" {
		store, err := history.NewStore(historyPath, history.Options{
			Limit:         cfg.HistoryLimit,
			RetentionDays: cfg.HistoryRetentionDays,
		})
		if err != nil {
			log.Warnw("history disabled", "path", historyPath, "error", err)
		} else {
			defer store.Close()
			recorder = store
			if lines, err = store.Lines(cfg.HistoryLimit); err != nil {
				log.Warnw("loading history", "error", err)
			}
		}
	}

	s := shell.NewSession(os.Stdout, os.Stderr, log)
	s.Prompt = cfg.Prompt
	s.TableStyle = cfg.TableStyle
	s.Style = cfg.Style
	s.Multiline = cfg.Multiline
	s.Infobar = cfg.Infobar
	s.CompleteWhileTyping = cfg.CompleteWhileTyping
	s.HistorySearch = cfg.HistorySearch
	s.HistoryFile = historyPath
	s.Editor = cfg.Editor
	s.BackupStepPages = cfg.BackupStepPages
	defer func() {
		if err := s.Close(); err != nil {
			s.ReportError(err)
		}
	}()

	registry := shell.NewDefaultRegistry()
	completer := autocomplete.New(autocomplete.Options{
		Commands:       registry,
		ShellTriggers:  shell.ShellTriggers,
		ExecutableDirs: cfg.ExecutableDirs,
		Concurrent:     true,
	})

	reader := ui.NewReader(ui.ReaderOptions{
		In:            os.Stdin,
		Out:           os.Stdout,
		Session:       s,
		Completer:     completer,
		History:       lines,
		CompleteDelay: time.Duration(cfg.CompleteDelayMS) * time.Millisecond,
	})
	s.Confirm = reader

	dsn := startupDSN(cfg.Database)
	if err := s.Open(dsn); err != nil {
		return 1, err
	}
	log.Debugw("starting", "database", dsn, "config", cfg.Path(), "history", historyPath)

	loop := repl.New(repl.Options{
		Session:  s,
		Registry: registry,
		Reader:   reader,
		History:  recorder,
		Script:   !isatty.IsTerminal(os.Stdin.Fd()),
	})
	return loop.Run(ctx)
}

// startupDSN expands a leading ~ in SQLite paths.
func startupDSN(dsn string) string {
	path, ok := db.IsSQLiteDSN(dsn)
	if !ok || (path != "~" && !strings.HasPrefix(path, "~/")) {
		return dsn
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dsn
	}
	return filepath.Join(home, path[1:])
}
