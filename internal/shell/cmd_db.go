// internal/shell/cmd_db.go
package shell

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/nhath/sqlrepl/internal/db"
	"github.com/nhath/sqlrepl/internal/ui/highlight"
	"github.com/nhath/sqlrepl/internal/ui/table"
)

func tablesCmd(ctx context.Context, s *Session, pattern string) error {
	if err := s.requireDriver(); err != nil {
		return err
	}
	names, err := s.Driver.GetTables(ctx)
	if err != nil {
		return err
	}

	var rows [][]string
	for _, name := range names {
		if pattern == "" || strings.Contains(strings.ToLower(name), strings.ToLower(pattern)) {
			rows = append(rows, []string{name})
		}
	}
	s.Log.Debugw("showing tables", "pattern", pattern, "count", len(rows))
	s.Println(table.Render([]string{"name"}, rows, s.TableStyle))
	return nil
}

func openCmd(_ context.Context, s *Session, target string) error {
	if target == "" {
		return errors.New("please provide file name")
	}
	dsn := target
	if path, ok := db.IsSQLiteDSN(target); ok && path != ":memory:" {
		path = expandHome(path)
		dsn = path
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			abs, _ := filepath.Abs(path)
			ok, err := s.Confirm.Confirm("Would you like to create a new database in " + abs + "? [y/n]")
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
	}
	s.Log.Infow("opening database", "database", dsn)
	return s.Open(dsn)
}

func dumpCmd(ctx context.Context, s *Session, target string) error {
	if err := s.requireDriver(); err != nil {
		return err
	}
	dumper, ok := s.Driver.(db.Dumper)
	if !ok {
		return errors.Wrapf(db.ErrUnsupported, "dump needs a SQLite database, not %s", s.Driver.Type())
	}

	if target == "" {
		s.Log.Infow("dumping database to output")
		colored := s.outIsTerminal()
		return dumper.Dump(ctx, func(stmt string) error {
			if colored {
				stmt = strings.TrimRight(highlight.SQL(stmt, s.Style), "\n")
			}
			s.Println(stmt)
			return nil
		})
	}

	path := expandHome(target)
	s.Log.Infow("dumping database", "path", path)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrapf(err, "cannot write dump to %s", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	n := 0
	if err := dumper.Dump(ctx, func(stmt string) error {
		n++
		_, err := w.WriteString(stmt + "\n")
		return err
	}); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "cannot write dump to %s", path)
	}
	s.Printf("wrote database dump to %s (%d lines of SQL)\n", path, n)
	return nil
}

func backupCmd(ctx context.Context, s *Session, target string) error {
	if target == "" {
		return errors.New("please provide output path")
	}
	if err := s.requireDriver(); err != nil {
		return err
	}
	backuper, ok := s.Driver.(db.Backuper)
	if !ok {
		return errors.Wrapf(db.ErrUnsupported, "backup needs a SQLite database, not %s", s.Driver.Type())
	}

	path := expandHome(target)
	s.Log.Infow("backing up database", "path", path)
	return backuper.Backup(ctx, path, s.BackupStepPages, func(p db.BackupProgress) {
		s.Printf("Copied %d of %d pages...\n", p.Total-p.Remaining, p.Total)
	})
}
