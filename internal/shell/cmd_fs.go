// internal/shell/cmd_fs.go
package shell

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

func cdCmd(_ context.Context, s *Session, dir string) error {
	path := expandHome(dir)
	if path == "" {
		path = expandHome("~")
	}
	if err := os.Chdir(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.Log.Debugw("cd target does not exist", "path", path)
			return nil
		}
		return errors.Wrapf(err, "cannot change directory to %s", path)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "read working directory")
	}
	s.Cwd = cwd
	s.Log.Infow("changed directory", "path", cwd)
	return nil
}

func outputCmd(_ context.Context, s *Session, target string) error {
	if target == "" || strings.EqualFold(target, "stdout") {
		s.Log.Infow("redirecting output to stdout")
		s.RestoreOutput()
		return nil
	}
	path := expandHome(target)
	s.Log.Infow("redirecting output", "path", path)
	return s.SetOutput(path)
}

// readHeader precedes a script opened in the editor by .read.
const readHeader = `-- vim:ft=sql:

-- Copy of %s

-- Verify this script before running it
-- Feel free to modify it or just save & exit to evaluate it as is

`

func readCmd(ctx context.Context, s *Session, file string) error {
	path := expandHome(file)
	if info, err := os.Stat(path); file == "" || err != nil || info.IsDir() {
		return errors.New("please provide file name")
	}
	s.Log.Infow("reading SQL script", "path", path)

	var script string
	if editor := s.editor(); editor != "" {
		edited, err := editScript(s, editor, path)
		if err != nil {
			return err
		}
		script = edited
	} else {
		ok, err := s.Confirm.Confirm("Would you like to eval SQL from " + path + "? [y/n]")
		if err != nil || !ok {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}
		script = string(data)
	}

	return RunScript(ctx, s, script)
}

// editScript copies the file at path behind a header into a scratch file,
// runs editor on it and returns what was saved.
func editScript(s *Session, editor, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}

	f, err := os.CreateTemp("", "sqlrepl-*.sql")
	if err != nil {
		return "", errors.Wrap(err, "create scratch file")
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(formatHeader(path) + string(data)); err != nil {
		f.Close()
		return "", errors.Wrap(err, "write scratch file")
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "write scratch file")
	}

	s.Log.Debugw("editing script before running", "editor", editor, "path", f.Name())
	if err := runEditor(s, editor, f.Name()); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(f.Name())
	if err != nil {
		return "", errors.Wrap(err, "read scratch file")
	}
	return string(edited), nil
}

func formatHeader(path string) string {
	return fmt.Sprintf(readHeader, path)
}
