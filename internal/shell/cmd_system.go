// internal/shell/cmd_system.go
package shell

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/shlex"
)

func shellCmd(_ context.Context, s *Session, cmdline string) error {
	args, err := shlex.Split(cmdline)
	if err != nil {
		return errors.Wrap(err, "cannot parse command")
	}
	if len(args) == 0 {
		return errors.New("usage: .shell <cmd>")
	}
	for i, arg := range args {
		if strings.HasPrefix(arg, "~") {
			args[i] = expandHome(arg)
		}
	}
	s.Log.Debugw("running shell command", "args", args)

	// Blocks until the child exits; no timeout.
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Out
	cmd.Stderr = s.Err
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			s.Log.Debugw("shell command exited", "args", args, "code", exitErr.ExitCode())
			return nil
		}
		return errors.Wrapf(err, "cannot run %s", args[0])
	}
	return nil
}

// runEditor opens file in editor attached to the real terminal. editor may
// carry its own arguments, e.g. "code --wait".
func runEditor(s *Session, editor, file string) error {
	parts, err := shlex.Split(editor)
	if err != nil || len(parts) == 0 {
		return errors.Newf("invalid editor command %q", editor)
	}
	cmd := exec.Command(parts[0], append(parts[1:], file)...)
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "editor %s failed", parts[0])
	}
	return nil
}
