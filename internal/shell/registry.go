// internal/shell/registry.go
package shell

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nhath/sqlrepl/internal/autocomplete"
)

// Handler runs a meta-command. args is the rest of the line with the trigger
// removed and surrounding whitespace trimmed.
type Handler func(ctx context.Context, s *Session, args string) error

// MetaCommand is a dot-command and the trigger strings that select it.
type MetaCommand struct {
	Triggers    []string
	Usage       string
	Description string
	Run         Handler
}

// Registry is an ordered list of meta-commands. The first command with a
// matching trigger claims the line, so more specific triggers go first.
type Registry struct {
	commands []*MetaCommand
}

// NewRegistry creates a registry holding cmds in match order.
func NewRegistry(cmds ...*MetaCommand) *Registry {
	return &Registry{commands: cmds}
}

// Register appends cmd at the lowest match priority.
func (r *Registry) Register(cmd *MetaCommand) {
	r.commands = append(r.commands, cmd)
}

// Commands returns the registered commands in match order.
func (r *Registry) Commands() []*MetaCommand {
	return r.commands
}

// Match returns the first command claiming line and the trigger that matched.
// A trigger matches when the trimmed line equals it or continues with
// whitespace, so ".exitxyz" is not ".exit".
func (r *Registry) Match(line string) (*MetaCommand, string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, cmd := range r.commands {
		for _, trigger := range cmd.Triggers {
			if matchesTrigger(trimmed, trigger) {
				return cmd, trigger, true
			}
		}
	}
	return nil, "", false
}

func matchesTrigger(trimmed, trigger string) bool {
	if !strings.HasPrefix(trimmed, trigger) {
		return false
	}
	if len(trimmed) == len(trigger) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(trimmed[len(trigger):])
	return unicode.IsSpace(r)
}

// Sanitize strips trigger from the start of the trimmed line and trims what
// remains.
func Sanitize(line, trigger string) string {
	trimmed := strings.TrimSpace(line)
	return strings.TrimSpace(strings.Replace(trimmed, trigger, "", 1))
}

// Dispatch runs the command claiming line, if any, and reports whether one
// did. Handler errors are printed as one line and never returned.
func (r *Registry) Dispatch(ctx context.Context, s *Session, line string) bool {
	cmd, trigger, ok := r.Match(line)
	if !ok {
		return false
	}
	args := Sanitize(line, trigger)
	s.Log.Debugw("running meta command", "command", trigger, "args", args)
	if err := cmd.Run(ctx, s, args); err != nil {
		s.Log.Debugw("meta command failed", "command", trigger, "error", err)
		s.ReportError(err)
	}
	return true
}

// CommandHelp lists every trigger with its usage and description, in match
// order. It feeds both .help and completion.
func (r *Registry) CommandHelp() []autocomplete.CommandHelp {
	var out []autocomplete.CommandHelp
	for _, cmd := range r.commands {
		for _, trigger := range cmd.Triggers {
			out = append(out, autocomplete.CommandHelp{
				Name:        trigger,
				Usage:       cmd.Usage,
				Description: cmd.Description,
			})
		}
	}
	return out
}

// HelpText renders one aligned line per trigger.
func (r *Registry) HelpText() string {
	var b strings.Builder
	for i, h := range r.CommandHelp() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-10s %-20s %s", h.Name, h.Usage, h.Description)
	}
	return b.String()
}
