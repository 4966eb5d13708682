// internal/autocomplete/meta.go
package autocomplete

import (
	"iter"
	"strings"
)

// CommandPrefix starts every meta-command.
const CommandPrefix = "."

// CommandHelp describes one meta-command trigger.
type CommandHelp struct {
	Name        string
	Usage       string
	Description string
}

// CommandSource lists the meta-commands known to the dispatcher.
type CommandSource interface {
	CommandHelp() []CommandHelp
}

// MetaCommandProvider completes dot-commands at the start of a line.
type MetaCommandProvider struct {
	source CommandSource
}

func NewMetaCommandProvider(source CommandSource) *MetaCommandProvider {
	return &MetaCommandProvider{source: source}
}

// Provide yields commands matching the current word, labelled with their
// description.
func (p *MetaCommandProvider) Provide(cur CursorContext) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if p.source == nil || !cur.IsFirstWord || !strings.HasPrefix(cur.CurrentWord, CommandPrefix) {
			return
		}
		upper := strings.ToUpper(cur.CurrentWord)
		lower := strings.ToLower(cur.CurrentWord)
		for _, cmd := range p.source.CommandHelp() {
			if !strings.HasPrefix(cmd.Name, lower) && !strings.HasPrefix(cmd.Name, upper) {
				continue
			}
			c := candidate(cmd.Name, CategoryMetaCommand, cur)
			c.Label = cmd.Description
			if !yield(c) {
				return
			}
		}
	}
}
