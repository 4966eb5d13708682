// internal/autocomplete/completer.go
package autocomplete

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Options configures the default completer.
type Options struct {
	Commands       CommandSource
	ShellTriggers  []string
	ExecutableDirs []string
	Concurrent     bool
}

// Completer merges the candidates of several providers. Output order follows
// provider order, never completion timing.
type Completer struct {
	providers  []Provider
	concurrent bool
}

// NewCompleter creates a completer over providers, queried in the given order.
func NewCompleter(concurrent bool, providers ...Provider) *Completer {
	return &Completer{providers: providers, concurrent: concurrent}
}

// New builds the shell's completer: meta-commands, executables, filesystem
// paths and the static SQL vocabulary.
func New(opts Options) *Completer {
	dirs := opts.ExecutableDirs
	if dirs == nil {
		dirs = DefaultExecutableDirs
	}
	return NewCompleter(opts.Concurrent,
		NewMetaCommandProvider(opts.Commands),
		NewExecutableProvider(NewExecutableCache(dirs...), opts.ShellTriggers),
		NewFilesystemProvider(),
		NewStaticProvider(Vocabulary()),
	)
}

// Complete locates the word at cursor and returns all candidates for it.
// Malformed input yields no candidates.
func (c *Completer) Complete(ctx context.Context, text string, cursor int) []Candidate {
	cur, err := Locate(text, cursor, BigWord)
	if err != nil {
		return nil
	}
	return c.CompleteContext(ctx, cur)
}

// CompleteContext returns the candidates of every provider for cur. Exact
// duplicates (same text and label) are collapsed.
func (c *Completer) CompleteContext(ctx context.Context, cur CursorContext) []Candidate {
	results := make([][]Candidate, len(c.providers))

	if c.concurrent {
		g, gctx := errgroup.WithContext(ctx)
		for i, p := range c.providers {
			g.Go(func() error {
				var err error
				results[i], err = collect(gctx, p, cur)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil
		}
	} else {
		for i, p := range c.providers {
			var err error
			if results[i], err = collect(ctx, p, cur); err != nil {
				return nil
			}
		}
	}

	// Only exact (text, label) repeats collapse.
	type key struct{ text, label string }
	seen := make(map[key]struct{})
	var merged []Candidate
	for _, rs := range results {
		for _, cand := range rs {
			k := key{cand.Text, cand.Label}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			merged = append(merged, cand)
		}
	}
	return merged
}

func collect(ctx context.Context, p Provider, cur CursorContext) ([]Candidate, error) {
	var out []Candidate
	for cand := range p.Provide(cur) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cand.Text == "" {
			continue
		}
		out = append(out, cand)
	}
	return out, ctx.Err()
}
