// internal/autocomplete/static.go
package autocomplete

import (
	"iter"
	"strings"
)

// StaticProvider matches the current word against a fixed vocabulary.
type StaticProvider struct {
	entries []VocabularyEntry
}

// NewStaticProvider creates a provider over entries. Repeated (token,
// category) pairs are collapsed.
func NewStaticProvider(entries []VocabularyEntry) *StaticProvider {
	return &StaticProvider{entries: dedupeEntries(entries)}
}

// Provide yields every entry whose token starts with the upper- or lower-case
// form of the current word, in vocabulary order.
func (p *StaticProvider) Provide(cur CursorContext) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if strings.TrimSpace(cur.CurrentLine) == "" || cur.CurrentWord == "" {
			return
		}
		upper := strings.ToUpper(cur.CurrentWord)
		lower := strings.ToLower(cur.CurrentWord)
		for _, e := range p.entries {
			if !strings.HasPrefix(e.Token, upper) && !strings.HasPrefix(e.Token, lower) {
				continue
			}
			c := candidate(e.Token, e.Category, cur)
			if !yield(c) {
				return
			}
		}
	}
}
