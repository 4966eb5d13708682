// internal/autocomplete/provider.go
package autocomplete

import "iter"

// Candidate is one suggested completion. Text replaces FullText[Offset:cursor].
type Candidate struct {
	Text   string
	Label  string
	Kind   Category
	Offset int
}

// Provider produces candidates for a cursor context. The returned sequence is
// finite and is regenerated by calling Provide again.
type Provider interface {
	Provide(cur CursorContext) iter.Seq[Candidate]
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(cur CursorContext) iter.Seq[Candidate]

func (f ProviderFunc) Provide(cur CursorContext) iter.Seq[Candidate] {
	return f(cur)
}

func candidate(text string, kind Category, cur CursorContext) Candidate {
	return Candidate{Text: text, Label: kind.Label(), Kind: kind, Offset: cur.WordStart}
}
