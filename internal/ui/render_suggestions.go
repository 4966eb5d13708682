// internal/ui/render_suggestions.go
package ui

import (
	"fmt"
	"strings"
)

// maxVisibleSuggestions limits the completion menu height.
const maxVisibleSuggestions = 8

// renderSuggestions renders the completion menu, keeping the selection in view.
func (m PromptModel) renderSuggestions() string {
	if !m.completing || len(m.suggestions) == 0 {
		return ""
	}

	start := 0
	if m.suggestionIdx > 3 {
		start = m.suggestionIdx - 3
	}
	end := start + maxVisibleSuggestions
	if end > len(m.suggestions) {
		end = len(m.suggestions)
		start = max(0, end-maxVisibleSuggestions)
	}

	width := 0
	for _, c := range m.suggestions[start:end] {
		width = max(width, len([]rune(c.Text)))
	}

	var views []string
	for i := start; i < end; i++ {
		c := m.suggestions[i]
		style := SuggestionItemStyle
		prefix := "  "
		if i == m.suggestionIdx {
			style = SuggestionSelectedStyle
			prefix = "> "
		}
		text := fmt.Sprintf("%s%-*s", prefix, width, c.Text)
		views = append(views, style.Render(text)+" "+SuggestionMetaStyle.Render(limitString(c.Label, 40)))
	}
	if len(m.suggestions) > maxVisibleSuggestions {
		views = append(views, SuggestionMetaStyle.Render(fmt.Sprintf("  %d/%d", max(m.suggestionIdx, 0)+1, len(m.suggestions))))
	}

	return SuggestionBoxStyle.Render(strings.Join(views, "\n"))
}

func (m PromptModel) renderSearch() string {
	label := "(reverse-i-search)"
	match, ok := m.searchMatch()
	if !ok && m.searchQuery != "" {
		label = "(failing reverse-i-search)"
	}
	return SearchStyle.Render(fmt.Sprintf("%s`%s': ", label, m.searchQuery)) + match
}
