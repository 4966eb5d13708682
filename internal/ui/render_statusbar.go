// internal/ui/render_statusbar.go
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// statusTitle leads the bottom toolbar.
const statusTitle = "SQLite3 REPL"

func (m PromptModel) renderStatusBar() string {
	if m.status == nil {
		return ""
	}

	parts := []string{StatusValueStyle.Bold(true).Render(statusTitle)}
	for _, f := range m.status() {
		value := f.Value
		if value == "" {
			value = "-"
		}
		parts = append(parts, StatusKeyStyle.Render(f.Key), StatusValueStyle.Render(limitString(value, 40)))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	if m.width > 0 {
		return StatusBarStyle.Width(m.width).MaxWidth(m.width).Render(content)
	}
	return StatusBarStyle.Render(content)
}

// limitString shortens s to n runes, keeping the tail, which is the more
// telling part of a path.
func limitString(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "..." + string(r[len(r)-n+3:])
}
