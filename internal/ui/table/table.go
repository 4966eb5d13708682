// Package table renders query results as text tables.
package table

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

// Nord colors (matching OpenCode theme)
const (
	ColorForeground = "#D8DEE9" // Nord4: Light gray
	ColorComment    = "#4C566A" // Nord3: Dark gray
	ColorOrange     = "#D08770" // Nord12: Orange
	ColorPink       = "#B48EAD" // Nord15: Pink
	ColorPurple     = "#B48EAD" // Nord15: Purple
	ColorYellow     = "#EBCB8B" // Nord13: Yellow
	ColorTeal       = "#8FBCBB" // Nord7: Teal
)

// DefaultStyle is used when no table style has been chosen.
const DefaultStyle = "rounded"

var borders = map[string]lipgloss.Border{
	"ascii":    lipgloss.ASCIIBorder(),
	"block":    lipgloss.BlockBorder(),
	"double":   lipgloss.DoubleBorder(),
	"hidden":   lipgloss.HiddenBorder(),
	"markdown": lipgloss.MarkdownBorder(),
	"normal":   lipgloss.NormalBorder(),
	"rounded":  lipgloss.RoundedBorder(),
	"thick":    lipgloss.ThickBorder(),
}

// Styles returns the names accepted by Render, sorted.
func Styles() []string {
	names := make([]string, 0, len(borders))
	for name := range borders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsStyle reports whether name is a known table style.
func IsStyle(name string) bool {
	_, ok := borders[strings.ToLower(name)]
	return ok
}

// Render draws rows under the given column headers using style. Unknown
// styles fall back to DefaultStyle.
func Render(columns []string, rows [][]string, style string) string {
	border, ok := borders[strings.ToLower(style)]
	if !ok {
		border = borders[DefaultStyle]
	}

	t := lgtable.New().
		Border(border).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorComment))).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == lgtable.HeaderRow {
				return base.Foreground(lipgloss.Color(ColorTeal)).Bold(true)
			}
			if row >= 0 && row < len(rows) && col < len(rows[row]) {
				return ValueStyle(rows[row][col]).Padding(0, 1)
			}
			return base
		})

	if strings.EqualFold(style, "markdown") {
		t = t.BorderTop(false).BorderBottom(false)
	}
	return t.Render()
}

// ValueStyle returns a lipgloss style based on value content
func ValueStyle(val string) lipgloss.Style {
	if val == "" || strings.ToUpper(val) == "NULL" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPink)).Italic(true)
	}
	if _, err := strconv.ParseFloat(val, 64); err == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPurple))
	}
	lower := strings.ToLower(val)
	if lower == "true" || lower == "false" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOrange))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForeground))
}
