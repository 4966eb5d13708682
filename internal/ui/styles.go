// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/sqlrepl/internal/config"
)

var (
	// Colors (exported via getter functions below)
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color

	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color

	bgPrimary   lipgloss.Color
	bgSecondary lipgloss.Color
	cardBg      lipgloss.Color

	// Styles
	StatusBarStyle          lipgloss.Style
	StatusKeyStyle          lipgloss.Style
	StatusValueStyle        lipgloss.Style
	PromptStyle             lipgloss.Style
	ContinuationStyle       lipgloss.Style
	SuggestionBoxStyle      lipgloss.Style
	SuggestionItemStyle     lipgloss.Style
	SuggestionSelectedStyle lipgloss.Style
	SuggestionMetaStyle     lipgloss.Style
	SearchStyle             lipgloss.Style
	ErrorStyle              lipgloss.Style
	WarningStyle            lipgloss.Style
)

// Color getter functions for use in components
func TextPrimary() lipgloss.Color    { return textPrimary }
func TextSecondary() lipgloss.Color  { return textSecondary }
func TextFaint() lipgloss.Color      { return textFaint }
func AccentColor() lipgloss.Color    { return accentColor }
func SuccessColor() lipgloss.Color   { return successColor }
func ErrorColor() lipgloss.Color     { return errorColor }
func HighlightColor() lipgloss.Color { return highlightColor }
func WarningColor() lipgloss.Color   { return warningColor }
func BgPrimary() lipgloss.Color      { return bgPrimary }
func BgSecondary() lipgloss.Color    { return bgSecondary }
func CardBg() lipgloss.Color         { return cardBg }

func init() {
	InitStyles(config.DefaultConfig().Theme)
}

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)

	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)

	bgPrimary = lipgloss.Color(theme.BgPrimary)
	bgSecondary = lipgloss.Color(theme.BgSecondary)
	cardBg = lipgloss.Color(theme.CardBg)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	StatusKeyStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(accentColor).
		Foreground(bgPrimary)

	StatusValueStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(cardBg).
		Foreground(textPrimary)

	PromptStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor)

	ContinuationStyle = lipgloss.NewStyle().
		Foreground(textFaint)

	SuggestionBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(textFaint).
		Padding(0, 1)

	SuggestionItemStyle = lipgloss.NewStyle().
		Foreground(textPrimary)

	SuggestionSelectedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(highlightColor).
		Bold(true)

	SuggestionMetaStyle = lipgloss.NewStyle().
		Foreground(textSecondary).
		Italic(true)

	SearchStyle = lipgloss.NewStyle().
		Foreground(highlightColor).
		Bold(true)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	WarningStyle = lipgloss.NewStyle().
		Foreground(bgPrimary).
		Background(warningColor).
		Bold(true).
		Padding(0, 1)
}
