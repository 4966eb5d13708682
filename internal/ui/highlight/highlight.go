// Package highlight colors SQL for terminal output.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is used when the configured style is unknown.
const DefaultStyle = "monokai"

// IsStyle reports whether name is a registered chroma style.
func IsStyle(name string) bool {
	_, ok := styles.Registry[strings.ToLower(name)]
	return ok
}

// SQL returns sql colored with 256-color ANSI sequences in the given style.
// The input is returned unchanged if highlighting fails.
func SQL(sql, style string) string {
	if !IsStyle(style) {
		style = DefaultStyle
	}
	var b strings.Builder
	if err := quick.Highlight(&b, sql, "sql", "terminal256", style); err != nil {
		return sql
	}
	return b.String()
}
