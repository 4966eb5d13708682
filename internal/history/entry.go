// internal/history/entry.go
package history

import (
	"strings"
	"time"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Entry represents a single submitted input line in history
type Entry struct {
	ID           int64
	Database     string
	Line         string
	ExecutedAt   time.Time
	DurationMs   int64
	RowCount     int
	Status       string
	ErrorMessage string
}

// Preview returns a single-line, truncated version of the input
func (e *Entry) Preview(maxLen int) string {
	q := []rune(strings.Join(strings.Fields(e.Line), " "))
	if len(q) > maxLen && maxLen > 3 {
		return string(q[:maxLen-3]) + "..."
	}
	return string(q)
}
