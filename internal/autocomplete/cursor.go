// internal/autocomplete/cursor.go
package autocomplete

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
)

// ErrMalformedInput marks input whose quoting cannot be tokenised, such as an
// unterminated quote before the cursor.
var ErrMalformedInput = errors.New("malformed input")

// WordMode selects how far a word extends around the cursor.
type WordMode int

const (
	// Word stops at anything that is not a letter, digit or underscore.
	Word WordMode = iota
	// BigWord stops only at whitespace, so paths and dot-commands stay whole.
	BigWord
)

// CursorContext describes the word being completed. All offsets are byte
// offsets into FullText.
type CursorContext struct {
	FullText       string
	CursorPosition int
	CurrentWord    string
	WordStart      int
	IsFirstWord    bool

	// CurrentLine is the full line the cursor sits on and LineStart its offset.
	CurrentLine string
	LineStart   int
}

// Locate returns the context for completing text at cursor. The current word
// is the run of word characters immediately before the cursor. Cursor values
// outside the text are clamped.
func Locate(text string, cursor int, mode WordMode) (CursorContext, error) {
	cursor = max(0, min(cursor, len(text)))
	for cursor > 0 && cursor < len(text) && !utf8.RuneStart(text[cursor]) {
		cursor--
	}

	lineStart := strings.LastIndexByte(text[:cursor], '\n') + 1
	lineEnd := len(text)
	if nl := strings.IndexByte(text[cursor:], '\n'); nl >= 0 {
		lineEnd = cursor + nl
	}

	beforeCursor := text[lineStart:cursor]
	if _, err := shellquote.Split(beforeCursor); err != nil {
		return CursorContext{}, errors.Mark(errors.Wrap(err, "locate word"), ErrMalformedInput)
	}

	start := cursor
	for start > lineStart {
		r, size := utf8.DecodeLastRuneInString(text[lineStart:start])
		if !isWordRune(r, mode) {
			break
		}
		start -= size
	}

	return CursorContext{
		FullText:       text,
		CursorPosition: cursor,
		CurrentWord:    text[start:cursor],
		WordStart:      start,
		IsFirstWord:    strings.TrimSpace(text[lineStart:start]) == "",
		CurrentLine:    text[lineStart:lineEnd],
		LineStart:      lineStart,
	}, nil
}

func isWordRune(r rune, mode WordMode) bool {
	if mode == BigWord {
		return !unicode.IsSpace(r)
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
