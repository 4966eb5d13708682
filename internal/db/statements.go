// internal/db/statements.go
package db

import (
	"strings"
)

// SplitStatements splits a script on semicolons that sit outside quotes and
// comments. Comments are dropped. A trailing unterminated statement is
// returned as the last element.
func SplitStatements(script string) []string {
	statements, rest := scanStatements(script)
	if rest != "" {
		statements = append(statements, rest)
	}
	return statements
}

// IsComplete reports whether input contains no unterminated statement, i.e.
// every statement in it has been closed by a semicolon.
func IsComplete(input string) bool {
	_, rest := scanStatements(input)
	return rest == ""
}

func scanStatements(script string) ([]string, string) {
	var statements []string
	var current strings.Builder
	var quote byte

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i := 0; i < len(script); i++ {
		c := script[i]

		if quote != 0 {
			current.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '[':
			quote = ']'
		case c == '-' && i+1 < len(script) && script[i+1] == '-':
			nl := strings.IndexByte(script[i:], '\n')
			if nl < 0 {
				i = len(script)
			} else {
				i += nl - 1
			}
			continue
		case c == '/' && i+1 < len(script) && script[i+1] == '*':
			end := strings.Index(script[i+2:], "*/")
			if end < 0 {
				i = len(script)
			} else {
				i += end + 3
			}
			current.WriteByte(' ')
			continue
		case c == ';':
			if inTriggerBody(current.String()) {
				break
			}
			flush()
			continue
		}

		current.WriteByte(c)
	}

	return statements, strings.TrimSpace(current.String())
}

// inTriggerBody reports whether stmt is a CREATE TRIGGER whose BEGIN block has
// not been closed by END yet. CASE ... END pairs nest inside the block.
func inTriggerBody(stmt string) bool {
	words := keywords(stmt)
	if len(words) < 2 || words[0] != "CREATE" {
		return false
	}
	isTrigger := false
	for _, w := range words[1:min(4, len(words))] {
		if w == "TRIGGER" {
			isTrigger = true
			break
		}
	}
	if !isTrigger {
		return false
	}

	depth, body := 0, false
	for _, w := range words {
		switch w {
		case "BEGIN":
			body = true
			depth++
		case "CASE":
			depth++
		case "END":
			depth--
		}
	}
	return body && depth > 0
}

// keywords returns the bare words of stmt in upper case, skipping quoted
// strings and identifiers.
func keywords(stmt string) []string {
	var words []string
	start := -1
	for i := 0; i <= len(stmt); i++ {
		var c byte
		if i < len(stmt) {
			c = stmt[i]
		}
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, strings.ToUpper(stmt[start:i]))
			start = -1
		}
		closing := byte(0)
		switch c {
		case '\'', '"', '`':
			closing = c
		case '[':
			closing = ']'
		}
		if closing != 0 {
			end := strings.IndexByte(stmt[i+1:], closing)
			if end < 0 {
				break
			}
			i += end + 1
		}
	}
	return words
}
