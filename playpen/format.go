// ABOUTME: Escapes output lines for safe HTML display and joins them with line breaks.
// ABOUTME: Provides SplitLines, which treats \r\n, \r, and \n as the same line separator.
package playpen

import (
	"html"
	"strings"
)

// DisplayMessage is text that is already safe to insert into HTML content.
type DisplayMessage string

// Plain turns the message back into terminal text: line breaks become
// newlines and entities are decoded.
func (m DisplayMessage) Plain() string {
	return html.UnescapeString(strings.ReplaceAll(string(m), LineBreak, "\n"))
}

// LineBreak joins escaped lines in a DisplayMessage.
const LineBreak = "<br />"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"/", "&#x2F;",
)

// EscapeHTML replaces each of & < > " ' / with its entity. Every original
// character maps to exactly one replacement, so entities are never nested.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Format escapes every line and joins them with LineBreak. Callers must pass
// unescaped text; formatting an already formatted message escapes it twice.
func Format(lines []string) DisplayMessage {
	escaped := make([]string, len(lines))
	for i, line := range lines {
		escaped[i] = EscapeHTML(line)
	}
	return DisplayMessage(strings.Join(escaped, LineBreak))
}

// SplitLines splits text on \r\n, \r, or \n.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(lines, text[start:])
}
