// ABOUTME: Maps compiler failure output to cleaned display lines and zero-based source line ranges.
// ABOUTME: Parses "<file>.java:<line>:" references with an explicit parser that skips malformed input.
package playpen

import (
	"strconv"
	"strings"
)

// ProblemKind selects which compiler problems are kept and highlighted.
type ProblemKind string

const (
	KindError   ProblemKind = "error"
	KindWarning ProblemKind = "warning"
)

// FullLineColumn is the end column used for whole-line ranges. It is wider
// than any realistic source line.
const FullLineColumn = 100

// SourceRange is a span of editor rows and columns. Rows are zero-based.
type SourceRange struct {
	StartRow    int `json:"start_row"`
	StartColumn int `json:"start_column"`
	EndRow      int `json:"end_row"`
	EndColumn   int `json:"end_column"`
}

// DiagnosticSet holds ranges in the order they appear in the output.
// Duplicates are kept.
type DiagnosticSet []SourceRange

// Dialect describes how the remote compiler names its temporary sources.
type Dialect struct {
	// TempPathPrefix starts every line the compiler prints about its own
	// temporary source file.
	TempPathPrefix string `yaml:"temp_path_prefix"`
	// SourceMarker precedes the line number in a source reference.
	SourceMarker string `yaml:"source_marker"`
}

// JavaDialect matches the remote Java playground.
var JavaDialect = Dialect{
	TempPathPrefix: "/tmp/java_",
	SourceMarker:   ".java:",
}

func (d Dialect) withDefaults() Dialect {
	if d.TempPathPrefix == "" {
		d.TempPathPrefix = JavaDialect.TempPathPrefix
	}
	if d.SourceMarker == "" {
		d.SourceMarker = JavaDialect.SourceMarker
	}
	return d
}

// MapDiagnostics cleans compiler boilerplate out of rawText and collects the
// source lines it refers to. Lines about the compiler's temporary file keep
// only the text from "<kind>: " onward and are dropped when that is absent.
// All other lines are kept verbatim. Empty lines are removed from the result.
func (d Dialect) MapDiagnostics(rawText string, kind ProblemKind) ([]string, DiagnosticSet) {
	d = d.withDefaults()
	lines := SplitLines(rawText)
	needle := string(kind) + ": "

	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, d.TempPathPrefix) {
			idx := strings.Index(line, needle)
			if idx == -1 {
				continue
			}
			line = line[idx:]
		}
		if line == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}

	return cleaned, d.ParseRanges(lines)
}

// ParseRanges returns one full-line range per line that references a source
// line number. References without a valid line number are skipped.
func (d Dialect) ParseRanges(lines []string) DiagnosticSet {
	d = d.withDefaults()
	var ranges DiagnosticSet
	for _, line := range lines {
		n, ok := d.lineReference(line)
		if !ok {
			continue
		}
		row := n - 1
		ranges = append(ranges, SourceRange{
			StartRow:    row,
			StartColumn: 0,
			EndRow:      row,
			EndColumn:   FullLineColumn,
		})
	}
	return ranges
}

// lineReference finds the first "<marker><digits>:" in line and returns the
// one-based line number.
func (d Dialect) lineReference(line string) (int, bool) {
	rest := line
	for {
		idx := strings.Index(rest, d.SourceMarker)
		if idx == -1 {
			return 0, false
		}
		rest = rest[idx+len(d.SourceMarker):]

		digits, _, found := strings.Cut(rest, ":")
		if found && isDigits(digits) {
			n, err := strconv.Atoi(digits)
			if err == nil && n >= 1 {
				return n, true
			}
		}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MarkerClass is the CSS class the editor uses to highlight ranges of kind.
func MarkerClass(kind ProblemKind) string {
	return "ace-" + string(kind) + "-line"
}
