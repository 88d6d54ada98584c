// ABOUTME: Tests for compiler diagnostic mapping: boilerplate stripping and source range extraction.
// ABOUTME: Malformed references must be skipped without panicking.
package playpen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDiagnosticsSingleError(t *testing.T) {
	lines, ranges := JavaDialect.MapDiagnostics("/tmp/java_123/Main.java:7: error: missing semicolon", KindError)

	assert.Equal(t, []string{"error: missing semicolon"}, lines)
	require.Len(t, ranges, 1)
	assert.Equal(t, SourceRange{StartRow: 6, StartColumn: 0, EndRow: 6, EndColumn: FullLineColumn}, ranges[0])
}

func TestMapDiagnosticsKeepsDuplicates(t *testing.T) {
	raw := "/tmp/java_1/Main.java:3: error: cannot find symbol\n" +
		"/tmp/java_1/Main.java:3: error: incompatible types"
	lines, ranges := JavaDialect.MapDiagnostics(raw, KindError)

	assert.Equal(t, []string{"error: cannot find symbol", "error: incompatible types"}, lines)
	require.Len(t, ranges, 2)
	assert.Equal(t, 2, ranges[0].StartRow)
	assert.Equal(t, 2, ranges[1].StartRow)
}

func TestMapDiagnosticsDropsBoilerplate(t *testing.T) {
	raw := "/tmp/java_9/Main.java:4: error: ';' expected\r\n" +
		"        System.out.println(\"hi\")\r\n" +
		"                                 ^\r\n" +
		"/tmp/java_9/compile.log written\r\n" +
		"\r\n" +
		"1 error"
	lines, ranges := JavaDialect.MapDiagnostics(raw, KindError)

	assert.Equal(t, []string{
		"error: ';' expected",
		"        System.out.println(\"hi\")",
		"                                 ^",
		"1 error",
	}, lines)
	require.Len(t, ranges, 1)
	assert.Equal(t, 3, ranges[0].StartRow)
}

func TestMapDiagnosticsKeepsStackTraceFrames(t *testing.T) {
	raw := "Exception in thread \"main\" java.lang.RuntimeException: boom\n" +
		"\tat Main.main(Main.java:12)"
	lines, ranges := JavaDialect.MapDiagnostics(raw, KindError)

	assert.Len(t, lines, 2)
	// "Main.java:12)" has no trailing colon, so it is not a compiler reference
	assert.Empty(t, ranges)
}

func TestMapDiagnosticsWarningKind(t *testing.T) {
	raw := "/tmp/java_2/Main.java:5: warning: [deprecation] foo() has been deprecated\n" +
		"/tmp/java_2/Main.java:9: error: not a statement"
	lines, ranges := JavaDialect.MapDiagnostics(raw, KindWarning)

	assert.Equal(t, []string{"warning: [deprecation] foo() has been deprecated"}, lines)
	// ranges are extracted from every reference, whatever the kind
	assert.Len(t, ranges, 2)
}

func TestParseRangesSkipsMalformedReferences(t *testing.T) {
	lines := []string{
		"Main.java:: error: no number",
		"Main.java:abc: error: letters",
		"Main.java:0: error: zero is not a line",
		"Main.java:12",
		"Main.java:-3: error: negative",
		"nothing to see",
		"Main.java:x: then Other.java:8: error: second reference",
	}

	var ranges DiagnosticSet
	assert.NotPanics(t, func() {
		ranges = JavaDialect.ParseRanges(lines)
	})
	require.Len(t, ranges, 1)
	assert.Equal(t, 7, ranges[0].StartRow)
	for _, r := range ranges {
		assert.GreaterOrEqual(t, r.StartRow, 0)
	}
}

func TestDialectDefaults(t *testing.T) {
	lines, ranges := Dialect{}.MapDiagnostics("/tmp/java_5/Main.java:2: error: x", KindError)
	assert.Equal(t, []string{"error: x"}, lines)
	assert.Len(t, ranges, 1)
}

func TestCustomDialect(t *testing.T) {
	d := Dialect{TempPathPrefix: "/sandbox/", SourceMarker: ".kt:"}
	lines, ranges := d.MapDiagnostics("/sandbox/Main.kt:3: error: unresolved reference", KindError)
	assert.Equal(t, []string{"error: unresolved reference"}, lines)
	require.Len(t, ranges, 1)
	assert.Equal(t, 2, ranges[0].EndRow)
}

func TestMarkerClass(t *testing.T) {
	assert.Equal(t, "ace-error-line", MarkerClass(KindError))
	assert.Equal(t, "ace-warning-line", MarkerClass(KindWarning))
}
