// ABOUTME: Tests for markdown rendering, sanitizing, and mount point rewriting.
// ABOUTME: Also covers mount point scanning and mount id stamping on rendered pages.
package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lessonMD = "# Hello Java\n\nRun this:\n\n" +
	"```java\npublic class Main {\n    // a < b && c\n}\n```\n\n" +
	"Not runnable:\n\n```bash\necho hi\n```\n\n" +
	"```java\nclass Second {}\n```\n"

func TestRenderRewritesPlaygroundBlocks(t *testing.T) {
	page, err := NewRenderer().Render([]byte(lessonMD))
	require.NoError(t, err)

	assert.Equal(t, "Hello Java", page.Title)
	assert.Equal(t, 2, strings.Count(page.HTML, `class="active-code"`))
	assert.Contains(t, page.HTML, `class="run-code"`)
	assert.Contains(t, page.HTML, `class="reset-code"`)
	assert.Contains(t, page.HTML, "echo hi", "non-playground blocks stay as code")

	require.Len(t, page.MountPoints, 2)
	assert.Equal(t, 0, page.MountPoints[0].Index)
	assert.Equal(t, "java", page.MountPoints[0].Language)
	assert.Equal(t, "public class Main {\n    // a < b && c\n}", page.MountPoints[0].Code)
	assert.Equal(t, 1, page.MountPoints[1].Index)
	assert.Equal(t, "class Second {}", page.MountPoints[1].Code)
}

func TestRenderEscapesCodeInMarkup(t *testing.T) {
	page, err := NewRenderer().Render([]byte(lessonMD))
	require.NoError(t, err)
	assert.NotContains(t, page.HTML, "a < b")
	assert.Contains(t, page.HTML, "a &lt; b")
}

func TestRenderSanitizesRawHTML(t *testing.T) {
	md := "# Title\n\n<script>alert(1)</script>\n\n[x](javascript:alert(1))\n"
	page, err := NewRenderer().Render([]byte(md))
	require.NoError(t, err)
	assert.NotContains(t, page.HTML, "<script>")
	assert.NotContains(t, page.HTML, "javascript:")
}

func TestRenderCustomLanguages(t *testing.T) {
	md := "```kotlin\nfun main() {}\n```\n\n```java\nclass A {}\n```\n"
	page, err := NewRenderer("Kotlin").Render([]byte(md))
	require.NoError(t, err)
	require.Len(t, page.MountPoints, 1)
	assert.Equal(t, "kotlin", page.MountPoints[0].Language)
}

func TestRenderPageWithoutMountPoints(t *testing.T) {
	page, err := NewRenderer().Render([]byte("# Plain\n\nJust text.\n"))
	require.NoError(t, err)
	assert.Empty(t, page.MountPoints)
}

func TestAttachMounts(t *testing.T) {
	page, err := NewRenderer().Render([]byte(lessonMD))
	require.NoError(t, err)

	out, err := AttachMounts(page.HTML, []string{"mount-a"})
	require.NoError(t, err)
	assert.Contains(t, out, `data-mount-id="mount-a"`)
	assert.Equal(t, 1, strings.Count(out, "data-mount-id"))

	points, err := ScanMountPoints(out)
	require.NoError(t, err)
	assert.Len(t, points, 2, "stamping ids keeps every mount point")
}

func TestScanMountPointsDefaultsIndexToOrder(t *testing.T) {
	html := `<div class="active-code"><pre class="editor">a</pre></div>` +
		`<div class="active-code" data-index="oops"><pre class="editor">b</pre></div>`
	points, err := ScanMountPoints(html)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 0, points[0].Index)
	assert.Equal(t, 1, points[1].Index)
	assert.Equal(t, "b", points[1].Code)
}
