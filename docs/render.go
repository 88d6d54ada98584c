// ABOUTME: Renders markdown documentation pages to sanitized HTML with goldmark and bluemonday.
// ABOUTME: Fenced code blocks in playground languages are rewritten into editor mount points.
package docs

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Rendered is a documentation page ready to be served.
type Rendered struct {
	Title       string
	HTML        string
	MountPoints []MountPoint
}

// Renderer converts markdown into page HTML.
type Renderer struct {
	md        goldmark.Markdown
	policy    *bluemonday.Policy
	languages map[string]bool
}

// NewRenderer creates a Renderer that turns code blocks in any of languages
// into mount points. With no languages, java is used.
func NewRenderer(languages ...string) *Renderer {
	if len(languages) == 0 {
		languages = []string{"java"}
	}
	langs := make(map[string]bool, len(languages))
	for _, l := range languages {
		langs[strings.ToLower(strings.TrimSpace(l))] = true
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+#-]+$`)).OnElements("code")

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		policy:    policy,
		languages: langs,
	}
}

// Render converts markdown to sanitized HTML and rewrites playground code
// blocks into mount points.
func (r *Renderer) Render(markdown []byte) (Rendered, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(markdown, &buf); err != nil {
		return Rendered{}, fmt.Errorf("convert markdown: %w", err)
	}
	safe := r.policy.SanitizeBytes(buf.Bytes())

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(safe))
	if err != nil {
		return Rendered{}, fmt.Errorf("parse rendered page: %w", err)
	}

	index := 0
	doc.Find("pre > code").Each(func(_ int, code *goquery.Selection) {
		lang := codeLanguage(code)
		if !r.languages[lang] {
			return
		}
		source := strings.TrimSuffix(code.Text(), "\n")
		code.Parent().ReplaceWithHtml(mountPointHTML(index, lang, source))
		index++
	})

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	body, err := doc.Find("body").Html()
	if err != nil {
		return Rendered{}, fmt.Errorf("serialize page: %w", err)
	}

	points, err := ScanMountPoints(body)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Title: title, HTML: body, MountPoints: points}, nil
}

func codeLanguage(code *goquery.Selection) string {
	class, _ := code.Attr("class")
	for _, c := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(c, "language-"); ok {
			return strings.ToLower(lang)
		}
	}
	return ""
}
