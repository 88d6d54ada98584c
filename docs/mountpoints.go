// ABOUTME: Mount point markup, discovery, and mount id stamping for rendered pages.
// ABOUTME: The browser glue looks for .active-code blocks carrying a data-mount-id.
package docs

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MountPointSelector matches every editor mount point on a page.
const MountPointSelector = ".active-code"

// MountPoint is one editor location found on a page.
type MountPoint struct {
	Index    int
	Language string
	Code     string
}

func mountPointHTML(index int, lang, code string) string {
	return fmt.Sprintf(`<div class="active-code" data-index="%d" data-language="%s">`+
		`<pre class="editor">%s</pre>`+
		`<div class="playpen-actions">`+
		`<button type="button" class="run-code">Run</button> `+
		`<button type="button" class="reset-code">Reset</button>`+
		`</div>`+
		`<div class="panel-result alert" style="display:none"><div class="result"></div></div>`+
		`</div>`,
		index, html.EscapeString(lang), html.EscapeString(code))
}

// ScanMountPoints finds every mount point in page HTML, in document order.
func ScanMountPoints(pageHTML string) ([]MountPoint, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var points []MountPoint
	doc.Find(MountPointSelector).Each(func(i int, s *goquery.Selection) {
		index := i
		if v, ok := s.Attr("data-index"); ok {
			if n, err := strconv.Atoi(v); err == nil {
				index = n
			}
		}
		lang, _ := s.Attr("data-language")
		points = append(points, MountPoint{
			Index:    index,
			Language: lang,
			Code:     s.Find(".editor").First().Text(),
		})
	})
	return points, nil
}

// AttachMounts stamps mount ids onto the page's mount points in order.
// Mount points beyond len(ids) are left without an id.
func AttachMounts(pageHTML string, ids []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	doc.Find(MountPointSelector).Each(func(i int, s *goquery.Selection) {
		if i < len(ids) {
			s.SetAttr("data-mount-id", ids[i])
		}
	})
	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serialize page: %w", err)
	}
	return out, nil
}
