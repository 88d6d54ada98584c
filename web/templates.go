// ABOUTME: TemplateEngine loads embedded HTML templates and renders them with Go's html/template.
// ABOUTME: Every page is parsed together with the layout, which pulls in Ace and the editor glue.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/2389-research/playpen/docs"
)

//go:embed templates/*.html
var templateFS embed.FS

// AceURL is the CDN location of the Ace editor script.
const AceURL = "https://cdnjs.cloudflare.com/ajax/libs/ace/1.32.2/ace.js"

// PageData holds all data passed to templates for rendering.
type PageData struct {
	Title       string
	Slug        string
	Pages       []docs.PageInfo
	Body        template.HTML
	MountCount  int
	PlaypenBase string
	AceURL      string
}

// TemplateEngine loads and renders embedded HTML templates.
type TemplateEngine struct {
	templates map[string]*template.Template
}

// NewTemplateEngine parses all embedded templates and returns a ready-to-use engine.
func NewTemplateEngine() (*TemplateEngine, error) {
	pages := []string{
		"index.html",
		"page.html",
		"not_found.html",
	}

	engine := &TemplateEngine{templates: make(map[string]*template.Template)}
	for _, page := range pages {
		t, err := template.New("layout.html").ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		engine.templates[page] = t
	}
	return engine, nil
}

// Render executes the named template with the given data and writes the
// result to w with status.
func (e *TemplateEngine) Render(w http.ResponseWriter, status int, name string, data PageData) error {
	t, ok := e.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return t.ExecuteTemplate(w, "layout.html", data)
}

// RenderTo executes the named template into an arbitrary writer.
func (e *TemplateEngine) RenderTo(w io.Writer, name string, data PageData) error {
	t, ok := e.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}
