// ABOUTME: Documentation site backed by a filesystem of markdown pages.
// ABOUTME: Resolves slugs to pages, renders them through the page cache, and lists the table of contents.
package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// ErrPageNotFound is returned for slugs with no markdown file.
var ErrPageNotFound = errors.New("page not found")

// Page is a rendered page with its slug.
type Page struct {
	Slug string
	Rendered
}

// PageInfo is a table of contents entry.
type PageInfo struct {
	Slug  string
	Title string
}

// Site serves markdown pages from fsys.
type Site struct {
	fsys  fs.FS
	cache *PageCache
}

// NewSite creates a Site rendering pages from fsys with renderer. Rendered
// pages are cached for ttl.
func NewSite(fsys fs.FS, renderer *Renderer, ttl time.Duration) *Site {
	return &Site{
		fsys:  fsys,
		cache: NewPageCache(renderer.Render, ttl),
	}
}

// Page renders the page for slug.
func (s *Site) Page(slug string) (*Page, error) {
	if slug == "" || strings.Contains(slug, "/") || !fs.ValidPath(slug) {
		return nil, fmt.Errorf("%w: %q", ErrPageNotFound, slug)
	}
	src, err := fs.ReadFile(s.fsys, slug+".md")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrPageNotFound, slug)
		}
		return nil, fmt.Errorf("read page %q: %w", slug, err)
	}

	rendered, err := s.cache.Render(src)
	if err != nil {
		return nil, fmt.Errorf("render page %q: %w", slug, err)
	}
	if rendered.Title == "" {
		rendered.Title = slug
	}
	return &Page{Slug: slug, Rendered: rendered}, nil
}

// Pages lists every page sorted by slug.
func (s *Site) Pages() ([]PageInfo, error) {
	matches, err := fs.Glob(s.fsys, "*.md")
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	sort.Strings(matches)

	infos := make([]PageInfo, 0, len(matches))
	for _, m := range matches {
		slug := strings.TrimSuffix(path.Base(m), ".md")
		page, err := s.Page(slug)
		if err != nil {
			return nil, err
		}
		infos = append(infos, PageInfo{Slug: slug, Title: page.Title})
	}
	return infos, nil
}
