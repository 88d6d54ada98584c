// ABOUTME: Unified playground HTTP server: documentation pages with live editors, the mount API,
// ABOUTME: metrics, and health behind a single chi router with graceful shutdown.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/2389-research/playpen/docs"
	"github.com/2389-research/playpen/editor"
	"github.com/2389-research/playpen/logging"
	"github.com/2389-research/playpen/monitoring"
	"github.com/2389-research/playpen/runlog"
)

// PlaypenBase is where the mount API and widget assets are served.
const PlaypenBase = "/playpen"

// ViewCookie identifies the page view a browser is showing.
const ViewCookie = "playpen_view"

// ServerConfig holds the collaborators of the web server.
type ServerConfig struct {
	Addr    string // listen address (default: "127.0.0.1:8080")
	Site    *docs.Site
	Host    *editor.Host
	Editor  http.Handler
	Metrics *monitoring.Metrics // optional
	Ledger  *runlog.Ledger      // optional
	Logger  *zap.Logger
}

// Server is the playground HTTP server.
type Server struct {
	addr      string
	site      *docs.Site
	host      *editor.Host
	metrics   *monitoring.Metrics
	ledger    *runlog.Ledger
	logger    *zap.Logger
	templates *TemplateEngine
	router    chi.Router
}

// NewServer creates a Server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Site == nil || cfg.Host == nil || cfg.Editor == nil {
		return nil, errors.New("web: Site, Host and Editor are required")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}

	tmpl, err := NewTemplateEngine()
	if err != nil {
		return nil, fmt.Errorf("initializing templates: %w", err)
	}

	s := &Server{
		addr:      cfg.Addr,
		site:      cfg.Site,
		host:      cfg.Host,
		metrics:   cfg.Metrics,
		ledger:    cfg.Ledger,
		logger:    logging.OrNop(cfg.Logger),
		templates: tmpl,
	}
	s.router = s.buildRouter(cfg.Editor)
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter(editorHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger(s.logger, s.metrics))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/docs/{slug}", s.handlePage)
	r.Get("/runs", s.handleRuns)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Mount(PlaypenBase, http.StripPrefix(PlaypenBase, editorHandler))
	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("playpen listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("playpen stopped")
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	pages, err := s.site.Pages()
	if err != nil {
		s.logger.Error("listing pages", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	data := s.pageData("Home", "", pages)
	if err := s.templates.Render(w, http.StatusOK, "index.html", data); err != nil {
		s.logger.Error("rendering index", zap.Error(err))
	}
}

// handlePage renders a documentation page. Showing a page is a navigation
// for the viewer: their previous mounts are torn down and one mount is
// created per mount point on the new page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	pages, err := s.site.Pages()
	if err != nil {
		s.logger.Error("listing pages", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	page, err := s.site.Page(slug)
	if errors.Is(err, docs.ErrPageNotFound) {
		data := s.pageData("Not found", slug, pages)
		if err := s.templates.Render(w, http.StatusNotFound, "not_found.html", data); err != nil {
			s.logger.Error("rendering not found", zap.Error(err))
		}
		return
	}
	if err != nil {
		s.logger.Error("rendering page", zap.String("slug", slug), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	viewID := s.viewID(w, r)
	specs := make([]editor.MountSpec, 0, len(page.MountPoints))
	for _, mp := range page.MountPoints {
		specs = append(specs, editor.MountSpec{
			Page:     page.Slug,
			Index:    mp.Index,
			Language: mp.Language,
			Code:     mp.Code,
		})
	}
	mounts := s.host.Navigate(viewID, specs)
	ids := make([]string, len(mounts))
	for i, m := range mounts {
		ids[i] = m.ID
	}

	body, err := docs.AttachMounts(page.HTML, ids)
	if err != nil {
		s.logger.Error("attaching mounts", zap.String("slug", slug), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.logger.Debug("page view",
		zap.String("view_id", viewID),
		zap.String("slug", slug),
		zap.Int("mounts", len(ids)),
	)

	data := s.pageData(page.Title, page.Slug, pages)
	// Page HTML was sanitized by the docs renderer before mount points were added.
	data.Body = template.HTML(body)
	data.MountCount = len(ids)
	if err := s.templates.Render(w, http.StatusOK, "page.html", data); err != nil {
		s.logger.Error("rendering page template", zap.Error(err))
	}
}

// handleRuns lists recent ledger entries as JSON.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run ledger disabled"})
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	entries, err := s.ledger.Recent(limit)
	if err != nil {
		s.logger.Error("reading run ledger", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "run ledger unavailable"})
		return
	}
	counts, err := s.ledger.CountByStatus()
	if err != nil {
		s.logger.Error("counting runs", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "run ledger unavailable"})
		return
	}
	if entries == nil {
		entries = []runlog.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": entries, "counts": counts})
}

// viewID returns the viewer's view id, issuing a new cookie when the
// request carries none or an invalid one.
func (s *Server) viewID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(ViewCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     ViewCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) pageData(title, slug string, pages []docs.PageInfo) PageData {
	return PageData{
		Title:       title,
		Slug:        slug,
		Pages:       pages,
		PlaypenBase: PlaypenBase,
		AceURL:      AceURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
