// ABOUTME: HTTP server struct with chi router, mount store, and run orchestrator
// ABOUTME: Configures the mount API routes and static widget assets via functional options

package editor

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultMaxBodySize limits request bodies carrying source code.
const DefaultMaxBodySize = 1 << 20

// ServerOption configures optional Server behavior.
type ServerOption func(*Server)

// WithMaxBodySize overrides the request body limit.
func WithMaxBodySize(n int64) ServerOption {
	return func(s *Server) {
		s.maxBodySize = n
	}
}

// WithLogger sets the logger used for handler failures.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDefaultLanguage sets the language assigned to mounts created without one.
func WithDefaultLanguage(lang string) ServerOption {
	return func(s *Server) {
		s.defaultLanguage = lang
	}
}

// Server holds the chi router, mount store, and orchestrator.
type Server struct {
	router          chi.Router
	store           *Store
	orchestrator    *Orchestrator
	logger          *zap.Logger
	maxBodySize     int64
	defaultLanguage string
}

// NewServer creates a Server with all routes configured.
func NewServer(store *Store, orchestrator *Orchestrator, opts ...ServerOption) *Server {
	s := &Server{
		store:           store,
		orchestrator:    orchestrator,
		logger:          zap.NewNop(),
		maxBodySize:     DefaultMaxBodySize,
		defaultLanguage: "java",
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()

	// Static widget assets
	static, err := fs.Sub(ContentFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// Mount lifecycle
	r.Post("/mounts", s.handleCreateMount)
	r.Get("/mounts/{id}", s.handleGetMount)
	r.Delete("/mounts/{id}", s.handleDeleteMount)

	// Editor actions
	r.Post("/mounts/{id}/code", s.handleUpdateCode)
	r.Post("/mounts/{id}/run", s.handleRun)
	r.Post("/mounts/{id}/reset", s.handleReset)

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
