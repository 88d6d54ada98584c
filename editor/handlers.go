// ABOUTME: HTTP handler methods for the mount API endpoints
// ABOUTME: Covers mount creation, code updates, run, reset, and teardown with JSON responses

package editor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
	RunID string `json:"run_id,omitempty"`
}

type resetResponse struct {
	Mount    MountView `json:"mount"`
	Released []Marker  `json:"released"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// parseForm enforces the body limit and parses the posted form. It writes
// the error response itself and reports whether the handler should continue.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodySize)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return false
	}
	return true
}

// mountFromRequest looks up the {id} mount, writing a 404 when it is gone.
func (s *Server) mountFromRequest(w http.ResponseWriter, r *http.Request) (*Mount, bool) {
	id := chi.URLParam(r, "id")
	m, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "mount not found")
		return nil, false
	}
	return m, true
}

// handleCreateMount creates a standalone mount from posted code.
func (s *Server) handleCreateMount(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}

	lang := strings.TrimSpace(r.FormValue("language"))
	if lang == "" {
		lang = s.defaultLanguage
	}

	m := s.store.Create(MountSpec{
		ViewID:   r.FormValue("view"),
		Page:     r.FormValue("page"),
		Language: lang,
		Code:     r.FormValue("code"),
	})
	writeJSON(w, http.StatusCreated, m.Snapshot())
}

// handleGetMount returns the mount's current code, state, and markers.
func (s *Server) handleGetMount(w http.ResponseWriter, r *http.Request) {
	m, ok := s.mountFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m.Snapshot())
}

// handleDeleteMount tears down a mount and releases its markers.
func (s *Server) handleDeleteMount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.Delete(id) {
		writeError(w, http.StatusNotFound, "mount not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateCode replaces the mount's editor text.
func (s *Server) handleUpdateCode(w http.ResponseWriter, r *http.Request) {
	m, ok := s.mountFromRequest(w, r)
	if !ok {
		return
	}
	if !s.parseForm(w, r) {
		return
	}
	m.SetCode(r.FormValue("code"))
	w.WriteHeader(http.StatusNoContent)
}

// handleRun executes the mount's code. A posted code field replaces the
// editor text first. A run superseded by a newer run or reset returns 409.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	m, ok := s.mountFromRequest(w, r)
	if !ok {
		return
	}
	if !s.parseForm(w, r) {
		return
	}
	if _, posted := r.PostForm["code"]; posted {
		m.SetCode(r.PostForm.Get("code"))
	}

	outcome, err := s.orchestrator.Run(r.Context(), m)
	if errors.Is(err, ErrSuperseded) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), RunID: outcome.RunID})
		return
	}
	if err != nil {
		s.logger.Error("run failed", zap.String("mount_id", m.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "run failed")
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// handleReset restores the original code and releases every marker.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	m, ok := s.mountFromRequest(w, r)
	if !ok {
		return
	}
	released := s.orchestrator.Reset(m)
	if released == nil {
		released = []Marker{}
	}
	writeJSON(w, http.StatusOK, resetResponse{Mount: m.Snapshot(), Released: released})
}
