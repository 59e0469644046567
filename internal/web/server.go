// Package web serves the comparison UI and the JSON API over the
// selection service. Rendering is stateless; all state lives behind
// review.Service.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rcliao/reviewdesk/internal/corpus"
	"github.com/rcliao/reviewdesk/internal/review"
)

// Server renders the comparison page and exposes the selection API.
type Server struct {
	svc     *review.Service
	corpora *corpus.Set
	logger  *slog.Logger
	tmpl    *template.Template
}

// New builds a server over the given service and corpora.
func New(svc *review.Service, corpora *corpus.Set, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:     svc,
		corpora: corpora,
		logger:  logger,
		tmpl:    template.Must(template.New("index").Parse(indexHTML)),
	}
}

// Router returns the HTTP handler with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/select", s.handleSelectForm)

	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/stats", s.handleStats)
		r.Post("/selections", s.handleSelect)
		r.Post("/reconcile", s.handleReconcile)
	})

	return r
}

type selectRequest struct {
	ItemID string `json:"item_id"`
	Model  string `json:"model"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.ItemID == "" || req.Model == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("item_id and model are required"))
		return
	}

	rec, stats, err := s.svc.Select(r.Context(), req.ItemID, req.Model)

	var partial *review.PartialError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"record": rec,
			"stats":  stats,
		})
	case errors.As(err, &partial):
		// Selection landed, counter did not. The client should offer a
		// retry or a reconcile rather than treat this as lost.
		writeJSON(w, http.StatusOK, map[string]any{
			"record":  partial.Record,
			"stats":   stats,
			"partial": true,
			"warning": partial.Error(),
		})
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	selections, stats := s.svc.Snapshot(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"selections": selections,
		"stats":      stats,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	_, stats := s.svc.Snapshot(r.Context())
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Reconcile(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleSelectForm backs the Select buttons on the comparison page.
func (s *Server) handleSelectForm(w http.ResponseWriter, r *http.Request) {
	itemID := r.FormValue("item_id")
	modelName := r.FormValue("model")
	if itemID == "" || modelName == "" {
		http.Error(w, "item_id and model are required", http.StatusBadRequest)
		return
	}

	_, _, err := s.svc.Select(r.Context(), itemID, modelName)
	var partial *review.PartialError
	if err != nil && !errors.As(err, &partial) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if partial != nil {
		s.logger.Warn("partial selection via form", "item", itemID, "model", modelName, "error", partial.Err)
	}

	http.Redirect(w, r, "/#email-"+itemID, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
