// Package server exposes the planning core over HTTP/JSON.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alfredjeanlab/ideaforge/internal/breakdown"
	"github.com/alfredjeanlab/ideaforge/internal/clarifier"
	"github.com/alfredjeanlab/ideaforge/internal/model"
	"github.com/alfredjeanlab/ideaforge/internal/store"
)

// ForgeServer bundles the planning core behind HTTP handlers.
type ForgeServer struct {
	clarifier *clarifier.Agent
	engine    *breakdown.Engine
	store     store.Store
}

// New returns a ForgeServer wired to the given collaborators.
func New(agent *clarifier.Agent, engine *breakdown.Engine, st store.Store) *ForgeServer {
	return &ForgeServer{clarifier: agent, engine: engine, store: st}
}

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *ForgeServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/ideas/{id}/clarify", s.handleStartClarification)
	mux.HandleFunc("GET /v1/ideas/{id}/clarify", s.handleGetSession)
	mux.HandleFunc("POST /v1/ideas/{id}/clarify/answers", s.handleSubmitAnswer)
	mux.HandleFunc("POST /v1/ideas/{id}/breakdown", s.handleStartBreakdown)
	mux.HandleFunc("GET /v1/ideas/{id}/breakdown", s.handleGetBreakdown)
	mux.HandleFunc("DELETE /v1/ideas/{id}/breakdown", s.handleDeleteBreakdown)
	mux.HandleFunc("GET /v1/ideas/{id}/events", s.handleGetEvents)
	mux.HandleFunc("GET /v1/breakdowns", s.handleListBreakdowns)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *ForgeServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetEvents handles GET /v1/ideas/{id}/events.
func (s *ForgeServer) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	events, err := s.store.GetEvents(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if events == nil {
		events = []*model.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps core error kinds onto HTTP statuses: invalid input is
// the caller's fault, unknown ideas are 404, and generation failures are an
// upstream problem worth retrying.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Error())
		return
	}
	var nf *model.NotFoundError
	if errors.As(err, &nf) {
		writeError(w, http.StatusNotFound, nf.Error())
		return
	}
	var ge *model.GenerationError
	if errors.As(err, &ge) {
		writeError(w, http.StatusBadGateway, ge.Error())
		return
	}
	slog.Error("internal error", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
