package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alfredjeanlab/ideaforge/internal/breakdown"
	"github.com/alfredjeanlab/ideaforge/internal/model"
)

type startBreakdownInput struct {
	IdeaText string            `json:"idea_text"`
	Answers  map[string]string `json:"answers"`
	TeamSize int               `json:"team_size"`
}

// handleStartBreakdown handles POST /v1/ideas/{id}/breakdown. When the body
// omits idea_text, the refined idea and answers are taken from the idea's
// clarification session.
func (s *ForgeServer) handleStartBreakdown(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in startBreakdownInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if in.IdeaText == "" {
		session, err := s.store.GetSession(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if session == nil {
			writeError(w, http.StatusBadRequest, "idea_text is required when no clarification session exists")
			return
		}
		in.IdeaText = session.IdeaText
		if in.Answers == nil {
			in.Answers = session.Answers
		}
	}

	result, err := s.engine.StartBreakdown(r.Context(), id, in.IdeaText, in.Answers,
		breakdown.Options{TeamSize: in.TeamSize})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleGetBreakdown handles GET /v1/ideas/{id}/breakdown.
func (s *ForgeServer) handleGetBreakdown(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	session, err := s.engine.GetBreakdownSession(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if session == nil {
		writeError(w, http.StatusNotFound, "breakdown not found")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// handleDeleteBreakdown handles DELETE /v1/ideas/{id}/breakdown.
func (s *ForgeServer) handleDeleteBreakdown(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteBreakdown(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleListBreakdowns handles GET /v1/breakdowns.
func (s *ForgeServer) handleListBreakdowns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := 50, 0
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	sessions, total, err := s.engine.ListBreakdowns(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if sessions == nil {
		sessions = []*model.BreakdownSession{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"breakdowns": sessions,
		"total":      total,
	})
}
