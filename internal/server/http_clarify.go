package server

import (
	"encoding/json"
	"net/http"
)

type startClarificationInput struct {
	IdeaText string `json:"idea_text"`
}

// handleStartClarification handles POST /v1/ideas/{id}/clarify.
func (s *ForgeServer) handleStartClarification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in startClarificationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := s.clarifier.StartClarification(r.Context(), id, in.IdeaText)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// handleGetSession handles GET /v1/ideas/{id}/clarify.
func (s *ForgeServer) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.clarifier.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type submitAnswerInput struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// handleSubmitAnswer handles POST /v1/ideas/{id}/clarify/answers.
func (s *ForgeServer) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in submitAnswerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := s.clarifier.SubmitAnswer(r.Context(), id, in.QuestionID, in.Answer)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
