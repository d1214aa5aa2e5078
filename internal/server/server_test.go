package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/ideaforge/internal/breakdown"
	"github.com/alfredjeanlab/ideaforge/internal/clarifier"
	"github.com/alfredjeanlab/ideaforge/internal/confidence"
	"github.com/alfredjeanlab/ideaforge/internal/events"
	"github.com/alfredjeanlab/ideaforge/internal/generator"
	"github.com/alfredjeanlab/ideaforge/internal/model"
	"github.com/alfredjeanlab/ideaforge/internal/store"
)

// mockStore is an in-memory store.Store backing the handler tests.
type mockStore struct {
	sessions   map[string]*model.ClarificationSession
	breakdowns map[string]*model.BreakdownSession
	events     []*model.Event
}

func newMockStore() *mockStore {
	return &mockStore{
		sessions:   map[string]*model.ClarificationSession{},
		breakdowns: map[string]*model.BreakdownSession{},
	}
}

func (m *mockStore) UpsertSession(_ context.Context, s *model.ClarificationSession) error {
	m.sessions[s.IdeaID] = s.Clone()
	return nil
}

func (m *mockStore) GetSession(_ context.Context, ideaID string) (*model.ClarificationSession, error) {
	return m.sessions[ideaID].Clone(), nil
}

func (m *mockStore) UpsertBreakdown(_ context.Context, b *model.BreakdownSession) error {
	m.breakdowns[b.IdeaID] = b
	return nil
}

func (m *mockStore) GetBreakdown(_ context.Context, ideaID string) (*model.BreakdownSession, error) {
	return m.breakdowns[ideaID], nil
}

func (m *mockStore) DeleteBreakdown(_ context.Context, ideaID string) error {
	delete(m.breakdowns, ideaID)
	return nil
}

func (m *mockStore) ListBreakdowns(_ context.Context, _, _ int) ([]*model.BreakdownSession, int, error) {
	out := make([]*model.BreakdownSession, 0, len(m.breakdowns))
	for _, b := range m.breakdowns {
		out = append(out, b)
	}
	return out, len(out), nil
}

func (m *mockStore) RecordEvent(_ context.Context, e *model.Event) error {
	m.events = append(m.events, e)
	return nil
}

func (m *mockStore) GetEvents(_ context.Context, ideaID string) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range m.events {
		if e.IdeaID == ideaID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }

func newTestHandler(t *testing.T, authToken string) (http.Handler, *mockStore) {
	t.Helper()
	ms := newMockStore()
	gen := &generator.Heuristic{}
	pub := &events.NoopPublisher{}
	agent := clarifier.New(gen, ms, pub, confidence.New(confidence.DefaultParams()))
	engine := breakdown.New(gen, ms, pub, breakdown.WithClock(func() time.Time {
		return time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	}))
	return New(agent, engine, ms).NewHTTPHandler(authToken), ms
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t, "")
	rec := doRequest(t, h, http.MethodGet, "/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestStartClarification(t *testing.T) {
	h, _ := newTestHandler(t, "")

	rec := doRequest(t, h, http.MethodPost, "/v1/ideas/idea-1/clarify",
		`{"idea_text": "a recipe sharing app"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	session := decode[model.ClarificationSession](t, rec)
	if session.IdeaID != "idea-1" || len(session.Questions) == 0 {
		t.Errorf("session = %+v", session)
	}
}

func TestStartClarification_BadInput(t *testing.T) {
	h, _ := newTestHandler(t, "")

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"empty idea text", `{"idea_text": ""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/v1/ideas/idea-1/clarify", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestGetSession_NotFound(t *testing.T) {
	h, _ := newTestHandler(t, "")
	rec := doRequest(t, h, http.MethodGet, "/v1/ideas/idea-ghost/clarify", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSubmitAnswer(t *testing.T) {
	h, _ := newTestHandler(t, "")

	rec := doRequest(t, h, http.MethodPost, "/v1/ideas/idea-1/clarify",
		`{"idea_text": "a recipe sharing app"}`)
	session := decode[model.ClarificationSession](t, rec)

	rec = doRequest(t, h, http.MethodPost, "/v1/ideas/idea-1/clarify/answers",
		`{"question_id": "`+session.Questions[0].ID+`", "answer": "home cooks"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decode[model.ClarificationSession](t, rec)
	if updated.Confidence <= session.Confidence {
		t.Errorf("confidence did not increase: %g vs %g", updated.Confidence, session.Confidence)
	}

	rec = doRequest(t, h, http.MethodPost, "/v1/ideas/idea-1/clarify/answers",
		`{"question_id": "q-ghost", "answer": "x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown question: status = %d, want 400", rec.Code)
	}
}

func TestStartBreakdown(t *testing.T) {
	h, ms := newTestHandler(t, "")

	rec := doRequest(t, h, http.MethodPost, "/v1/ideas/idea-1/breakdown",
		`{"idea_text": "a recipe sharing app", "team_size": 2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	session := decode[model.BreakdownSession](t, rec)
	if session.Status != model.BreakdownComplete || session.Timeline == nil {
		t.Errorf("session = %+v", session)
	}
	if session.Timeline.ResourceAllocation["default"] != 2 {
		t.Errorf("resource allocation = %v", session.Timeline.ResourceAllocation)
	}
	if ms.breakdowns["idea-1"] == nil {
		t.Error("breakdown not persisted")
	}
}

func TestStartBreakdown_FromClarificationSession(t *testing.T) {
	h, _ := newTestHandler(t, "")

	doRequest(t, h, http.MethodPost, "/v1/ideas/idea-1/clarify",
		`{"idea_text": "a recipe sharing app"}`)

	rec := doRequest(t, h, http.MethodPost, "/v1/ideas/idea-1/breakdown", `{}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, h, http.MethodPost, "/v1/ideas/idea-ghost/breakdown", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("no session and no idea text: status = %d, want 400", rec.Code)
	}
}

func TestGetBreakdown(t *testing.T) {
	h, _ := newTestHandler(t, "")

	rec := doRequest(t, h, http.MethodGet, "/v1/ideas/idea-ghost/breakdown", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	doRequest(t, h, http.MethodPost, "/v1/ideas/idea-1/breakdown",
		`{"idea_text": "a recipe sharing app"}`)
	rec = doRequest(t, h, http.MethodGet, "/v1/ideas/idea-1/breakdown", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestDeleteBreakdown(t *testing.T) {
	h, _ := newTestHandler(t, "")

	rec := doRequest(t, h, http.MethodDelete, "/v1/ideas/idea-ghost/breakdown", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	doRequest(t, h, http.MethodPost, "/v1/ideas/idea-1/breakdown",
		`{"idea_text": "a recipe sharing app"}`)
	rec = doRequest(t, h, http.MethodDelete, "/v1/ideas/idea-1/breakdown", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	rec = doRequest(t, h, http.MethodGet, "/v1/ideas/idea-1/breakdown", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("after delete: status = %d, want 404", rec.Code)
	}
}

func TestListBreakdowns(t *testing.T) {
	h, _ := newTestHandler(t, "")

	doRequest(t, h, http.MethodPost, "/v1/ideas/idea-1/breakdown",
		`{"idea_text": "a recipe sharing app"}`)

	rec := doRequest(t, h, http.MethodGet, "/v1/breakdowns?limit=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	out := decode[map[string]json.RawMessage](t, rec)
	var total int
	if err := json.Unmarshal(out["total"], &total); err != nil || total != 1 {
		t.Errorf("total = %s (%v)", out["total"], err)
	}
}

func TestGetEvents(t *testing.T) {
	h, _ := newTestHandler(t, "")

	doRequest(t, h, http.MethodPost, "/v1/ideas/idea-1/clarify",
		`{"idea_text": "a recipe sharing app"}`)

	rec := doRequest(t, h, http.MethodGet, "/v1/ideas/idea-1/events", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "forge.session.started") {
		t.Errorf("events body = %s", rec.Body.String())
	}
}

func TestAuthMiddleware(t *testing.T) {
	h, _ := newTestHandler(t, "secret")

	// Health stays open.
	rec := doRequest(t, h, http.MethodGet, "/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("health: status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/v1/breakdowns", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/breakdowns", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/breakdowns", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", rr.Code)
	}
}
