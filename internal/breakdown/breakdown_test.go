package breakdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alfredjeanlab/ideaforge/internal/events"
	"github.com/alfredjeanlab/ideaforge/internal/generator"
	"github.com/alfredjeanlab/ideaforge/internal/model"
	"github.com/alfredjeanlab/ideaforge/internal/store"
)

// mockStore is an in-memory store.Store for engine tests.
type mockStore struct {
	breakdowns map[string]*model.BreakdownSession
	events     []*model.Event
	upsertErr  error
}

func newMockStore() *mockStore {
	return &mockStore{breakdowns: map[string]*model.BreakdownSession{}}
}

func (m *mockStore) UpsertSession(_ context.Context, _ *model.ClarificationSession) error {
	return nil
}

func (m *mockStore) GetSession(_ context.Context, _ string) (*model.ClarificationSession, error) {
	return nil, nil
}

func (m *mockStore) UpsertBreakdown(_ context.Context, b *model.BreakdownSession) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
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

func (m *mockStore) GetEvents(_ context.Context, _ string) ([]*model.Event, error) {
	return m.events, nil
}

func (m *mockStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }

// failingGenerator fails AnalyzeIdea, exercising stage abort paths.
type failingGenerator struct {
	generator.Heuristic
}

func (g *failingGenerator) AnalyzeIdea(_ context.Context, _ string, _ map[string]string) (*generator.RawAnalysis, error) {
	return nil, errors.New("model overloaded")
}

func fixedClock() time.Time {
	return time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
}

func newTestEngine(t *testing.T) (*Engine, *mockStore) {
	t.Helper()
	ms := newMockStore()
	e := New(&generator.Heuristic{}, ms, &events.NoopPublisher{}, WithClock(fixedClock))
	return e, ms
}

func TestStartBreakdown(t *testing.T) {
	e, ms := newTestEngine(t)

	session, err := e.StartBreakdown(context.Background(), "idea-1",
		"a recipe sharing app for home cooks", map[string]string{"q-1": "home cooks"}, Options{})
	if err != nil {
		t.Fatalf("StartBreakdown error: %v", err)
	}

	if session.Status != model.BreakdownComplete {
		t.Errorf("status = %q, want complete", session.Status)
	}
	if session.Analysis == nil || session.Decomposition == nil || session.Graph == nil || session.Timeline == nil {
		t.Fatalf("incomplete session: %+v", session)
	}
	// The heuristic expands three deliverables into three tasks each.
	if got := len(session.Decomposition.Tasks); got != 9 {
		t.Errorf("got %d tasks, want 9", got)
	}
	if err := model.ValidateDecomposition(session.Decomposition); err != nil {
		t.Errorf("decomposition invariants violated: %v", err)
	}
	if len(session.Timeline.Phases) != 3 {
		t.Errorf("got %d phases, want 3", len(session.Timeline.Phases))
	}
	if len(session.Graph.CriticalPath) == 0 {
		t.Error("empty critical path")
	}

	if ms.breakdowns["idea-1"] == nil {
		t.Error("session not persisted")
	}
	if len(ms.events) != 1 || ms.events[0].Topic != events.TopicBreakdownCompleted {
		t.Errorf("expected one breakdown.completed event, got %+v", ms.events)
	}
}

func TestStartBreakdown_Overwrites(t *testing.T) {
	e, ms := newTestEngine(t)

	first, err := e.StartBreakdown(context.Background(), "idea-1", "a todo app", nil, Options{})
	if err != nil {
		t.Fatalf("first StartBreakdown error: %v", err)
	}
	second, err := e.StartBreakdown(context.Background(), "idea-1",
		"a realtime distributed analytics marketplace", nil, Options{})
	if err != nil {
		t.Fatalf("second StartBreakdown error: %v", err)
	}

	if stored := ms.breakdowns["idea-1"]; stored != second {
		t.Error("second breakdown did not replace the first")
	}
	if second.Analysis.Complexity.Score <= first.Analysis.Complexity.Score {
		t.Errorf("expected the rewritten idea to score higher: %d vs %d",
			second.Analysis.Complexity.Score, first.Analysis.Complexity.Score)
	}
}

func TestStartBreakdown_TeamSizeOption(t *testing.T) {
	e, _ := newTestEngine(t)

	session, err := e.StartBreakdown(context.Background(), "idea-1", "a todo app", nil, Options{TeamSize: 4})
	if err != nil {
		t.Fatalf("StartBreakdown error: %v", err)
	}
	if session.Timeline.ResourceAllocation["default"] != 4 {
		t.Errorf("resource allocation = %v, want team of 4", session.Timeline.ResourceAllocation)
	}
}

func TestStartBreakdown_StageFailureAborts(t *testing.T) {
	ms := newMockStore()
	e := New(&failingGenerator{}, ms, &events.NoopPublisher{}, WithClock(fixedClock))

	_, err := e.StartBreakdown(context.Background(), "idea-1", "a todo app", nil, Options{})
	var ge *model.GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if len(ms.breakdowns) != 0 || len(ms.events) != 0 {
		t.Error("failed pipeline must not persist anything")
	}
}

func TestStartBreakdown_PersistFailureReturnsError(t *testing.T) {
	ms := newMockStore()
	ms.upsertErr = errors.New("connection reset")
	e := New(&generator.Heuristic{}, ms, &events.NoopPublisher{}, WithClock(fixedClock))

	_, err := e.StartBreakdown(context.Background(), "idea-1", "a todo app", nil, Options{})
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if len(ms.events) != 0 {
		t.Error("event recorded despite failed upsert")
	}
}

func TestStartBreakdown_Validation(t *testing.T) {
	e, _ := newTestEngine(t)

	tests := []struct {
		name   string
		ideaID string
		text   string
	}{
		{"missing idea id", "", "a todo app"},
		{"empty idea text", "idea-1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.StartBreakdown(context.Background(), tt.ideaID, tt.text, nil, Options{})
			var ve *model.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Initialize()
	first := e.analyze
	e.Initialize()
	if e.analyze != first {
		t.Error("Initialize re-created pipeline stages")
	}
}

func TestGetBreakdownSession(t *testing.T) {
	e, _ := newTestEngine(t)

	got, err := e.GetBreakdownSession(context.Background(), "idea-ghost")
	if err != nil {
		t.Fatalf("GetBreakdownSession error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown idea, got %+v", got)
	}

	want, err := e.StartBreakdown(context.Background(), "idea-1", "a todo app", nil, Options{})
	if err != nil {
		t.Fatalf("StartBreakdown error: %v", err)
	}
	got, err = e.GetBreakdownSession(context.Background(), "idea-1")
	if err != nil {
		t.Fatalf("GetBreakdownSession error: %v", err)
	}
	if got == nil || got.IdeaID != want.IdeaID {
		t.Errorf("got %+v, want session for idea-1", got)
	}
}

func TestDeleteBreakdown(t *testing.T) {
	e, ms := newTestEngine(t)

	err := e.DeleteBreakdown(context.Background(), "idea-ghost")
	var nf *model.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	if _, err := e.StartBreakdown(context.Background(), "idea-1", "a todo app", nil, Options{}); err != nil {
		t.Fatalf("StartBreakdown error: %v", err)
	}
	if err := e.DeleteBreakdown(context.Background(), "idea-1"); err != nil {
		t.Fatalf("DeleteBreakdown error: %v", err)
	}
	if ms.breakdowns["idea-1"] != nil {
		t.Error("breakdown not deleted")
	}
	last := ms.events[len(ms.events)-1]
	if last.Topic != events.TopicBreakdownDeleted {
		t.Errorf("last event = %q, want breakdown.deleted", last.Topic)
	}
}
