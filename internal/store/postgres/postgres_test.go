package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alfredjeanlab/ideaforge/internal/model"
	"github.com/alfredjeanlab/ideaforge/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// sessionRowColumns is the column list for scanSession results.
var sessionRowColumns = []string{
	"idea_id", "idea_text", "questions", "answers", "status", "confidence", "created_at", "updated_at",
}

// breakdownRowColumns is the column list for scanBreakdown results.
var breakdownRowColumns = []string{
	"idea_id", "status", "analysis", "decomposition", "graph", "timeline", "created_at", "updated_at",
}

func sampleSession() *model.ClarificationSession {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &model.ClarificationSession{
		IdeaID:     "idea-1",
		IdeaText:   "a recipe sharing app",
		Questions:  []model.Question{{ID: "q-1", Text: "who is it for?"}},
		Answers:    map[string]string{},
		Status:     model.StatusClarifying,
		Confidence: 0.5,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func sampleBreakdown() *model.BreakdownSession {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &model.BreakdownSession{
		IdeaID: "idea-1",
		Status: model.BreakdownComplete,
		Analysis: &model.IdeaAnalysis{
			Deliverables: []model.Deliverable{{Title: "Core", Priority: 1, EstimatedHours: 40}},
			Complexity:   model.Complexity{Score: 5, Level: model.ComplexityMedium},
			Scope:        model.Scope{Size: "medium", TeamSize: 1},
		},
		Decomposition: &model.TaskDecomposition{
			Tasks:               []model.Task{{ID: "tk-a", Title: "build", EstimatedHours: 40, DeliverableID: "Core"}},
			TotalEstimatedHours: 40,
		},
		Graph:     &model.DependencyGraph{Nodes: []string{"tk-a"}, Edges: []model.GraphEdge{}, CriticalPath: []string{"tk-a"}},
		Timeline:  &model.Timeline{TotalWeeks: 1, ResourceAllocation: map[string]int{"default": 1}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUpsertSession(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}
	sess := sampleSession()

	mock.ExpectExec("INSERT INTO clarification_sessions").
		WithArgs(
			sess.IdeaID, sess.IdeaText, sqlmock.AnyArg(), sqlmock.AnyArg(),
			string(sess.Status), sess.Confidence, sess.CreatedAt, sess.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.UpsertSession(context.Background(), sess); err != nil {
		t.Fatalf("UpsertSession error: %v", err)
	}
}

func TestGetSession(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}
	now := time.Now().UTC()

	questions, _ := json.Marshal([]model.Question{{ID: "q-1", Text: "who?"}})
	answers, _ := json.Marshal(map[string]string{"q-1": "devs"})

	rows := sqlmock.NewRows(sessionRowColumns).
		AddRow("idea-1", "an idea", questions, answers, "clarifying", 0.725, now, now)
	mock.ExpectQuery("SELECT (.+) FROM clarification_sessions WHERE idea_id = \\$1").
		WithArgs("idea-1").
		WillReturnRows(rows)

	got, err := s.GetSession(context.Background(), "idea-1")
	if err != nil {
		t.Fatalf("GetSession error: %v", err)
	}
	if got.IdeaID != "idea-1" || got.Confidence != 0.725 {
		t.Errorf("got %+v", got)
	}
	if len(got.Questions) != 1 || got.Answers["q-1"] != "devs" {
		t.Errorf("questions/answers not decoded: %+v", got)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	mock.ExpectQuery("SELECT (.+) FROM clarification_sessions WHERE idea_id = \\$1").
		WithArgs("idea-missing").
		WillReturnError(sql.ErrNoRows)

	got, err := s.GetSession(context.Background(), "idea-missing")
	if err != nil {
		t.Fatalf("GetSession error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil session, got %+v", got)
	}
}

func TestUpsertBreakdown(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}
	b := sampleBreakdown()

	mock.ExpectExec("INSERT INTO breakdown_sessions").
		WithArgs(
			b.IdeaID, string(b.Status), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), b.CreatedAt, b.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.UpsertBreakdown(context.Background(), b); err != nil {
		t.Fatalf("UpsertBreakdown error: %v", err)
	}
}

func TestGetBreakdown_RoundTrip(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}
	b := sampleBreakdown()

	analysis, _ := json.Marshal(b.Analysis)
	decomposition, _ := json.Marshal(b.Decomposition)
	graph, _ := json.Marshal(b.Graph)
	timeline, _ := json.Marshal(b.Timeline)

	rows := sqlmock.NewRows(breakdownRowColumns).
		AddRow(b.IdeaID, string(b.Status), analysis, decomposition, graph, timeline, b.CreatedAt, b.UpdatedAt)
	mock.ExpectQuery("SELECT (.+) FROM breakdown_sessions WHERE idea_id = \\$1").
		WithArgs("idea-1").
		WillReturnRows(rows)

	got, err := s.GetBreakdown(context.Background(), "idea-1")
	if err != nil {
		t.Fatalf("GetBreakdown error: %v", err)
	}
	if got.Analysis == nil || len(got.Analysis.Deliverables) != 1 {
		t.Errorf("analysis not decoded: %+v", got.Analysis)
	}
	if got.Graph == nil || len(got.Graph.CriticalPath) != 1 {
		t.Errorf("graph not decoded: %+v", got.Graph)
	}
}

func TestDeleteBreakdown_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	mock.ExpectExec("DELETE FROM breakdown_sessions WHERE idea_id = \\$1").
		WithArgs("idea-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteBreakdown(context.Background(), "idea-missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestListBreakdowns(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}
	b := sampleBreakdown()

	analysis, _ := json.Marshal(b.Analysis)
	decomposition, _ := json.Marshal(b.Decomposition)
	graph, _ := json.Marshal(b.Graph)
	timeline, _ := json.Marshal(b.Timeline)

	cols := append([]string{"total_count"}, breakdownRowColumns...)
	rows := sqlmock.NewRows(cols).
		AddRow(3, b.IdeaID, string(b.Status), analysis, decomposition, graph, timeline, b.CreatedAt, b.UpdatedAt)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) OVER \\(\\) AS total_count").
		WithArgs(50, 0).
		WillReturnRows(rows)

	sessions, total, err := s.ListBreakdowns(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("ListBreakdowns error: %v", err)
	}
	if total != 3 || len(sessions) != 1 {
		t.Errorf("got total=%d sessions=%d, want 3 and 1", total, len(sessions))
	}
}

func TestRecordEvent(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	mock.ExpectExec("INSERT INTO events").
		WithArgs("forge.breakdown.completed", "idea-1", "tester", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.RecordEvent(context.Background(), &model.Event{
		Topic:   "forge.breakdown.completed",
		IdeaID:  "idea-1",
		Actor:   "tester",
		Payload: json.RawMessage(`{"task_count": 9}`),
	})
	if err != nil {
		t.Fatalf("RecordEvent error: %v", err)
	}
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("boom")
	err := s.RunInTransaction(context.Background(), func(tx store.Store) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected sentinel error, got %v", err)
	}
}

func TestRunInTransaction_Commits(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}
	b := sampleBreakdown()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO breakdown_sessions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.RunInTransaction(context.Background(), func(tx store.Store) error {
		if err := tx.UpsertBreakdown(context.Background(), b); err != nil {
			return err
		}
		return tx.RecordEvent(context.Background(), &model.Event{
			Topic:  "forge.breakdown.completed",
			IdeaID: b.IdeaID,
		})
	})
	if err != nil {
		t.Fatalf("RunInTransaction error: %v", err)
	}
}
