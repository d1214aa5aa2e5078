package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/ideaforge/internal/model"
)

// sessionColumns is the column list used for SELECT statements on the
// clarification_sessions table.
const sessionColumns = `idea_id, idea_text, questions, answers, status, confidence, created_at, updated_at`

// breakdownColumns is the column list used for SELECT statements on the
// breakdown_sessions table.
const breakdownColumns = `idea_id, status, analysis, decomposition, graph, timeline, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryUpsertSession(ctx context.Context, db executor, s *model.ClarificationSession) error {
	questions, err := json.Marshal(s.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO clarification_sessions (
			idea_id, idea_text, questions, answers, status, confidence, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (idea_id) DO UPDATE SET
			idea_text = EXCLUDED.idea_text,
			questions = EXCLUDED.questions,
			answers = EXCLUDED.answers,
			status = EXCLUDED.status,
			confidence = EXCLUDED.confidence,
			updated_at = EXCLUDED.updated_at`,
		s.IdeaID,
		s.IdeaText,
		questions,
		answers,
		string(s.Status),
		s.Confidence,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func queryGetSession(ctx context.Context, db executor, ideaID string) (*model.ClarificationSession, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM clarification_sessions WHERE idea_id = $1`, ideaID)
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func queryUpsertBreakdown(ctx context.Context, db executor, b *model.BreakdownSession) error {
	analysis, err := json.Marshal(b.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	decomposition, err := json.Marshal(b.Decomposition)
	if err != nil {
		return fmt.Errorf("marshal decomposition: %w", err)
	}
	graph, err := json.Marshal(b.Graph)
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}
	timeline, err := json.Marshal(b.Timeline)
	if err != nil {
		return fmt.Errorf("marshal timeline: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO breakdown_sessions (
			idea_id, status, analysis, decomposition, graph, timeline, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (idea_id) DO UPDATE SET
			status = EXCLUDED.status,
			analysis = EXCLUDED.analysis,
			decomposition = EXCLUDED.decomposition,
			graph = EXCLUDED.graph,
			timeline = EXCLUDED.timeline,
			updated_at = EXCLUDED.updated_at`,
		b.IdeaID,
		string(b.Status),
		analysis,
		decomposition,
		graph,
		timeline,
		b.CreatedAt,
		b.UpdatedAt,
	)
	return err
}

func queryGetBreakdown(ctx context.Context, db executor, ideaID string) (*model.BreakdownSession, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+breakdownColumns+` FROM breakdown_sessions WHERE idea_id = $1`, ideaID)
	b, err := scanBreakdown(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func queryDeleteBreakdown(ctx context.Context, db executor, ideaID string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM breakdown_sessions WHERE idea_id = $1`, ideaID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryListBreakdowns(ctx context.Context, db executor, limit, offset int) ([]*model.BreakdownSession, int, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := db.QueryContext(ctx, `
		SELECT COUNT(*) OVER () AS total_count, `+breakdownColumns+`
		FROM breakdown_sessions
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		sessions []*model.BreakdownSession
		total    int
	)
	for rows.Next() {
		b, n, err := scanBreakdownWithTotal(rows)
		if err != nil {
			return nil, 0, err
		}
		total = n
		sessions = append(sessions, b)
	}
	return sessions, total, rows.Err()
}

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO events (topic, idea_id, actor, payload)
		VALUES ($1, $2, $3, $4)`,
		e.Topic,
		e.IdeaID,
		e.Actor,
		jsonbBytes(e.Payload),
	)
	return err
}

func queryGetEvents(ctx context.Context, db executor, ideaID string) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, idea_id, actor, payload, created_at
		FROM events
		WHERE idea_id = $1
		ORDER BY created_at, id`, ideaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// jsonbBytes converts a raw JSON payload to a driver value, mapping empty to NULL.
func jsonbBytes(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
