package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/ideaforge/internal/model"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*model.ClarificationSession, error) {
	var (
		s         model.ClarificationSession
		status    string
		questions []byte
		answers   []byte
	)
	err := row.Scan(
		&s.IdeaID,
		&s.IdeaText,
		&questions,
		&answers,
		&status,
		&s.Confidence,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Status = model.SessionStatus(status)
	if err := json.Unmarshal(questions, &s.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	if err := json.Unmarshal(answers, &s.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	if s.Answers == nil {
		s.Answers = map[string]string{}
	}
	return &s, nil
}

// scanBreakdownColumns scans the shared breakdown column set into b.
func scanBreakdownColumns(b *model.BreakdownSession, status *string, analysis, decomposition, graph, timeline *[]byte) []any {
	return []any{
		&b.IdeaID,
		status,
		analysis,
		decomposition,
		graph,
		timeline,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

func decodeBreakdown(b *model.BreakdownSession, status string, analysis, decomposition, graph, timeline []byte) error {
	b.Status = model.BreakdownStatus(status)
	if err := json.Unmarshal(analysis, &b.Analysis); err != nil {
		return fmt.Errorf("unmarshal analysis: %w", err)
	}
	if err := json.Unmarshal(decomposition, &b.Decomposition); err != nil {
		return fmt.Errorf("unmarshal decomposition: %w", err)
	}
	if err := json.Unmarshal(graph, &b.Graph); err != nil {
		return fmt.Errorf("unmarshal graph: %w", err)
	}
	if err := json.Unmarshal(timeline, &b.Timeline); err != nil {
		return fmt.Errorf("unmarshal timeline: %w", err)
	}
	return nil
}

func scanBreakdown(row rowScanner) (*model.BreakdownSession, error) {
	var (
		b                                        model.BreakdownSession
		status                                   string
		analysis, decomposition, graph, timeline []byte
	)
	if err := row.Scan(scanBreakdownColumns(&b, &status, &analysis, &decomposition, &graph, &timeline)...); err != nil {
		return nil, err
	}
	if err := decodeBreakdown(&b, status, analysis, decomposition, graph, timeline); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBreakdownWithTotal(rows *sql.Rows) (*model.BreakdownSession, int, error) {
	var (
		b                                        model.BreakdownSession
		total                                    int
		status                                   string
		analysis, decomposition, graph, timeline []byte
	)
	dest := append([]any{&total}, scanBreakdownColumns(&b, &status, &analysis, &decomposition, &graph, &timeline)...)
	if err := rows.Scan(dest...); err != nil {
		return nil, 0, err
	}
	if err := decodeBreakdown(&b, status, analysis, decomposition, graph, timeline); err != nil {
		return nil, 0, err
	}
	return &b, total, nil
}

func scanEvent(rows *sql.Rows) (*model.Event, error) {
	var (
		e       model.Event
		payload []byte
	)
	err := rows.Scan(
		&e.ID,
		&e.Topic,
		&e.IdeaID,
		&e.Actor,
		&payload,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
	}
	return &e, nil
}
