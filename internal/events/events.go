package events

import (
	"context"

	"github.com/alfredjeanlab/ideaforge/internal/model"
)

// Event topic constants
const (
	TopicSessionStarted   = "forge.session.started"
	TopicAnswerRecorded   = "forge.answer.recorded"
	TopicSessionCompleted = "forge.session.completed"

	TopicBreakdownCompleted = "forge.breakdown.completed"
	TopicBreakdownDeleted   = "forge.breakdown.deleted"
)

// Event types

type SessionStarted struct {
	Session *model.ClarificationSession `json:"session"`
}

type AnswerRecorded struct {
	IdeaID     string  `json:"idea_id"`
	QuestionID string  `json:"question_id"`
	Confidence float64 `json:"confidence"`
}

type SessionCompleted struct {
	Session *model.ClarificationSession `json:"session"`
}

type BreakdownCompleted struct {
	IdeaID     string  `json:"idea_id"`
	TaskCount  int     `json:"task_count"`
	TotalWeeks int     `json:"total_weeks"`
	Confidence float64 `json:"confidence"`
}

type BreakdownDeleted struct {
	IdeaID string `json:"idea_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
