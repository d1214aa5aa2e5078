package store

import (
	"context"

	"github.com/alfredjeanlab/ideaforge/internal/model"
)

// Store defines the persistence interface for clarification sessions,
// breakdown sessions, and events. Implementations provide last-write-wins
// persistence with read-your-writes consistency within a process; Get methods
// return (nil, nil) when the entity is absent.
type Store interface {
	// Clarification sessions, keyed by idea ID.
	UpsertSession(ctx context.Context, s *model.ClarificationSession) error
	GetSession(ctx context.Context, ideaID string) (*model.ClarificationSession, error)

	// Breakdown sessions, keyed by idea ID. Upsert carries overwrite
	// semantics: a repeat breakdown replaces the stored session wholesale.
	UpsertBreakdown(ctx context.Context, b *model.BreakdownSession) error
	GetBreakdown(ctx context.Context, ideaID string) (*model.BreakdownSession, error)
	DeleteBreakdown(ctx context.Context, ideaID string) error
	ListBreakdowns(ctx context.Context, limit, offset int) ([]*model.BreakdownSession, int, error)

	// Events
	RecordEvent(ctx context.Context, event *model.Event) error
	GetEvents(ctx context.Context, ideaID string) ([]*model.Event, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
