// Package client provides a transport-agnostic interface for the forge
// service and an HTTP/JSON implementation that talks to the forge REST API.
package client

import (
	"context"

	"github.com/alfredjeanlab/ideaforge/internal/model"
)

// ForgeClient is the interface that all forge CLI commands use to communicate
// with the server. It is implemented by HTTPClient (default) and can be
// backed by any transport.
type ForgeClient interface {
	// Clarification
	StartClarification(ctx context.Context, ideaID, ideaText string) (*model.ClarificationSession, error)
	SubmitAnswer(ctx context.Context, ideaID, questionID, answer string) (*model.ClarificationSession, error)
	GetSession(ctx context.Context, ideaID string) (*model.ClarificationSession, error)

	// Breakdown
	StartBreakdown(ctx context.Context, ideaID string, req *StartBreakdownRequest) (*model.BreakdownSession, error)
	GetBreakdown(ctx context.Context, ideaID string) (*model.BreakdownSession, error)
	DeleteBreakdown(ctx context.Context, ideaID string) error
	ListBreakdowns(ctx context.Context, limit, offset int) (*ListBreakdownsResponse, error)

	// Events
	GetEvents(ctx context.Context, ideaID string) ([]*model.Event, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// StartBreakdownRequest holds parameters for starting a breakdown. An empty
// IdeaText tells the server to pull the refined idea and answers from the
// idea's clarification session.
type StartBreakdownRequest struct {
	IdeaText string            `json:"idea_text,omitempty"`
	Answers  map[string]string `json:"answers,omitempty"`
	TeamSize int               `json:"team_size,omitempty"`
}

// ListBreakdownsResponse is the response from ListBreakdowns.
type ListBreakdownsResponse struct {
	Breakdowns []*model.BreakdownSession `json:"breakdowns"`
	Total      int                       `json:"total"`
}
