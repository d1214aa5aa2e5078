// Package breakdown orchestrates the four-stage planning pipeline: idea
// analysis, task decomposition, dependency graph construction, and timeline
// generation, composed into one persisted BreakdownSession per idea.
package breakdown

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/ideaforge/internal/analyzer"
	"github.com/alfredjeanlab/ideaforge/internal/decompose"
	"github.com/alfredjeanlab/ideaforge/internal/events"
	"github.com/alfredjeanlab/ideaforge/internal/generator"
	"github.com/alfredjeanlab/ideaforge/internal/graph"
	"github.com/alfredjeanlab/ideaforge/internal/keylock"
	"github.com/alfredjeanlab/ideaforge/internal/model"
	"github.com/alfredjeanlab/ideaforge/internal/store"
	"github.com/alfredjeanlab/ideaforge/internal/timeline"
)

// Options tunes one breakdown request.
type Options struct {
	// TeamSize overrides the analyzed team size when positive.
	TeamSize int
}

// Engine runs the breakdown pipeline. Construct with New, then call
// Initialize (or let the first StartBreakdown do it).
type Engine struct {
	gen       generator.Generator
	store     store.Store
	publisher events.Publisher

	initOnce sync.Once
	analyze  *analyzer.Analyzer
	decomp   *decompose.Decomposer
	graphs   *graph.Builder
	schedule *timeline.Generator

	locks        *keylock.KeyLock
	now          func() time.Time
	hoursPerWeek float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for session timestamps and the
// timeline start date.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithHoursPerWeek overrides the per-person weekly capacity the timeline
// assumes.
func WithHoursPerWeek(hours float64) Option {
	return func(e *Engine) { e.hoursPerWeek = hours }
}

// New returns an Engine using the given collaborators.
func New(gen generator.Generator, st store.Store, pub events.Publisher, opts ...Option) *Engine {
	e := &Engine{
		gen:          gen,
		store:        st,
		publisher:    pub,
		locks:        keylock.New(),
		now:          time.Now,
		hoursPerWeek: timeline.DefaultHoursPerWeek,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize constructs the pipeline stages. Safe to call any number of
// times; stages are built exactly once and never re-created.
func (e *Engine) Initialize() {
	e.initOnce.Do(func() {
		e.analyze = analyzer.New(e.gen)
		e.decomp = decompose.New(e.gen)
		e.graphs = graph.New()
		e.schedule = timeline.New(
			timeline.WithClock(e.now),
			timeline.WithHoursPerWeek(e.hoursPerWeek),
		)
	})
}

// StartBreakdown runs the pipeline for one idea and persists the composed
// session. Repeat calls for the same idea replace the prior session wholesale.
// Any stage failure aborts the pipeline with that stage's error and nothing
// is persisted. At most one breakdown per idea runs at a time; other ideas
// proceed independently.
func (e *Engine) StartBreakdown(ctx context.Context, ideaID, refinedIdea string, responses map[string]string, opts Options) (*model.BreakdownSession, error) {
	e.Initialize()

	if ideaID == "" {
		return nil, model.Invalid("idea_id", "is required")
	}
	if err := model.ValidateIdeaText(refinedIdea); err != nil {
		return nil, err
	}

	e.locks.Lock(ideaID)
	defer e.locks.Unlock(ideaID)

	analysis, err := e.analyze.Analyze(ctx, refinedIdea, responses)
	if err != nil {
		return nil, err
	}
	if opts.TeamSize > 0 {
		analysis.Scope.TeamSize = opts.TeamSize
	}

	decomposition, err := e.decomp.Decompose(ctx, analysis)
	if err != nil {
		return nil, err
	}

	g, err := e.graphs.Build(decomposition)
	if err != nil {
		return nil, err
	}

	tl, err := e.schedule.Generate(analysis, decomposition, g)
	if err != nil {
		return nil, err
	}

	now := e.now().UTC()
	session := &model.BreakdownSession{
		IdeaID:        ideaID,
		Status:        model.BreakdownComplete,
		Analysis:      analysis,
		Decomposition: decomposition,
		Graph:         g,
		Timeline:      tl,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	completed := events.BreakdownCompleted{
		IdeaID:     ideaID,
		TaskCount:  len(decomposition.Tasks),
		TotalWeeks: tl.TotalWeeks,
		Confidence: decomposition.Confidence,
	}
	payload, err := json.Marshal(completed)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	// Session and event land together or not at all.
	err = e.store.RunInTransaction(ctx, func(tx store.Store) error {
		if err := tx.UpsertBreakdown(ctx, session); err != nil {
			return err
		}
		return tx.RecordEvent(ctx, &model.Event{
			Topic:   events.TopicBreakdownCompleted,
			IdeaID:  ideaID,
			Payload: payload,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("persist breakdown: %w", err)
	}

	if err := e.publisher.Publish(ctx, events.TopicBreakdownCompleted, completed); err != nil {
		slog.Warn("failed to publish event",
			"topic", events.TopicBreakdownCompleted, "idea_id", ideaID, "error", err)
	}

	return session, nil
}

// GetBreakdownSession returns the stored session for the idea, or nil when
// none exists. Pure lookup, no side effects.
func (e *Engine) GetBreakdownSession(ctx context.Context, ideaID string) (*model.BreakdownSession, error) {
	return e.store.GetBreakdown(ctx, ideaID)
}

// DeleteBreakdown removes the stored session for the idea and announces the
// deletion. Returns NotFoundError when no session exists.
func (e *Engine) DeleteBreakdown(ctx context.Context, ideaID string) error {
	e.locks.Lock(ideaID)
	defer e.locks.Unlock(ideaID)

	session, err := e.store.GetBreakdown(ctx, ideaID)
	if err != nil {
		return fmt.Errorf("get breakdown: %w", err)
	}
	if session == nil {
		return model.NotFound("breakdown", ideaID)
	}
	if err := e.store.DeleteBreakdown(ctx, ideaID); err != nil {
		return fmt.Errorf("delete breakdown: %w", err)
	}

	deleted := events.BreakdownDeleted{IdeaID: ideaID}
	if payload, err := json.Marshal(deleted); err == nil {
		if err := e.store.RecordEvent(ctx, &model.Event{
			Topic:   events.TopicBreakdownDeleted,
			IdeaID:  ideaID,
			Payload: payload,
		}); err != nil {
			slog.Warn("failed to record event",
				"topic", events.TopicBreakdownDeleted, "idea_id", ideaID, "error", err)
		}
	}
	if err := e.publisher.Publish(ctx, events.TopicBreakdownDeleted, deleted); err != nil {
		slog.Warn("failed to publish event",
			"topic", events.TopicBreakdownDeleted, "idea_id", ideaID, "error", err)
	}
	return nil
}

// ListBreakdowns returns a page of stored sessions plus the total count.
func (e *Engine) ListBreakdowns(ctx context.Context, limit, offset int) ([]*model.BreakdownSession, int, error) {
	return e.store.ListBreakdowns(ctx, limit, offset)
}
