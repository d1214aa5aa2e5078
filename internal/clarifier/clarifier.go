// Package clarifier owns the clarification session lifecycle: question
// generation for a new idea, answer submission, confidence tracking, and the
// clarifying -> complete transition.
package clarifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/ideaforge/internal/confidence"
	"github.com/alfredjeanlab/ideaforge/internal/events"
	"github.com/alfredjeanlab/ideaforge/internal/generator"
	"github.com/alfredjeanlab/ideaforge/internal/idgen"
	"github.com/alfredjeanlab/ideaforge/internal/keylock"
	"github.com/alfredjeanlab/ideaforge/internal/model"
	"github.com/alfredjeanlab/ideaforge/internal/store"
)

// DefaultCompleteThreshold is the confidence at which a session transitions to
// complete. With the stock scoring constants a fully answered session reaches
// 0.95, so the default threshold is reachable but requires most answers.
const DefaultCompleteThreshold = 0.9

// Agent drives clarification sessions. Construct once per process with
// injected collaborators and share by reference; there is no ambient state.
type Agent struct {
	gen       generator.Generator
	store     store.Store
	publisher events.Publisher
	calc      *confidence.Calculator

	// completeThreshold is the single, explicit completion trigger: a session
	// completes when its confidence reaches this value. "All questions
	// answered" is not a separate trigger, though with the stock constants a
	// fully answered session always crosses the threshold.
	completeThreshold float64

	locks *keylock.KeyLock
}

// Option configures an Agent.
type Option func(*Agent)

// WithCompleteThreshold overrides the completion confidence threshold.
func WithCompleteThreshold(threshold float64) Option {
	return func(a *Agent) { a.completeThreshold = threshold }
}

// New returns an Agent using the given collaborators.
func New(gen generator.Generator, st store.Store, pub events.Publisher, calc *confidence.Calculator, opts ...Option) *Agent {
	a := &Agent{
		gen:               gen,
		store:             st,
		publisher:         pub,
		calc:              calc,
		completeThreshold: DefaultCompleteThreshold,
		locks:             keylock.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// StartClarification creates a clarification session for the idea, invoking
// the generator for the initial question list. Creation is idempotent: if a
// session already exists for the idea it is returned unchanged rather than
// regenerated.
func (a *Agent) StartClarification(ctx context.Context, ideaID, ideaText string) (*model.ClarificationSession, error) {
	if ideaID == "" {
		return nil, model.Invalid("idea_id", "is required")
	}
	if err := model.ValidateIdeaText(ideaText); err != nil {
		return nil, err
	}

	a.locks.Lock(ideaID)
	defer a.locks.Unlock(ideaID)

	existing, err := a.store.GetSession(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	texts, err := a.gen.GenerateQuestions(ctx, ideaText)
	if err != nil {
		return nil, model.Generation("generate_questions", err)
	}

	questions := make([]model.Question, 0, len(texts))
	for _, text := range texts {
		id, err := idgen.NewQuestionID()
		if err != nil {
			return nil, fmt.Errorf("assign question id: %w", err)
		}
		questions = append(questions, model.Question{ID: id, Text: text})
	}

	now := time.Now().UTC()
	session := &model.ClarificationSession{
		IdeaID:     ideaID,
		IdeaText:   ideaText,
		Questions:  questions,
		Answers:    map[string]string{},
		Status:     model.StatusClarifying,
		Confidence: a.calc.Calculate(0, len(questions)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := a.store.UpsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	a.recordAndPublish(ctx, events.TopicSessionStarted, ideaID, events.SessionStarted{Session: session})

	return session.Clone(), nil
}

// SubmitAnswer records an answer for one question, recomputes confidence, and
// returns the updated session. Submitting the same answer twice is an
// idempotent overwrite, not a duplicate accumulation. Complete sessions are
// immutable and reject further answers.
func (a *Agent) SubmitAnswer(ctx context.Context, ideaID, questionID, answer string) (*model.ClarificationSession, error) {
	if answer == "" {
		return nil, model.Invalid("answer", "is required")
	}
	if len([]rune(answer)) > model.MaxAnswerLen {
		return nil, model.Invalid("answer", "must be %d characters or fewer", model.MaxAnswerLen)
	}

	a.locks.Lock(ideaID)
	defer a.locks.Unlock(ideaID)

	session, err := a.store.GetSession(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, model.NotFound("session", ideaID)
	}
	if session.Status == model.StatusComplete {
		return nil, model.Invalid("status", "session is complete and no longer accepts answers")
	}

	idx := -1
	for i, q := range session.Questions {
		if q.ID == questionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, model.Invalid("question_id", "unknown question %q", questionID)
	}

	session.Answers[questionID] = answer
	session.Questions[idx].Answered = true
	session.Confidence = a.calc.CalculateFromAnswers(session.Answers, len(session.Questions))
	session.UpdatedAt = time.Now().UTC()

	completed := session.Confidence >= a.completeThreshold
	if completed {
		session.Status = model.StatusComplete
	}

	if err := a.store.UpsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	a.recordAndPublish(ctx, events.TopicAnswerRecorded, ideaID, events.AnswerRecorded{
		IdeaID:     ideaID,
		QuestionID: questionID,
		Confidence: session.Confidence,
	})
	if completed {
		a.recordAndPublish(ctx, events.TopicSessionCompleted, ideaID, events.SessionCompleted{Session: session})
	}

	return session.Clone(), nil
}

// GetSession returns a copy of the session for the idea, or NotFoundError
// when none exists. Callers never alias the stored session.
func (a *Agent) GetSession(ctx context.Context, ideaID string) (*model.ClarificationSession, error) {
	session, err := a.store.GetSession(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, model.NotFound("session", ideaID)
	}
	return session.Clone(), nil
}

// recordAndPublish persists an event to the store and publishes it to NATS.
// Both operations are best-effort; failures are logged but do not block the caller.
func (a *Agent) recordAndPublish(ctx context.Context, topic, ideaID string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event", "topic", topic, "idea_id", ideaID, "error", err)
		return
	}
	if err := a.store.RecordEvent(ctx, &model.Event{
		Topic:   topic,
		IdeaID:  ideaID,
		Payload: payload,
	}); err != nil {
		slog.Warn("failed to record event", "topic", topic, "idea_id", ideaID, "error", err)
	}
	if err := a.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "idea_id", ideaID, "error", err)
	}
}
