package model

import "time"

// SessionStatus represents the lifecycle state of a clarification session.
type SessionStatus string

const (
	StatusClarifying SessionStatus = "clarifying"
	StatusComplete   SessionStatus = "complete"
)

// String returns the string representation of the status.
func (s SessionStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s SessionStatus) IsValid() bool {
	switch s {
	case StatusClarifying, StatusComplete:
		return true
	}
	return false
}

// Question is a single clarification question posed for an idea.
type Question struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Answered bool   `json:"answered"`
}

// ClarificationSession is the question/answer exchange that refines an idea
// before breakdown. Sessions are keyed by idea ID and become immutable once
// their status is complete.
type ClarificationSession struct {
	IdeaID     string            `json:"idea_id"`
	IdeaText   string            `json:"idea_text"`
	Questions  []Question        `json:"questions"`
	Answers    map[string]string `json:"answers"` // question ID -> answer text
	Status     SessionStatus     `json:"status"`
	Confidence float64           `json:"confidence"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// AnsweredCount returns the number of questions that have a recorded answer.
func (s *ClarificationSession) AnsweredCount() int {
	n := 0
	for _, q := range s.Questions {
		if _, ok := s.Answers[q.ID]; ok {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the session. Callers receive clones so that
// concurrent readers never observe an in-flight mutation.
func (s *ClarificationSession) Clone() *ClarificationSession {
	if s == nil {
		return nil
	}
	out := *s
	out.Questions = make([]Question, len(s.Questions))
	copy(out.Questions, s.Questions)
	out.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	return &out
}
