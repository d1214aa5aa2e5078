package model

import (
	"fmt"
	"strings"
)

// Input size limits enforced at component boundaries.
const (
	MaxIdeaTextLen = 10000
	MaxAnswerLen   = 2000
)

// ValidateIdeaText checks the raw idea text for size and shape.
// It returns a *ValidationError if any rules fail, or nil if the text is valid.
func ValidateIdeaText(text string) error {
	var ve ValidationError

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "idea_text", Message: "is required"})
	} else if len([]rune(text)) > MaxIdeaTextLen {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "idea_text",
			Message: fmt.Sprintf("must be %d characters or fewer", MaxIdeaTextLen),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateAnalysis checks the structural invariants of an IdeaAnalysis at the
// stage boundary between analysis and decomposition.
func ValidateAnalysis(a *IdeaAnalysis) error {
	var ve ValidationError

	if len(a.Deliverables) == 0 {
		ve.Errors = append(ve.Errors, FieldError{Field: "deliverables", Message: "at least one is required"})
	}
	for i, d := range a.Deliverables {
		if strings.TrimSpace(d.Title) == "" {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("deliverables[%d].title", i),
				Message: "is required",
			})
		}
		if d.EstimatedHours <= 0 {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("deliverables[%d].estimated_hours", i),
				Message: fmt.Sprintf("must be positive, got %g", d.EstimatedHours),
			})
		}
	}
	if a.Complexity.Score < ComplexityScoreMin || a.Complexity.Score > ComplexityScoreMax {
		ve.Errors = append(ve.Errors, FieldError{
			Field: "complexity.score",
			Message: fmt.Sprintf("must be between %d and %d, got %d",
				ComplexityScoreMin, ComplexityScoreMax, a.Complexity.Score),
		})
	}
	if a.Scope.TeamSize <= 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "scope.team_size",
			Message: fmt.Sprintf("must be positive, got %d", a.Scope.TeamSize),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateDecomposition checks the dependency invariants of a
// TaskDecomposition: every dependency references a task in the same
// decomposition and no task depends on itself.
func ValidateDecomposition(d *TaskDecomposition) error {
	var ve ValidationError

	ids := make(map[string]struct{}, len(d.Tasks))
	for i, t := range d.Tasks {
		if t.ID == "" {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("tasks[%d].id", i),
				Message: "is required",
			})
			continue
		}
		if _, dup := ids[t.ID]; dup {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("tasks[%d].id", i),
				Message: fmt.Sprintf("duplicate task ID %q", t.ID),
			})
		}
		ids[t.ID] = struct{}{}
	}

	for i, t := range d.Tasks {
		for _, dep := range t.Dependencies {
			if dep == t.ID {
				ve.Errors = append(ve.Errors, FieldError{
					Field:   fmt.Sprintf("tasks[%d].dependencies", i),
					Message: fmt.Sprintf("task %q depends on itself", t.ID),
				})
				continue
			}
			if _, ok := ids[dep]; !ok {
				ve.Errors = append(ve.Errors, FieldError{
					Field:   fmt.Sprintf("tasks[%d].dependencies", i),
					Message: fmt.Sprintf("unknown task ID %q", dep),
				})
			}
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
