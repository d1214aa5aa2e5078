package generator

import (
	"context"
	"testing"
)

func TestHeuristic_GenerateQuestions(t *testing.T) {
	h := &Heuristic{}
	qs, err := h.GenerateQuestions(context.Background(), "a recipe sharing app")
	if err != nil {
		t.Fatalf("GenerateQuestions error: %v", err)
	}
	if len(qs) == 0 {
		t.Fatal("expected at least one question")
	}
	for i, q := range qs {
		if q == "" {
			t.Errorf("question %d is empty", i)
		}
	}

	// Deterministic for identical input.
	qs2, _ := h.GenerateQuestions(context.Background(), "a recipe sharing app")
	if len(qs) != len(qs2) {
		t.Errorf("question count differs across calls: %d vs %d", len(qs), len(qs2))
	}
}

func TestHeuristic_AnalyzeIdea(t *testing.T) {
	h := &Heuristic{}

	simple, err := h.AnalyzeIdea(context.Background(), "a todo list", nil)
	if err != nil {
		t.Fatalf("AnalyzeIdea error: %v", err)
	}
	if len(simple.Deliverables) == 0 {
		t.Fatal("expected deliverables")
	}
	for i, d := range simple.Deliverables {
		if d.Title == "" || d.EstimatedHours <= 0 {
			t.Errorf("deliverable %d invalid: %+v", i, d)
		}
	}

	complexIdea, err := h.AnalyzeIdea(context.Background(),
		"a realtime distributed marketplace with payment integration and analytics", nil)
	if err != nil {
		t.Fatalf("AnalyzeIdea error: %v", err)
	}
	if complexIdea.ComplexityScore <= simple.ComplexityScore {
		t.Errorf("complex idea score %d not above simple idea score %d",
			complexIdea.ComplexityScore, simple.ComplexityScore)
	}
	if complexIdea.ComplexityScore > 10 {
		t.Errorf("score %d exceeds 10", complexIdea.ComplexityScore)
	}
}

func TestHeuristic_GenerateTasks(t *testing.T) {
	h := &Heuristic{}
	tasks, err := h.GenerateTasks(context.Background(), validDeliverable(40))
	if err != nil {
		t.Fatalf("GenerateTasks error: %v", err)
	}
	if len(tasks) < 2 {
		t.Fatalf("expected at least 2 tasks, got %d", len(tasks))
	}

	var total float64
	for i, task := range tasks {
		total += task.EstimatedHours
		for _, dep := range task.DependsOn {
			if dep >= i {
				t.Errorf("task %d depends on later task %d", i, dep)
			}
		}
	}
	// Hours sum approximately to the deliverable estimate.
	if total < 36 || total > 44 {
		t.Errorf("task hours sum to %g, want approximately 40", total)
	}
}
