package generator

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/alfredjeanlab/ideaforge/internal/model"
)

// Heuristic is a deterministic, offline Generator used when no API key is
// configured. It derives questions, deliverables, and tasks from the idea text
// alone, which keeps `forge serve` usable in development and makes pipeline
// behavior reproducible in tests and examples.
type Heuristic struct{}

// Compile-time check that Heuristic implements Generator.
var _ Generator = (*Heuristic)(nil)

// clarityDimensions are the ambiguity axes the heuristic asks about, most
// impactful first.
var clarityDimensions = []struct {
	name     string
	question string
}{
	{"target_users", "Who are the target users, and what problem does this solve for them?"},
	{"core_functionality", "What are the two or three things the system absolutely must do?"},
	{"scope_boundaries", "What is explicitly out of scope for the first version?"},
	{"integrations", "Which external systems or data sources does this need to talk to?"},
	{"success_criteria", "How will you know the project succeeded?"},
}

func (h *Heuristic) GenerateQuestions(ctx context.Context, ideaText string) ([]string, error) {
	questions := make([]string, len(clarityDimensions))
	for i, d := range clarityDimensions {
		questions[i] = d.question
	}
	return questions, nil
}

// complexityKeywords bump the heuristic complexity score when present.
var complexityKeywords = []string{
	"realtime", "real-time", "machine learning", "ml", "ai",
	"payment", "distributed", "scale", "mobile", "integration",
	"marketplace", "multi-tenant", "analytics",
}

func (h *Heuristic) AnalyzeIdea(ctx context.Context, ideaText string, answers map[string]string) (*RawAnalysis, error) {
	lower := strings.ToLower(ideaText)
	for _, a := range answers {
		lower += " " + strings.ToLower(a)
	}

	score := 3
	var factors []string
	for _, kw := range complexityKeywords {
		if strings.Contains(lower, kw) {
			score++
			factors = append(factors, kw)
		}
	}
	if score > model.ComplexityScoreMax {
		score = model.ComplexityScoreMax
	}

	size := "small"
	baseHours := 60.0
	switch {
	case score >= 7:
		size = "large"
		baseHours = 240
	case score >= 5:
		size = "medium"
		baseHours = 120
	}

	title := ideaTitle(ideaText)
	deliverables := []model.Deliverable{
		{
			Title:          fmt.Sprintf("Core %s functionality", title),
			Description:    "The minimum feature set that makes the idea usable end to end.",
			Priority:       1,
			EstimatedHours: math.Round(baseHours * 0.5),
			Confidence:     0.7,
		},
		{
			Title:          "Supporting infrastructure",
			Description:    "Storage, accounts, and the integrations the core features depend on.",
			Priority:       2,
			EstimatedHours: math.Round(baseHours * 0.3),
			Confidence:     0.65,
		},
		{
			Title:          "Launch readiness",
			Description:    "Hardening, documentation, and deployment for a first release.",
			Priority:       3,
			EstimatedHours: math.Round(baseHours * 0.2),
			Confidence:     0.6,
		},
	}

	return &RawAnalysis{
		Objectives: []model.Objective{
			{Title: "Deliver a working first version of: " + title},
		},
		Deliverables:      deliverables,
		ComplexityScore:   score,
		ComplexityFactors: factors,
		ScopeSize:         size,
		EstimatedWeeks:    int(math.Ceil(baseHours / 40)),
		TeamSize:          1,
		RiskFactors:       []string{"estimates derived without domain expert input"},
		SuccessCriteria:   []string{"first version usable end to end by a target user"},
	}, nil
}

func (h *Heuristic) GenerateTasks(ctx context.Context, d model.Deliverable) ([]RawTask, error) {
	// Split the deliverable into a short sequential chain: design, build
	// (the bulk), then verify. Hours sum to the deliverable estimate.
	design := math.Round(d.EstimatedHours * 0.2)
	verify := math.Round(d.EstimatedHours * 0.2)
	build := d.EstimatedHours - design - verify
	if build < 1 {
		build = 1
	}

	return []RawTask{
		{
			Title:          "Design " + strings.ToLower(d.Title),
			Description:    "Sketch the approach and agree on interfaces before building.",
			EstimatedHours: design,
			Complexity:     3,
			RequiredSkills: []string{"design"},
		},
		{
			Title:          "Build " + strings.ToLower(d.Title),
			Description:    d.Description,
			EstimatedHours: build,
			Complexity:     5,
			RequiredSkills: []string{"development"},
			DependsOn:      []int{0},
		},
		{
			Title:          "Verify " + strings.ToLower(d.Title),
			Description:    "Test against the agreed interfaces and acceptance criteria.",
			EstimatedHours: verify,
			Complexity:     3,
			RequiredSkills: []string{"testing"},
			DependsOn:      []int{1},
		},
	}, nil
}

// ideaTitle extracts a short label from the first words of the idea text.
func ideaTitle(ideaText string) string {
	words := strings.Fields(strings.TrimSpace(ideaText))
	if len(words) > 6 {
		words = words[:6]
	}
	return strings.Join(words, " ")
}
