// Package generator defines the content-generation collaborator consumed by
// the clarifier and the breakdown pipeline. Implementations are treated as
// fallible and possibly slow; callers surface failures as GenerationError and
// never retry internally (retry policy lives inside the implementation).
package generator

import (
	"context"

	"github.com/alfredjeanlab/ideaforge/internal/model"
)

// RawAnalysis is the unnormalized analysis payload produced by a generator.
// The analyzer validates and normalizes it into a model.IdeaAnalysis.
type RawAnalysis struct {
	Objectives        []model.Objective   `json:"objectives"`
	Deliverables      []model.Deliverable `json:"deliverables"`
	ComplexityScore   int                 `json:"complexity_score"`
	ComplexityFactors []string            `json:"complexity_factors"`
	ScopeSize         string              `json:"scope_size"`
	EstimatedWeeks    int                 `json:"estimated_weeks"`
	TeamSize          int                 `json:"team_size"`
	RiskFactors       []string            `json:"risk_factors"`
	SuccessCriteria   []string            `json:"success_criteria"`
}

// RawTask is an unnormalized task produced by a generator for one deliverable.
// DependsOn holds zero-based indexes of earlier tasks in the same list; the
// decomposer resolves them to task IDs.
type RawTask struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	EstimatedHours float64  `json:"estimated_hours"`
	Complexity     int      `json:"complexity"`
	RequiredSkills []string `json:"required_skills"`
	DependsOn      []int    `json:"depends_on"`
}

// Generator produces questions, analyses, and tasks for the core pipeline.
type Generator interface {
	// GenerateQuestions returns clarification question texts for the idea.
	GenerateQuestions(ctx context.Context, ideaText string) ([]string, error)

	// AnalyzeIdea turns the idea text plus clarification answers into a raw
	// analysis payload.
	AnalyzeIdea(ctx context.Context, ideaText string, answers map[string]string) (*RawAnalysis, error)

	// GenerateTasks expands one deliverable into raw tasks whose hours sum
	// approximately to the deliverable's estimate.
	GenerateTasks(ctx context.Context, deliverable model.Deliverable) ([]RawTask, error)
}
