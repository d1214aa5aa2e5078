// Package analyzer normalizes generator output into a validated IdeaAnalysis.
package analyzer

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/alfredjeanlab/ideaforge/internal/generator"
	"github.com/alfredjeanlab/ideaforge/internal/model"
)

// defaultDeliverableConfidence is assigned to deliverables the generator left
// unscored, matching the calculator's no-information default.
const defaultDeliverableConfidence = 0.5

// hoursPerPersonWeek is the planning capacity used to derive estimated weeks
// when the generator omits them.
const hoursPerPersonWeek = 40.0

// Scope size thresholds, in estimated weeks.
const (
	smallScopeMaxWeeks  = 4
	mediumScopeMaxWeeks = 12
)

// Analyzer turns idea text plus clarification answers into an IdeaAnalysis.
// Generation failures and structurally invalid payloads surface as
// GenerationError; retry policy belongs to the generator, not here.
type Analyzer struct {
	gen generator.Generator
}

// New returns an Analyzer backed by the given generator.
func New(gen generator.Generator) *Analyzer {
	return &Analyzer{gen: gen}
}

// Analyze invokes the generator and normalizes its payload: deliverables are
// ordered by priority, the complexity score is clamped and classified, team
// size defaults to one, and scope size/weeks are derived when absent.
func (a *Analyzer) Analyze(ctx context.Context, ideaText string, answers map[string]string) (*model.IdeaAnalysis, error) {
	raw, err := a.gen.AnalyzeIdea(ctx, ideaText, answers)
	if err != nil {
		return nil, model.Generation("analyze_idea", err)
	}
	if raw == nil {
		return nil, model.Generation("analyze_idea", fmt.Errorf("generator returned no analysis"))
	}
	if len(raw.Deliverables) == 0 {
		return nil, model.Generation("analyze_idea", fmt.Errorf("analysis has no deliverables"))
	}
	for i, d := range raw.Deliverables {
		if d.Title == "" {
			return nil, model.Generation("analyze_idea", fmt.Errorf("deliverable %d is missing a title", i))
		}
		if d.EstimatedHours <= 0 {
			return nil, model.Generation("analyze_idea", fmt.Errorf("deliverable %q has non-positive hours", d.Title))
		}
	}

	deliverables := make([]model.Deliverable, len(raw.Deliverables))
	copy(deliverables, raw.Deliverables)
	for i := range deliverables {
		if deliverables[i].Priority <= 0 {
			deliverables[i].Priority = i + 1
		}
		if deliverables[i].Confidence <= 0 {
			deliverables[i].Confidence = defaultDeliverableConfidence
		}
	}
	sort.SliceStable(deliverables, func(i, j int) bool {
		return deliverables[i].Priority < deliverables[j].Priority
	})

	score := clampScore(raw.ComplexityScore)

	teamSize := raw.TeamSize
	if teamSize <= 0 {
		teamSize = 1
	}

	analysis := &model.IdeaAnalysis{
		Objectives:   raw.Objectives,
		Deliverables: deliverables,
		Complexity: model.Complexity{
			Score:   score,
			Factors: raw.ComplexityFactors,
			Level:   model.LevelForScore(score),
		},
		Scope: model.Scope{
			Size:           raw.ScopeSize,
			EstimatedWeeks: raw.EstimatedWeeks,
			TeamSize:       teamSize,
		},
		RiskFactors:       raw.RiskFactors,
		SuccessCriteria:   raw.SuccessCriteria,
		OverallConfidence: meanConfidence(deliverables),
	}

	if analysis.Scope.EstimatedWeeks <= 0 {
		hours := analysis.TotalDeliverableHours()
		analysis.Scope.EstimatedWeeks = int(math.Max(1, math.Ceil(hours/(hoursPerPersonWeek*float64(teamSize)))))
	}
	if analysis.Scope.Size == "" {
		analysis.Scope.Size = sizeForWeeks(analysis.Scope.EstimatedWeeks)
	}

	if err := model.ValidateAnalysis(analysis); err != nil {
		return nil, model.Generation("analyze_idea", err)
	}
	return analysis, nil
}

func clampScore(score int) int {
	if score < model.ComplexityScoreMin {
		return model.ComplexityScoreMin
	}
	if score > model.ComplexityScoreMax {
		return model.ComplexityScoreMax
	}
	return score
}

func sizeForWeeks(weeks int) string {
	switch {
	case weeks <= smallScopeMaxWeeks:
		return "small"
	case weeks <= mediumScopeMaxWeeks:
		return "medium"
	default:
		return "large"
	}
}

func meanConfidence(deliverables []model.Deliverable) float64 {
	if len(deliverables) == 0 {
		return defaultDeliverableConfidence
	}
	var sum float64
	for _, d := range deliverables {
		sum += d.Confidence
	}
	return sum / float64(len(deliverables))
}
