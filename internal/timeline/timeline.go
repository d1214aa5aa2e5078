// Package timeline converts a task decomposition plus its dependency graph
// into a dated schedule of phases, milestones, and resource allocation.
package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/alfredjeanlab/ideaforge/internal/idgen"
	"github.com/alfredjeanlab/ideaforge/internal/model"
)

// DefaultHoursPerWeek is one person-week of planning capacity.
const DefaultHoursPerWeek = 40.0

// Fixed phase names, always emitted in this order.
var phaseNames = []string{"Planning & Design", "Development", "Testing & Deployment"}

// Time and task-count split across the three phases. The middle phase absorbs
// rounding so the shares always sum to the whole.
const (
	planningShare = 0.30
	testingShare  = 0.15
)

// Generator produces Timelines. The clock is injectable for tests; the zero
// value is not usable, construct with New.
type Generator struct {
	hoursPerWeek float64
	now          func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithHoursPerWeek overrides the per-person weekly capacity.
func WithHoursPerWeek(hours float64) Option {
	return func(g *Generator) { g.hoursPerWeek = hours }
}

// New returns a Generator with the default capacity and wall clock.
func New(opts ...Option) *Generator {
	g := &Generator{
		hoursPerWeek: DefaultHoursPerWeek,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the timeline. Total weeks are derived from the
// decomposition's hours and the team size, phases split the span by fixed
// ratios, tasks are bucketed into phases by count in decomposition order,
// deliverables map onto phases by priority order, and each deliverable gets a
// milestone at its phase's end date.
func (g *Generator) Generate(analysis *model.IdeaAnalysis, d *model.TaskDecomposition, graph *model.DependencyGraph) (*model.Timeline, error) {
	teamSize := analysis.Scope.TeamSize
	if teamSize <= 0 {
		return nil, model.Invalid("scope.team_size", "must be positive, got %d", teamSize)
	}
	if len(d.Tasks) == 0 {
		return nil, model.Invalid("tasks", "at least one task is required")
	}

	totalWeeks := int(math.Max(1, math.Ceil(d.TotalEstimatedHours/(g.hoursPerWeek*float64(teamSize)))))
	start := g.now().UTC().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, totalWeeks*7)

	phases := buildPhases(start, totalWeeks, d)
	assignDeliverables(phases, analysis.Deliverables)

	milestones, err := buildMilestones(phases, analysis.Deliverables)
	if err != nil {
		return nil, err
	}

	criticalPath := append([]string(nil), graph.CriticalPath...)
	if criticalPath == nil {
		criticalPath = []string{}
	}

	return &model.Timeline{
		StartDate:          start,
		EndDate:            end,
		TotalWeeks:         totalWeeks,
		Phases:             phases,
		Milestones:         milestones,
		CriticalPath:       criticalPath,
		ResourceAllocation: map[string]int{"default": teamSize},
	}, nil
}

// buildPhases lays out the three fixed phases over the total span and buckets
// tasks into them by count, keeping decomposition order.
func buildPhases(start time.Time, totalWeeks int, d *model.TaskDecomposition) []model.Phase {
	totalDays := totalWeeks * 7
	dayCounts := splitByRatio(totalDays)
	taskCounts := splitByRatio(len(d.Tasks))

	phases := make([]model.Phase, len(phaseNames))
	cursor := start
	taskIdx := 0
	for i, name := range phaseNames {
		phaseEnd := cursor.AddDate(0, 0, dayCounts[i])
		tasks := make([]string, 0, taskCounts[i])
		for j := 0; j < taskCounts[i]; j++ {
			tasks = append(tasks, d.Tasks[taskIdx].ID)
			taskIdx++
		}
		phases[i] = model.Phase{
			Name:         name,
			StartDate:    cursor,
			EndDate:      phaseEnd,
			Tasks:        tasks,
			Deliverables: []string{},
		}
		cursor = phaseEnd
	}
	return phases
}

// splitByRatio divides n into three non-negative buckets using the fixed
// phase ratios. The middle bucket takes the remainder, so the parts always
// sum to n.
func splitByRatio(n int) [3]int {
	first := int(math.Round(float64(n) * planningShare))
	last := int(math.Round(float64(n) * testingShare))
	middle := n - first - last
	if middle < 0 {
		first += middle
		middle = 0
	}
	if first < 0 {
		first = 0
	}
	return [3]int{first, middle, last}
}

// assignDeliverables maps deliverable i onto phase min(i, 2), so the highest
// priority deliverable lands in planning and the tail accumulates in testing.
func assignDeliverables(phases []model.Phase, deliverables []model.Deliverable) {
	for i, d := range deliverables {
		p := i
		if p > len(phases)-1 {
			p = len(phases) - 1
		}
		phases[p].Deliverables = append(phases[p].Deliverables, d.Title)
	}
}

// buildMilestones emits one milestone per deliverable at its phase's end
// date. Dependencies stay empty: deliverables declare no predecessors among
// themselves, only their priority order.
func buildMilestones(phases []model.Phase, deliverables []model.Deliverable) ([]model.Milestone, error) {
	milestones := make([]model.Milestone, 0, len(deliverables))
	for i, d := range deliverables {
		id, err := idgen.NewMilestoneID()
		if err != nil {
			return nil, fmt.Errorf("assign milestone id: %w", err)
		}
		p := i
		if p > len(phases)-1 {
			p = len(phases) - 1
		}
		milestones = append(milestones, model.Milestone{
			ID:    id,
			Title: d.Title + " complete",
			Date:  phases[p].EndDate,
		})
	}
	return milestones, nil
}
