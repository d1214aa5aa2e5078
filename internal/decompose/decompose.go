// Package decompose expands an IdeaAnalysis into a flat, dependency-consistent
// task set.
package decompose

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/ideaforge/internal/generator"
	"github.com/alfredjeanlab/ideaforge/internal/idgen"
	"github.com/alfredjeanlab/ideaforge/internal/model"
)

// Decomposer turns an analysis into a TaskDecomposition by asking the
// generator for tasks per deliverable and normalizing the result.
type Decomposer struct {
	gen generator.Generator
}

// New returns a Decomposer backed by the given generator.
func New(gen generator.Generator) *Decomposer {
	return &Decomposer{gen: gen}
}

// Decompose expands each deliverable into tasks, assigns stable IDs, resolves
// the generator's index-based dependencies to task IDs, and repairs any
// invariant violations by dropping the offending edges. A valid analysis
// always decomposes; only generator failures surface as errors.
func (d *Decomposer) Decompose(ctx context.Context, analysis *model.IdeaAnalysis) (*model.TaskDecomposition, error) {
	if err := model.ValidateAnalysis(analysis); err != nil {
		return nil, err
	}

	var tasks []model.Task
	for _, deliverable := range analysis.Deliverables {
		raws, err := d.gen.GenerateTasks(ctx, deliverable)
		if err != nil {
			return nil, model.Generation("generate_tasks", err)
		}

		group, err := buildTasks(deliverable, raws)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, group...)
	}

	decomposition := &model.TaskDecomposition{
		Tasks:      tasks,
		Confidence: meanConfidence(analysis.Deliverables),
	}
	for _, t := range tasks {
		decomposition.TotalEstimatedHours += t.EstimatedHours
	}

	RepairDependencies(decomposition)

	if err := model.ValidateDecomposition(decomposition); err != nil {
		return nil, fmt.Errorf("decomposition invariants violated after repair: %w", err)
	}
	return decomposition, nil
}

// buildTasks converts one deliverable's raw tasks into model tasks with IDs
// and resolved dependencies. A deliverable the generator could not expand
// becomes a single task covering its whole estimate.
func buildTasks(deliverable model.Deliverable, raws []generator.RawTask) ([]model.Task, error) {
	if len(raws) == 0 {
		raws = []generator.RawTask{{
			Title:          deliverable.Title,
			Description:    deliverable.Description,
			EstimatedHours: deliverable.EstimatedHours,
			Complexity:     defaultTaskComplexity,
		}}
	}

	tasks := make([]model.Task, len(raws))
	for i, raw := range raws {
		id, err := idgen.NewTaskID()
		if err != nil {
			return nil, fmt.Errorf("assign task id: %w", err)
		}
		tasks[i] = model.Task{
			ID:             id,
			Title:          raw.Title,
			Description:    raw.Description,
			EstimatedHours: raw.EstimatedHours,
			Complexity:     clampComplexity(raw.Complexity),
			RequiredSkills: raw.RequiredSkills,
			DeliverableID:  deliverable.Title,
		}
		if tasks[i].Title == "" {
			tasks[i].Title = fmt.Sprintf("%s task %d", deliverable.Title, i+1)
		}
		if tasks[i].EstimatedHours <= 0 {
			tasks[i].EstimatedHours = deliverable.EstimatedHours / float64(len(raws))
		}
	}

	// Dependencies reference earlier tasks by index within the same
	// deliverable. Anything else (out of range, self, forward) is dropped.
	for i, raw := range raws {
		for _, dep := range raw.DependsOn {
			if dep < 0 || dep >= i {
				continue
			}
			tasks[i].Dependencies = append(tasks[i].Dependencies, tasks[dep].ID)
		}
	}
	return tasks, nil
}

const defaultTaskComplexity = 5

// RepairDependencies enforces the decomposition invariants in place: each
// dependency must name a task in the same decomposition and no task may
// depend on itself. Violating edges and duplicates are dropped, never the
// tasks that carry them.
func RepairDependencies(d *model.TaskDecomposition) {
	known := make(map[string]struct{}, len(d.Tasks))
	for _, t := range d.Tasks {
		known[t.ID] = struct{}{}
	}
	for i := range d.Tasks {
		task := &d.Tasks[i]
		if len(task.Dependencies) == 0 {
			continue
		}
		kept := task.Dependencies[:0]
		seen := make(map[string]struct{}, len(task.Dependencies))
		for _, dep := range task.Dependencies {
			if dep == task.ID {
				continue
			}
			if _, ok := known[dep]; !ok {
				continue
			}
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			kept = append(kept, dep)
		}
		if len(kept) == 0 {
			task.Dependencies = nil
			continue
		}
		task.Dependencies = kept
	}
}

func clampComplexity(c int) int {
	if c < model.ComplexityScoreMin {
		return model.ComplexityScoreMin
	}
	if c > model.ComplexityScoreMax {
		return model.ComplexityScoreMax
	}
	return c
}

func meanConfidence(deliverables []model.Deliverable) float64 {
	if len(deliverables) == 0 {
		return 0
	}
	var sum float64
	for _, d := range deliverables {
		sum += d.Confidence
	}
	return sum / float64(len(deliverables))
}
