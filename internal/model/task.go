package model

// Task is an atomic unit of work belonging to a deliverable.
type Task struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	EstimatedHours float64  `json:"estimated_hours"`
	Complexity     int      `json:"complexity"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"` // task IDs within the same decomposition
	DeliverableID  string   `json:"deliverable_id"`
}

// TaskDecomposition is the flat task set expanded from an IdeaAnalysis.
//
// Invariants: every dependency references a task ID present in the same
// decomposition, and no task depends on itself.
type TaskDecomposition struct {
	Tasks               []Task  `json:"tasks"`
	TotalEstimatedHours float64 `json:"total_estimated_hours"`
	Confidence          float64 `json:"confidence"`
}

// TaskByID returns the task with the given ID, or nil if absent.
func (d *TaskDecomposition) TaskByID(id string) *Task {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

// TaskIDs returns the IDs of all tasks in decomposition order.
func (d *TaskDecomposition) TaskIDs() []string {
	ids := make([]string, len(d.Tasks))
	for i, t := range d.Tasks {
		ids[i] = t.ID
	}
	return ids
}
