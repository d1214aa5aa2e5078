package model

import "time"

// Phase is a named time window within the timeline aggregating tasks and
// deliverables. Phases are contiguous and ordered.
type Phase struct {
	Name         string    `json:"name"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Tasks        []string  `json:"tasks"`        // task IDs
	Deliverables []string  `json:"deliverables"` // deliverable titles
}

// Milestone is a dated marker associated with a deliverable's completion point.
type Milestone struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Dependencies []string  `json:"dependencies,omitempty"` // milestone IDs
}

// Timeline is the dated schedule generated for a decomposition.
type Timeline struct {
	StartDate          time.Time      `json:"start_date"`
	EndDate            time.Time      `json:"end_date"`
	TotalWeeks         int            `json:"total_weeks"`
	Phases             []Phase        `json:"phases"`
	Milestones         []Milestone    `json:"milestones"`
	CriticalPath       []string       `json:"critical_path"`
	ResourceAllocation map[string]int `json:"resource_allocation"`
}
