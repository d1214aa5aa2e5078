package model

import "time"

// BreakdownStatus represents the lifecycle state of a breakdown session.
type BreakdownStatus string

const (
	BreakdownComplete BreakdownStatus = "complete"
)

// BreakdownSession aggregates the output of the full breakdown pipeline for
// one idea. It is written once per breakdown request; a repeat request for the
// same idea replaces it wholesale, it is never patched in place.
type BreakdownSession struct {
	IdeaID        string             `json:"idea_id"`
	Status        BreakdownStatus    `json:"status"`
	Analysis      *IdeaAnalysis      `json:"analysis"`
	Decomposition *TaskDecomposition `json:"decomposition"`
	Graph         *DependencyGraph   `json:"graph"`
	Timeline      *Timeline          `json:"timeline"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
