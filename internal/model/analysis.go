package model

// ComplexityLevel classifies a numeric complexity score into a coarse band.
type ComplexityLevel string

const (
	ComplexityLow      ComplexityLevel = "low"
	ComplexityMedium   ComplexityLevel = "medium"
	ComplexityHigh     ComplexityLevel = "high"
	ComplexityVeryHigh ComplexityLevel = "very_high"
)

// String returns the string representation of the level.
func (l ComplexityLevel) String() string {
	return string(l)
}

// Complexity score bounds and classification thresholds.
const (
	ComplexityScoreMin = 1
	ComplexityScoreMax = 10
)

// LevelForScore maps a (clamped) complexity score to its level.
func LevelForScore(score int) ComplexityLevel {
	switch {
	case score <= 3:
		return ComplexityLow
	case score <= 6:
		return ComplexityMedium
	case score <= 8:
		return ComplexityHigh
	default:
		return ComplexityVeryHigh
	}
}

// Objective is a single goal extracted from the idea text.
type Objective struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Deliverable is a major output grouping of work, prioritized and estimated.
type Deliverable struct {
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	Priority       int     `json:"priority"` // 1 = highest; deliverables are ordered by priority
	EstimatedHours float64 `json:"estimated_hours"`
	Confidence     float64 `json:"confidence"`
}

// Complexity describes how hard the idea is to build.
type Complexity struct {
	Score   int             `json:"score"` // clamped to [ComplexityScoreMin, ComplexityScoreMax]
	Factors []string        `json:"factors,omitempty"`
	Level   ComplexityLevel `json:"level"`
}

// Scope sizes the overall effort.
type Scope struct {
	Size           string `json:"size"` // small | medium | large
	EstimatedWeeks int    `json:"estimated_weeks"`
	TeamSize       int    `json:"team_size"`
}

// IdeaAnalysis is the structured interpretation of an idea plus its
// clarification answers. Produced once per breakdown request and immutable
// afterward.
type IdeaAnalysis struct {
	Objectives        []Objective   `json:"objectives"`
	Deliverables      []Deliverable `json:"deliverables"`
	Complexity        Complexity    `json:"complexity"`
	Scope             Scope         `json:"scope"`
	RiskFactors       []string      `json:"risk_factors,omitempty"`
	SuccessCriteria   []string      `json:"success_criteria,omitempty"`
	OverallConfidence float64       `json:"overall_confidence"`
}

// TotalDeliverableHours sums the estimated hours across all deliverables.
func (a *IdeaAnalysis) TotalDeliverableHours() float64 {
	var total float64
	for _, d := range a.Deliverables {
		total += d.EstimatedHours
	}
	return total
}
