// Package confidence turns an answered/total question ratio into a bounded
// confidence score. Used by both the clarifier and the breakdown summaries.
package confidence

// Params holds the scoring constants. These are configuration values, not
// computed; see config.Load for the environment overrides.
type Params struct {
	// Default is returned when there are no questions to answer.
	Default float64
	// Base is the floor for any session with at least one question.
	Base float64
	// Increment is the maximum gain available from answering every question.
	Increment float64
	// Max caps the final score.
	Max float64
}

// DefaultParams returns the stock scoring constants.
func DefaultParams() Params {
	return Params{
		Default:   0.5,
		Base:      0.5,
		Increment: 0.45,
		Max:       0.95,
	}
}

// Calculator computes confidence scores from answer counts. It is pure: no
// state, no side effects.
type Calculator struct {
	params Params
}

// New returns a Calculator using the given params.
func New(params Params) *Calculator {
	return &Calculator{params: params}
}

// Calculate returns the confidence for answeredCount answers out of
// totalQuestions. The result is monotonically non-decreasing in answeredCount
// and never exceeds Max.
func (c *Calculator) Calculate(answeredCount, totalQuestions int) float64 {
	if totalQuestions <= 0 {
		return c.params.Default
	}
	if answeredCount < 0 {
		answeredCount = 0
	}
	if answeredCount > totalQuestions {
		answeredCount = totalQuestions
	}
	score := c.params.Base + (float64(answeredCount)/float64(totalQuestions))*c.params.Increment
	if score > c.params.Max {
		score = c.params.Max
	}
	return score
}

// CalculateFromAnswers counts distinct answered question IDs and delegates to
// Calculate. Answers keyed by IDs outside the question set are ignored by the
// caller's bookkeeping, so the count is clamped to totalQuestions.
func (c *Calculator) CalculateFromAnswers(answers map[string]string, totalQuestions int) float64 {
	return c.Calculate(len(answers), totalQuestions)
}
