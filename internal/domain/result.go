package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DimensionFeedback carries the evaluator's textual commentary, one entry
// per dimension plus an overall summary.
type DimensionFeedback struct {
	Novelty        string `json:"novelty"`
	Structure      string `json:"structure"`
	Thoroughness   string `json:"thoroughness"`
	Clarity        string `json:"clarity"`
	OverallSummary string `json:"overall_summary"`
}

// Value returns the feedback text for the given dimension.
func (f DimensionFeedback) Value(d Dimension) string {
	switch d {
	case DimensionNovelty:
		return f.Novelty
	case DimensionStructure:
		return f.Structure
	case DimensionThoroughness:
		return f.Thoroughness
	case DimensionClarity:
		return f.Clarity
	}
	return ""
}

// IndividualResult is one evaluator's verdict: the outcome of a single
// (provider, persona) task. Results are created once by the runner and
// never mutated afterwards; failures are recorded here as data rather than
// propagated as errors.
type IndividualResult struct {
	// Provider names the scoring provider that produced this result.
	Provider string `json:"provider"`

	// Model is the underlying model identifier, for bookkeeping.
	Model string `json:"model,omitempty"`

	// PersonaID names the reviewer persona whose weights applied.
	PersonaID string `json:"persona_id"`

	// Scores holds the validated per-dimension scores. Zero-valued when
	// the task failed.
	Scores DimensionScores `json:"scores"`

	// WeightedScore is the persona-weighted combination of Scores,
	// rounded to two places.
	WeightedScore decimal.Decimal `json:"weighted_score"`

	// Feedback is the evaluator's commentary. Empty when the task failed.
	Feedback DimensionFeedback `json:"feedback"`

	// Success reports whether the task produced usable scores.
	Success bool `json:"success"`

	// Error holds the captured failure message; set iff !Success.
	Error string `json:"error,omitempty"`

	// Duration is the wall-clock time the task took, including the
	// provider round trip.
	Duration time.Duration `json:"duration"`
}

// AggregationMethod selects the strategy for combining individual weighted
// scores into one aggregate.
type AggregationMethod string

const (
	// MethodMean is the arithmetic mean of successful values.
	MethodMean AggregationMethod = "mean"

	// MethodMedian is the statistical median; even counts average the two
	// middle values.
	MethodMedian AggregationMethod = "median"

	// MethodTrimmedMean drops exactly one lowest and one highest value
	// before averaging, when at least four evaluators succeeded; smaller
	// samples fall back to the median.
	MethodTrimmedMean AggregationMethod = "trimmed_mean"

	// MethodWeightedMean weights each result by 1 - persona.Strictness*0.3
	// so that harsher reviewers pull the aggregate less.
	MethodWeightedMean AggregationMethod = "weighted_mean"
)

// ParseAggregationMethod validates a method string from configuration.
// Unknown values are a caller configuration error, never a silent fallback.
func ParseAggregationMethod(s string) (AggregationMethod, error) {
	switch m := AggregationMethod(s); m {
	case MethodMean, MethodMedian, MethodTrimmedMean, MethodWeightedMean:
		return m, nil
	default:
		return "", ErrUnknownMethod
	}
}

// EvaluatorScore is one breakdown entry in an aggregated score: which
// evaluator contributed what.
type EvaluatorScore struct {
	Provider      string          `json:"provider"`
	Persona       string          `json:"persona"`
	WeightedScore decimal.Decimal `json:"weighted_score"`
}

// AggregatedScore is the combined verdict derived from a set of individual
// results. It is recomputed fresh on every run and never mutated.
type AggregatedScore struct {
	// Dimensions holds the per-dimension aggregates.
	Dimensions DimensionScores `json:"dimensions"`

	// Overall is the aggregate of the persona-weighted scores and the
	// value the publish threshold is compared against.
	Overall decimal.Decimal `json:"overall_score"`

	// EvaluatorCount is the number of tasks attempted;
	// SuccessfulCount <= EvaluatorCount is the number that produced
	// usable scores.
	EvaluatorCount  int `json:"evaluator_count"`
	SuccessfulCount int `json:"successful_count"`

	// Method records how the aggregate was computed.
	Method AggregationMethod `json:"method"`

	// ScoreStdDev is the sample standard deviation of the successful
	// weighted scores, 0.0 when one or fewer succeeded.
	ScoreStdDev float64 `json:"score_std_dev"`

	// MaxDisagreement is max - min of the successful weighted scores,
	// 0.0 when one or fewer succeeded.
	MaxDisagreement float64 `json:"max_disagreement"`

	// Breakdown lists successful contributors in original task order.
	Breakdown []EvaluatorScore `json:"breakdown"`
}

// Decision is the publish/reject signal exposed to the content-lifecycle
// collaborator alongside the threshold and achieved score.
type Decision struct {
	Publish   bool            `json:"publish"`
	Threshold decimal.Decimal `json:"threshold"`
	Score     decimal.Decimal `json:"score"`
}
