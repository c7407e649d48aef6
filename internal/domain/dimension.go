// Package domain holds the core evaluation model: scoring dimensions,
// reviewer personas, individual and aggregated results, and the
// Evaluation state machine. It has no knowledge of providers, prompts, or
// transport; those live behind ports.
package domain

// Dimension is one of the four fixed axes every evaluator scores.
type Dimension string

const (
	// DimensionNovelty measures originality of ideas and perspective.
	DimensionNovelty Dimension = "novelty"

	// DimensionStructure measures organization and logical flow.
	DimensionStructure Dimension = "structure"

	// DimensionThoroughness measures depth, evidence, and completeness.
	DimensionThoroughness Dimension = "thoroughness"

	// DimensionClarity measures prose quality and readability.
	DimensionClarity Dimension = "clarity"
)

// Score bounds for every dimension. Out-of-range values from evaluators
// are clamped, never rejected.
const (
	MinDimensionScore = 1.0
	MaxDimensionScore = 10.0

	// NeutralDimensionScore substitutes for a dimension an evaluator's
	// otherwise-parseable response omitted or garbled.
	NeutralDimensionScore = 5.0
)

// Dimensions returns the four dimensions in canonical order. Every place
// that iterates dimensions uses this order so breakdowns, prompts, and
// feedback stay deterministic.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionNovelty,
		DimensionStructure,
		DimensionThoroughness,
		DimensionClarity,
	}
}
