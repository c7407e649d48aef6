package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// WeightTolerance is the permitted floating drift when validating that a
// persona's four dimension weights sum to 1.0.
const WeightTolerance = 1e-6

// DimensionWeights is an immutable value object holding a persona's
// per-dimension weighting. The sum-to-1.0 invariant is checked once at
// construction and never re-validated on read.
type DimensionWeights struct {
	novelty      decimal.Decimal
	structure    decimal.Decimal
	thoroughness decimal.Decimal
	clarity      decimal.Decimal
}

// NewDimensionWeights validates and constructs a DimensionWeights value.
// Returns ErrInvalidWeights when the weights do not sum to 1.0 within
// WeightTolerance, or when any single weight is negative.
func NewDimensionWeights(novelty, structure, thoroughness, clarity float64) (DimensionWeights, error) {
	for _, w := range []float64{novelty, structure, thoroughness, clarity} {
		if w < 0 || math.IsNaN(w) {
			return DimensionWeights{}, fmt.Errorf("%w: negative or NaN weight %v", ErrInvalidWeights, w)
		}
	}

	sum := novelty + structure + thoroughness + clarity
	if math.Abs(sum-1.0) > WeightTolerance {
		return DimensionWeights{}, fmt.Errorf("%w: got %.8f", ErrInvalidWeights, sum)
	}

	return DimensionWeights{
		novelty:      decimal.NewFromFloat(novelty),
		structure:    decimal.NewFromFloat(structure),
		thoroughness: decimal.NewFromFloat(thoroughness),
		clarity:      decimal.NewFromFloat(clarity),
	}, nil
}

// MustDimensionWeights is NewDimensionWeights for static catalogs; it
// panics on invalid weights. Use only for compile-time-known values.
func MustDimensionWeights(novelty, structure, thoroughness, clarity float64) DimensionWeights {
	w, err := NewDimensionWeights(novelty, structure, thoroughness, clarity)
	if err != nil {
		panic(err)
	}
	return w
}

// Weight returns the weight for the given dimension.
func (w DimensionWeights) Weight(d Dimension) decimal.Decimal {
	switch d {
	case DimensionNovelty:
		return w.novelty
	case DimensionStructure:
		return w.structure
	case DimensionThoroughness:
		return w.thoroughness
	case DimensionClarity:
		return w.clarity
	}
	return decimal.Zero
}

// Persona describes one reviewer archetype: a named set of dimension
// weights, scoring traits, and prompt guidance. Personas are immutable and
// defined at process start, so concurrent reads need no synchronization.
type Persona struct {
	// ID is the stable identifier used in configuration and breakdowns.
	ID string

	// Name is the human-readable persona name, e.g. "The Rigorist".
	Name string

	// Description summarizes what this reviewer values.
	Description string

	// Weights is the persona's validated dimension weighting.
	Weights DimensionWeights

	// Guidance is persona-specific evaluation guidance injected into the
	// system prompt.
	Guidance string

	// Strictness expresses scoring harshness in [0,1]; 0 is lenient,
	// 1 is harsh. The weighted_mean aggregation method discounts harsh
	// personas by 1 - Strictness*0.3.
	Strictness float64

	// ValuesOriginality and ValuesEvidence are secondary traits in [0,1]
	// describing how much the persona rewards risk-taking and sourcing.
	// They shape prompt guidance but do not affect aggregation weights.
	ValuesOriginality float64
	ValuesEvidence    float64
}

// WeightedScore combines the four dimension scores using this persona's
// weights: Σ(score × weight), rounded to two places half away from zero.
// The same rounding rule is applied everywhere scores are stored.
func (p Persona) WeightedScore(s DimensionScores) decimal.Decimal {
	total := decimal.Zero
	for _, d := range Dimensions() {
		total = total.Add(s.Value(d).Mul(p.Weights.Weight(d)))
	}
	return total.Round(2)
}
