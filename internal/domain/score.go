package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 converts a float score to a two-place decimal, rounding half
// away from zero. All stored scores pass through this so persisted and
// reported values agree to the cent.
func Round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Round3 rounds to three places half away from zero. Used for the
// standard-deviation statistic only.
func Round3(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return f
}

// ClampScore forces a raw evaluator score into the valid [1,10] range.
// NaN and infinities map to the neutral score rather than poisoning the
// aggregate.
func ClampScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NeutralDimensionScore
	}
	if v < MinDimensionScore {
		return MinDimensionScore
	}
	if v > MaxDimensionScore {
		return MaxDimensionScore
	}
	return v
}

// DimensionScores holds one validated score per dimension, stored as
// two-place decimals. Construct via NewDimensionScores so clamping and
// rounding are applied uniformly.
type DimensionScores struct {
	Novelty      decimal.Decimal `json:"novelty"`
	Structure    decimal.Decimal `json:"structure"`
	Thoroughness decimal.Decimal `json:"thoroughness"`
	Clarity      decimal.Decimal `json:"clarity"`
}

// NewDimensionScores clamps each raw value into [1,10] and rounds it to
// two places.
func NewDimensionScores(novelty, structure, thoroughness, clarity float64) DimensionScores {
	return DimensionScores{
		Novelty:      Round2(ClampScore(novelty)),
		Structure:    Round2(ClampScore(structure)),
		Thoroughness: Round2(ClampScore(thoroughness)),
		Clarity:      Round2(ClampScore(clarity)),
	}
}

// Value returns the score for the given dimension.
func (s DimensionScores) Value(d Dimension) decimal.Decimal {
	switch d {
	case DimensionNovelty:
		return s.Novelty
	case DimensionStructure:
		return s.Structure
	case DimensionThoroughness:
		return s.Thoroughness
	case DimensionClarity:
		return s.Clarity
	}
	return decimal.Zero
}

// Float returns the score for the given dimension as a float64, for
// statistics that operate in floating point.
func (s DimensionScores) Float(d Dimension) float64 {
	f, _ := s.Value(d).Float64()
	return f
}
