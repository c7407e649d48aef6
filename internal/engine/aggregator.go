package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

// PersonaLookup resolves a persona ID for aggregation weighting. A false
// return means the persona is unknown; weighted_mean then uses weight
// 1.0 rather than failing, since results may outlive catalog changes.
type PersonaLookup func(id string) (domain.Persona, bool)

// Aggregator combines individual results into one AggregatedScore using
// a selectable statistical method. It is stateless and safe for
// concurrent use.
type Aggregator struct {
	lookup PersonaLookup
}

var _ ports.Aggregator = (*Aggregator)(nil)

// NewAggregator creates an Aggregator. lookup may be nil when the
// weighted_mean method is never used.
func NewAggregator(lookup PersonaLookup) *Aggregator {
	return &Aggregator{lookup: lookup}
}

// Aggregate filters results to successes and computes the per-dimension
// and overall aggregates, agreement statistics, and breakdown. Returns
// ErrNoSuccessfulEvaluations when no result succeeded; callers check
// this before invoking, but the engine re-validates independently.
func (a *Aggregator) Aggregate(results []domain.IndividualResult, method domain.AggregationMethod) (*domain.AggregatedScore, error) {
	if _, err := domain.ParseAggregationMethod(string(method)); err != nil {
		return nil, fmt.Errorf("aggregate: %q: %w", method, err)
	}

	successful := make([]domain.IndividualResult, 0, len(results))
	for _, r := range results {
		if r.Success {
			successful = append(successful, r)
		}
	}
	if len(successful) == 0 {
		return nil, domain.ErrNoSuccessfulEvaluations
	}

	weights := a.resultWeights(successful, method)

	overallValues := make([]float64, len(successful))
	for i, r := range successful {
		overallValues[i], _ = r.WeightedScore.Float64()
	}

	dims := make(map[domain.Dimension]float64, 4)
	dimValues := make([]float64, len(successful))
	for _, d := range domain.Dimensions() {
		for i, r := range successful {
			dimValues[i] = r.Scores.Float(d)
		}
		dims[d] = combine(dimValues, weights, method)
	}

	breakdown := make([]domain.EvaluatorScore, len(successful))
	for i, r := range successful {
		breakdown[i] = domain.EvaluatorScore{
			Provider:      r.Provider,
			Persona:       r.PersonaID,
			WeightedScore: r.WeightedScore,
		}
	}

	return &domain.AggregatedScore{
		Dimensions: domain.NewDimensionScores(
			dims[domain.DimensionNovelty],
			dims[domain.DimensionStructure],
			dims[domain.DimensionThoroughness],
			dims[domain.DimensionClarity],
		),
		Overall:         domain.Round2(combine(overallValues, weights, method)),
		EvaluatorCount:  len(results),
		SuccessfulCount: len(successful),
		Method:          method,
		ScoreStdDev:     domain.Round3(sampleStdDev(overallValues)),
		MaxDisagreement: round2f(maxDisagreement(overallValues)),
		Breakdown:       breakdown,
	}, nil
}

// resultWeights computes per-result weights for weighted_mean: a harsh
// persona pulls the aggregate less, weight = 1 - strictness*0.3. Other
// methods ignore weights.
func (a *Aggregator) resultWeights(successful []domain.IndividualResult, method domain.AggregationMethod) []float64 {
	if method != domain.MethodWeightedMean {
		return nil
	}
	weights := make([]float64, len(successful))
	for i, r := range successful {
		weights[i] = 1.0
		if a.lookup != nil {
			if p, ok := a.lookup(r.PersonaID); ok {
				weights[i] = 1.0 - p.Strictness*0.3
			}
		}
	}
	return weights
}

// combine applies the aggregation method to one slice of values.
// weights is non-nil only for weighted_mean and is index-aligned with
// values.
func combine(values, weights []float64, method domain.AggregationMethod) float64 {
	switch method {
	case domain.MethodMean:
		return mean(values)
	case domain.MethodMedian:
		return median(values)
	case domain.MethodTrimmedMean:
		return trimmedMean(values)
	case domain.MethodWeightedMean:
		return weightedMean(values, weights)
	}
	return mean(values)
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median returns the middle value; even counts average the two middle
// values.
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// trimmedMean drops exactly one lowest and one highest value before
// averaging. Fewer than four values fall back to the median, where
// trimming would discard too much signal.
func trimmedMean(values []float64) float64 {
	if len(values) < 4 {
		return median(values)
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return mean(sorted[1 : len(sorted)-1])
}

func weightedMean(values, weights []float64) float64 {
	var sum, weightSum float64
	for i, v := range values {
		sum += v * weights[i]
		weightSum += weights[i]
	}
	if weightSum == 0 {
		return mean(values)
	}
	return sum / weightSum
}

// sampleStdDev returns the sample standard deviation, 0.0 for one or
// fewer values.
func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n <= 1 {
		return 0.0
	}

	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// maxDisagreement returns max - min, 0.0 for one or fewer values.
func maxDisagreement(values []float64) float64 {
	if len(values) <= 1 {
		return 0.0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min
}

func round2f(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
