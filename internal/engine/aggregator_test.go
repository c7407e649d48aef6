package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-quorum/internal/domain"
)

// successResult builds a successful result whose weighted score is the
// given value. Uniform dimension scores keep the weighted score equal to
// the raw score for any valid persona weights.
func successResult(provider, persona string, weighted float64) domain.IndividualResult {
	return domain.IndividualResult{
		Provider:      provider,
		PersonaID:     persona,
		Scores:        domain.NewDimensionScores(weighted, weighted, weighted, weighted),
		WeightedScore: domain.Round2(weighted),
		Success:       true,
	}
}

func failedResult(provider, persona string) domain.IndividualResult {
	return domain.IndividualResult{
		Provider:  provider,
		PersonaID: persona,
		Error:     "provider timeout",
	}
}

func TestAggregateMethods(t *testing.T) {
	agg := NewAggregator(nil)

	four := []domain.IndividualResult{
		successResult("p1", "a", 9.0),
		successResult("p1", "b", 8.0),
		successResult("p2", "a", 7.0),
		successResult("p2", "b", 2.0),
	}

	tests := []struct {
		name    string
		results []domain.IndividualResult
		method  domain.AggregationMethod
		want    string
	}{
		{name: "mean of four", results: four, method: domain.MethodMean, want: "6.5"},
		{name: "median of four averages middle pair", results: four, method: domain.MethodMedian, want: "7.5"},
		{name: "trimmed mean drops one from each end", results: four, method: domain.MethodTrimmedMean, want: "7.5"},
		{
			name: "trimmed mean below four falls back to median",
			results: []domain.IndividualResult{
				successResult("p1", "a", 9.0),
				successResult("p1", "b", 8.0),
				successResult("p2", "a", 2.0),
			},
			method: domain.MethodTrimmedMean,
			want:   "8",
		},
		{
			name:    "median of odd count",
			results: four[:3],
			method:  domain.MethodMedian,
			want:    "8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := agg.Aggregate(tt.results, tt.method)
			require.NoError(t, err)
			assert.True(t, got.Overall.Equal(decimal.RequireFromString(tt.want)),
				"overall = %s, want %s", got.Overall, tt.want)
		})
	}
}

func TestAggregateStatistics(t *testing.T) {
	agg := NewAggregator(nil)

	results := []domain.IndividualResult{
		successResult("p1", "a", 9.0),
		successResult("p1", "b", 8.0),
		successResult("p2", "a", 7.0),
		successResult("p2", "b", 2.0),
	}

	got, err := agg.Aggregate(results, domain.MethodMean)
	require.NoError(t, err)

	assert.Equal(t, 4, got.EvaluatorCount)
	assert.Equal(t, 4, got.SuccessfulCount)
	assert.InDelta(t, 7.0, got.MaxDisagreement, 1e-9)
	// Sample std dev of [9,8,7,2] = sqrt(29/3) = 3.109...
	assert.InDelta(t, 3.109, got.ScoreStdDev, 1e-3)
}

func TestAggregateSingleSuccess(t *testing.T) {
	agg := NewAggregator(nil)

	results := []domain.IndividualResult{
		failedResult("p1", "a"),
		successResult("p1", "b", 6.25),
		failedResult("p2", "a"),
	}

	got, err := agg.Aggregate(results, domain.MethodMedian)
	require.NoError(t, err)

	assert.Equal(t, 3, got.EvaluatorCount)
	assert.Equal(t, 1, got.SuccessfulCount)
	assert.Equal(t, 0.0, got.ScoreStdDev)
	assert.Equal(t, 0.0, got.MaxDisagreement)
	assert.True(t, got.Overall.Equal(decimal.RequireFromString("6.25")))
}

func TestAggregateWeightedMeanAppliesStrictness(t *testing.T) {
	lenient := domain.Persona{ID: "lenient", Strictness: 0.0}
	harsh := domain.Persona{ID: "harsh", Strictness: 1.0}
	personas := map[string]domain.Persona{"lenient": lenient, "harsh": harsh}

	agg := NewAggregator(func(id string) (domain.Persona, bool) {
		p, ok := personas[id]
		return p, ok
	})

	results := []domain.IndividualResult{
		successResult("p1", "lenient", 9.0),
		successResult("p1", "harsh", 5.0),
	}

	weighted, err := agg.Aggregate(results, domain.MethodWeightedMean)
	require.NoError(t, err)
	plain, err := agg.Aggregate(results, domain.MethodMean)
	require.NoError(t, err)

	// Weights 1.0 and 0.7: (9 + 5*0.7)/1.7 = 7.35 vs plain mean 7.0.
	assert.True(t, weighted.Overall.Equal(decimal.RequireFromString("7.35")),
		"got %s", weighted.Overall)
	assert.False(t, weighted.Overall.Equal(plain.Overall),
		"strictness weights must change the aggregate")
}

func TestAggregateWeightedMeanUnknownPersonaDefaultsToFullWeight(t *testing.T) {
	agg := NewAggregator(func(id string) (domain.Persona, bool) {
		return domain.Persona{}, false
	})

	results := []domain.IndividualResult{
		successResult("p1", "ghost", 8.0),
		successResult("p2", "phantom", 6.0),
	}

	got, err := agg.Aggregate(results, domain.MethodWeightedMean)
	require.NoError(t, err)
	assert.True(t, got.Overall.Equal(decimal.RequireFromString("7")), "got %s", got.Overall)
}

func TestAggregateBreakdownPreservesTaskOrder(t *testing.T) {
	agg := NewAggregator(nil)

	results := []domain.IndividualResult{
		successResult("p1", "a", 3.0),
		failedResult("p1", "b"),
		successResult("p2", "a", 9.0),
		successResult("p2", "b", 6.0),
	}

	got, err := agg.Aggregate(results, domain.MethodMean)
	require.NoError(t, err)

	require.Len(t, got.Breakdown, 3, "breakdown holds successes only")
	assert.Equal(t, "p1", got.Breakdown[0].Provider)
	assert.Equal(t, "a", got.Breakdown[0].Persona)
	assert.Equal(t, "p2", got.Breakdown[1].Provider)
	assert.Equal(t, "a", got.Breakdown[1].Persona)
	assert.Equal(t, "p2", got.Breakdown[2].Provider)
	assert.Equal(t, "b", got.Breakdown[2].Persona)
}

func TestAggregateDimensions(t *testing.T) {
	agg := NewAggregator(nil)

	a := successResult("p1", "a", 8.0)
	a.Scores = domain.NewDimensionScores(9, 8, 7, 8)
	b := successResult("p2", "a", 6.0)
	b.Scores = domain.NewDimensionScores(5, 6, 7, 6)

	got, err := agg.Aggregate([]domain.IndividualResult{a, b}, domain.MethodMean)
	require.NoError(t, err)

	assert.Equal(t, "7", got.Dimensions.Novelty.String())
	assert.Equal(t, "7", got.Dimensions.Structure.String())
	assert.Equal(t, "7", got.Dimensions.Thoroughness.String())
	assert.Equal(t, "7", got.Dimensions.Clarity.String())
}

func TestAggregateErrors(t *testing.T) {
	agg := NewAggregator(nil)

	t.Run("no successes", func(t *testing.T) {
		_, err := agg.Aggregate([]domain.IndividualResult{failedResult("p1", "a")}, domain.MethodMean)
		require.ErrorIs(t, err, domain.ErrNoSuccessfulEvaluations)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := agg.Aggregate(nil, domain.MethodMean)
		require.ErrorIs(t, err, domain.ErrNoSuccessfulEvaluations)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := agg.Aggregate([]domain.IndividualResult{successResult("p1", "a", 7)}, "mode")
		require.ErrorIs(t, err, domain.ErrUnknownMethod)
	})
}
