package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampScore(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "in range", in: 7.3, want: 7.3},
		{name: "below minimum", in: 0.2, want: 1.0},
		{name: "negative", in: -4, want: 1.0},
		{name: "above maximum", in: 11.5, want: 10.0},
		{name: "at minimum", in: 1.0, want: 1.0},
		{name: "at maximum", in: 10.0, want: 10.0},
		{name: "NaN maps to neutral", in: math.NaN(), want: 5.0},
		{name: "positive infinity maps to neutral", in: math.Inf(1), want: 5.0},
		{name: "negative infinity maps to neutral", in: math.Inf(-1), want: 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ClampScore(tt.in), 1e-12)
		})
	}
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 7.125, want: "7.13"},
		{in: 7.124, want: "7.12"},
		{in: -7.125, want: "-7.13"},
		{in: 6.5, want: "6.5"},
		{in: 8.0, want: "8"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in).String(), "Round2(%v)", tt.in)
	}
}

func TestRound3(t *testing.T) {
	assert.InDelta(t, 1.291, Round3(1.2905), 1e-12)
	assert.InDelta(t, 0.0, Round3(0), 1e-12)
}

func TestNewDimensionScoresClampsAndRounds(t *testing.T) {
	s := NewDimensionScores(12.0, 0.5, 7.128, 5.0)

	assert.Equal(t, "10", s.Novelty.String())
	assert.Equal(t, "1", s.Structure.String())
	assert.Equal(t, "7.13", s.Thoroughness.String())
	assert.Equal(t, "5", s.Clarity.String())
}

func TestDimensionScoresValueOrder(t *testing.T) {
	s := NewDimensionScores(1, 2, 3, 4)

	got := make([]string, 0, 4)
	for _, d := range Dimensions() {
		got = append(got, s.Value(d).String())
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, got,
		"canonical dimension order is novelty, structure, thoroughness, clarity")
}

func TestNewDimensionWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights [4]float64
		wantErr bool
	}{
		{name: "exact sum", weights: [4]float64{0.25, 0.25, 0.25, 0.25}},
		{name: "within tolerance", weights: [4]float64{0.2, 0.2, 0.4, 0.2 + 5e-7}},
		{name: "sum too low", weights: [4]float64{0.2, 0.2, 0.2, 0.2}, wantErr: true},
		{name: "sum too high", weights: [4]float64{0.5, 0.5, 0.5, 0.5}, wantErr: true},
		{name: "negative weight", weights: [4]float64{-0.25, 0.5, 0.5, 0.25}, wantErr: true},
		{name: "NaN weight", weights: [4]float64{math.NaN(), 0.25, 0.25, 0.25}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDimensionWeights(tt.weights[0], tt.weights[1], tt.weights[2], tt.weights[3])
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidWeights)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPersonaWeightedScore(t *testing.T) {
	p := Persona{
		ID:      "test",
		Weights: MustDimensionWeights(0.20, 0.20, 0.40, 0.20),
	}
	s := NewDimensionScores(8, 6, 9, 7)

	// 8*0.2 + 6*0.2 + 9*0.4 + 7*0.2 = 1.6 + 1.2 + 3.6 + 1.4 = 7.8
	assert.True(t, p.WeightedScore(s).Equal(decimal.RequireFromString("7.8")),
		"got %s", p.WeightedScore(s))
}

func TestPersonaWeightedScoreEqualWeights(t *testing.T) {
	p := Persona{
		ID:      "flat",
		Weights: MustDimensionWeights(0.25, 0.25, 0.25, 0.25),
	}
	s := NewDimensionScores(9, 8, 7, 2)

	assert.True(t, p.WeightedScore(s).Equal(decimal.RequireFromString("6.5")),
		"got %s", p.WeightedScore(s))
}

func TestParseAggregationMethod(t *testing.T) {
	for _, valid := range []string{"mean", "median", "trimmed_mean", "weighted_mean"} {
		m, err := ParseAggregationMethod(valid)
		require.NoError(t, err)
		assert.Equal(t, AggregationMethod(valid), m)
	}

	_, err := ParseAggregationMethod("mode")
	require.ErrorIs(t, err, ErrUnknownMethod)

	_, err = ParseAggregationMethod("")
	require.ErrorIs(t, err, ErrUnknownMethod)
}
