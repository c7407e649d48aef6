package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/personas"
	"github.com/ahrav/go-quorum/internal/ports"
	"github.com/ahrav/go-quorum/internal/testutils"
)

func TestRunTask(t *testing.T) {
	t.Run("success computes the weighted score", func(t *testing.T) {
		provider := testutils.NewMockScoringProvider("alpha").
			Script(testutils.ScriptedVerdict{Scores: [4]float64{8, 6, 9, 7}, Summary: "Solid work."})

		result := runTask(context.Background(), provider, personas.Rigorist, "system", "user")

		require.True(t, result.Success)
		assert.Equal(t, "alpha", result.Provider)
		assert.Equal(t, "rigorist", result.PersonaID)
		assert.Empty(t, result.Error)
		// Rigorist weights 0.2/0.2/0.4/0.2 over 8/6/9/7.
		assert.Equal(t, "7.8", result.WeightedScore.String())
		assert.Equal(t, "Solid work.", result.Feedback.OverallSummary)
		assert.Positive(t, result.Duration)
	})

	t.Run("transport failure fails the task", func(t *testing.T) {
		provider := testutils.NewMockScoringProvider("alpha").
			Script(testutils.ScriptedVerdict{Err: errors.New("rate limited")})

		result := runTask(context.Background(), provider, personas.Rigorist, "system", "user")

		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "rate limited")
	})

	t.Run("cancelled context fails the task", func(t *testing.T) {
		provider := testutils.NewMockScoringProvider("alpha")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result := runTask(ctx, provider, personas.Rigorist, "system", "user")

		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "context canceled")
	})
}

func TestExtractDimensions(t *testing.T) {
	entry := func(score any) ports.RawDimension {
		return ports.RawDimension{Score: score, Feedback: "fb", Present: true}
	}

	t.Run("missing dimension falls back to neutral", func(t *testing.T) {
		parsed := ports.RawEvaluation{
			Dimensions: map[domain.Dimension]ports.RawDimension{
				domain.DimensionNovelty:   entry(8.0),
				domain.DimensionStructure: entry(7.0),
				// thoroughness and clarity absent
			},
			OverallSummary: "partial",
		}

		scores, feedback := extractDimensions(parsed)

		assert.Equal(t, "8", scores.Novelty.String())
		assert.Equal(t, "5", scores.Thoroughness.String())
		assert.Equal(t, "5", scores.Clarity.String())
		assert.Empty(t, feedback.Thoroughness)
		assert.Equal(t, "partial", feedback.OverallSummary)
	})

	t.Run("uncoercible score falls back to neutral", func(t *testing.T) {
		parsed := ports.RawEvaluation{
			Dimensions: map[domain.Dimension]ports.RawDimension{
				domain.DimensionNovelty:      entry("excellent"),
				domain.DimensionStructure:    entry(6.0),
				domain.DimensionThoroughness: entry(6.0),
				domain.DimensionClarity:      entry(6.0),
			},
		}

		scores, _ := extractDimensions(parsed)
		assert.Equal(t, "5", scores.Novelty.String())
	})

	t.Run("out of range scores are clamped", func(t *testing.T) {
		parsed := ports.RawEvaluation{
			Dimensions: map[domain.Dimension]ports.RawDimension{
				domain.DimensionNovelty:      entry(15.0),
				domain.DimensionStructure:    entry(0.0),
				domain.DimensionThoroughness: entry(-3.0),
				domain.DimensionClarity:      entry(10.0),
			},
		}

		scores, _ := extractDimensions(parsed)
		assert.Equal(t, "10", scores.Novelty.String())
		assert.Equal(t, "1", scores.Structure.String())
		assert.Equal(t, "1", scores.Thoroughness.String())
		assert.Equal(t, "10", scores.Clarity.String())
	})
}

func TestCoerceScore(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
		ok    bool
	}{
		{"float64", 7.5, 7.5, true},
		{"int", 8, 8.0, true},
		{"int64", int64(9), 9.0, true},
		{"json number", json.Number("6.5"), 6.5, true},
		{"numeric string", "8", 8.0, true},
		{"string with whitespace", " 7.5 ", 7.5, true},
		{"fraction notation", "8/10", 8.0, true},
		{"prose", "pretty good", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := coerceScore(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
