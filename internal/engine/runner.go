package engine

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

// runTask executes a single (provider, persona) evaluation. Any failure
// past this point is captured into the result; nothing escapes to the
// orchestrator as an error. Coercion failures on individual dimensions
// substitute the neutral score; only a whole-response transport or parse
// failure fails the task.
func runTask(
	ctx context.Context,
	provider ports.ScoringProvider,
	persona domain.Persona,
	systemPrompt, userPrompt string,
) domain.IndividualResult {
	start := time.Now()

	result := domain.IndividualResult{
		Provider:  provider.Name(),
		Model:     provider.Model(),
		PersonaID: persona.ID,
	}

	raw, err := provider.Evaluate(ctx, systemPrompt, userPrompt)
	if err != nil {
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	parsed, err := provider.Parse(raw)
	if err != nil {
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	scores, feedback := extractDimensions(parsed)
	result.Scores = scores
	result.Feedback = feedback
	result.WeightedScore = persona.WeightedScore(scores)
	result.Success = true
	result.Duration = time.Since(start)
	return result
}

// extractDimensions converts a parsed raw evaluation into validated
// scores and feedback. Missing or uncoercible dimensions fall back to
// the neutral score with empty feedback.
func extractDimensions(parsed ports.RawEvaluation) (domain.DimensionScores, domain.DimensionFeedback) {
	values := make(map[domain.Dimension]float64, 4)
	texts := make(map[domain.Dimension]string, 4)

	for _, d := range domain.Dimensions() {
		entry, ok := parsed.Dimensions[d]
		if !ok || !entry.Present {
			values[d] = domain.NeutralDimensionScore
			continue
		}

		score, ok := coerceScore(entry.Score)
		if !ok {
			score = domain.NeutralDimensionScore
		}
		values[d] = score
		texts[d] = entry.Feedback
	}

	scores := domain.NewDimensionScores(
		values[domain.DimensionNovelty],
		values[domain.DimensionStructure],
		values[domain.DimensionThoroughness],
		values[domain.DimensionClarity],
	)
	feedback := domain.DimensionFeedback{
		Novelty:        texts[domain.DimensionNovelty],
		Structure:      texts[domain.DimensionStructure],
		Thoroughness:   texts[domain.DimensionThoroughness],
		Clarity:        texts[domain.DimensionClarity],
		OverallSummary: parsed.OverallSummary,
	}
	return scores, feedback
}

// coerceScore converts whatever the model put in the score field to a
// float64. Models return JSON numbers, integers, or numeric strings like
// "8" or "8/10".
func coerceScore(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(val)
		// Tolerate "8/10" style answers.
		if idx := strings.Index(s, "/"); idx > 0 {
			s = strings.TrimSpace(s[:idx])
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
