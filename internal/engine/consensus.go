package engine

import (
	"fmt"
	"strings"

	"github.com/ahrav/go-quorum/internal/domain"
)

// Agreement labels derived from fixed max_disagreement thresholds.
const (
	agreementStrong      = "strong agreement"
	agreementModerate    = "moderate agreement"
	agreementSome        = "some disagreement"
	agreementSignificant = "significant disagreement"
)

// AgreementLabel maps a max_disagreement value to its qualitative label.
func AgreementLabel(maxDisagreement float64) string {
	switch {
	case maxDisagreement <= 1.0:
		return agreementStrong
	case maxDisagreement <= 2.0:
		return agreementModerate
	case maxDisagreement <= 3.0:
		return agreementSome
	default:
		return agreementSignificant
	}
}

// Summarize renders a deterministic human-readable consensus summary
// from an aggregated score. Pure function of its inputs; identical
// inputs always produce identical text.
func Summarize(aggregated *domain.AggregatedScore) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Consensus from %d of %d evaluators (%s): overall %s/10.\n",
		aggregated.SuccessfulCount,
		aggregated.EvaluatorCount,
		aggregated.Method,
		aggregated.Overall.StringFixed(2),
	)
	fmt.Fprintf(&b, "Score spread: std dev %.3f, max disagreement %.2f (%s).\n",
		aggregated.ScoreStdDev,
		aggregated.MaxDisagreement,
		AgreementLabel(aggregated.MaxDisagreement),
	)

	b.WriteString("Evaluator breakdown:")
	for _, e := range aggregated.Breakdown {
		fmt.Fprintf(&b, "\n- %s/%s: %s", e.Provider, e.Persona, e.WeightedScore.StringFixed(2))
	}

	return b.String()
}

// CombineFeedback merges the per-dimension commentary of all successful
// results, labeled by persona and provider, in the given (task) order.
// The OverallSummary field carries the consensus summary.
func CombineFeedback(results []domain.IndividualResult, personaName func(id string) string, aggregated *domain.AggregatedScore) domain.DimensionFeedback {
	var combined domain.DimensionFeedback

	for _, d := range domain.Dimensions() {
		var parts []string
		for _, r := range results {
			if !r.Success {
				continue
			}
			text := r.Feedback.Value(d)
			if text == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("**%s** (%s): %s", personaName(r.PersonaID), r.Provider, text))
		}
		joined := strings.Join(parts, "\n\n")

		switch d {
		case domain.DimensionNovelty:
			combined.Novelty = joined
		case domain.DimensionStructure:
			combined.Structure = joined
		case domain.DimensionThoroughness:
			combined.Thoroughness = joined
		case domain.DimensionClarity:
			combined.Clarity = joined
		}
	}

	combined.OverallSummary = Summarize(aggregated)
	return combined
}
