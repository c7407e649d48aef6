// Package ports defines the interfaces between the evaluation engine and
// its infrastructure collaborators. These interfaces enable dependency
// inversion and make the orchestrator testable without live providers.
package ports

import (
	"context"

	"github.com/ahrav/go-quorum/internal/domain"
)

// RawDimension is one dimension's entry in a provider's parsed response
// before numeric validation. Score is kept as a raw JSON value because
// providers occasionally return numbers as strings; the runner coerces it.
type RawDimension struct {
	// Score is the raw score value as decoded from JSON; may be a
	// float64, a string, or nil when the provider omitted it.
	Score any

	// Feedback is the evaluator's commentary for this dimension.
	Feedback string

	// Present reports whether the provider included this dimension at all.
	Present bool
}

// RawEvaluation is a provider response after structural parsing but before
// score coercion and clamping.
type RawEvaluation struct {
	// Dimensions maps each quality dimension to its raw entry.
	Dimensions map[domain.Dimension]RawDimension

	// OverallSummary is the evaluator's free-form overall assessment.
	OverallSummary string
}

// ScoringProvider is the engine's contract with one scoring backend.
// The engine is provider-agnostic: any implementation satisfying this
// contract can participate in an evaluation. Implementations must be safe
// for concurrent use, as the orchestrator fans every (provider, persona)
// pairing out in parallel.
type ScoringProvider interface {
	// Name returns the provider's registry name, e.g. "openai".
	Name() string

	// Model returns the underlying model identifier for bookkeeping.
	Model() string

	// Evaluate sends the system/user prompt pair to the backend and
	// returns the raw response text. Transport failures, timeouts, and
	// empty responses are returned as errors.
	Evaluate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Parse extracts the structured evaluation from raw response text.
	// It fails only when the response as a whole is unusable (no JSON,
	// invalid JSON); individual missing dimensions are reported via
	// RawDimension.Present and left for the caller to default.
	Parse(raw string) (RawEvaluation, error)
}

// LLMClient abstracts a configured language-model transport. Every scoring
// request pairs a persona system prompt with the content prompt, so the
// system prompt is first-class in the signature rather than an option.
type LLMClient interface {
	// Evaluate sends a system/user prompt pair and returns the generated
	// text. Implementations handle provider-specific formatting, rate
	// limiting, retries, and timeouts.
	Evaluate(ctx context.Context, systemPrompt, userPrompt string, options map[string]any) (string, error)

	// EstimateTokens approximates the token count of text for cost
	// estimation before a request is made.
	EstimateTokens(text string) (int, error)

	// GetModel returns the model identifier used by this client.
	GetModel() string
}

// ContentLifecycle is the external collaborator that applies publish and
// reject decisions to content units. The engine computes the decision; the
// lifecycle owns the side effect.
type ContentLifecycle interface {
	// MarkPublished records that the unit met the publish threshold.
	MarkPublished(ctx context.Context, unit *domain.ContentUnit, decision domain.Decision) error

	// MarkRejected records that the unit fell below the threshold, or
	// that its evaluation failed.
	MarkRejected(ctx context.Context, unit *domain.ContentUnit, decision domain.Decision) error
}

// NoveltyAssessor compares a submission against prior content and renders
// a short context block for the evaluator prompt. An empty string means no
// context is available and the prompt omits the section.
type NoveltyAssessor interface {
	Context(ctx context.Context, unit *domain.ContentUnit) string
}

// Aggregator reduces a set of individual results into one aggregated
// score using the selected method. The orchestrator depends on this
// interface so tests can observe whether aggregation was invoked.
type Aggregator interface {
	Aggregate(results []domain.IndividualResult, method domain.AggregationMethod) (*domain.AggregatedScore, error)
}
