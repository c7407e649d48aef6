// Package scoring adapts LLM clients to the ports.ScoringProvider
// interface the evaluation engine consumes. It owns response parsing:
// extracting the JSON verdict from free-form model output and reading
// per-dimension scores and feedback from it.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ahrav/go-quorum/infrastructure/llm"
	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

// Provider implements ports.ScoringProvider over an LLM client.
type Provider struct {
	name   string
	client ports.LLMClient
	opts   map[string]any
}

var _ ports.ScoringProvider = (*Provider)(nil)

// NewProvider wraps an LLM client as a scoring provider. opts carries
// provider request parameters applied to every evaluation, such as
// temperature and max_tokens; nil uses provider defaults.
func NewProvider(name string, client ports.LLMClient, opts map[string]any) *Provider {
	return &Provider{name: name, client: client, opts: opts}
}

// Name returns the provider label used in breakdowns and feedback.
func (p *Provider) Name() string { return p.name }

// Model returns the underlying model identifier.
func (p *Provider) Model() string { return p.client.GetModel() }

// Evaluate sends one scoring request and returns the raw response text.
func (p *Provider) Evaluate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.client.Evaluate(ctx, systemPrompt, userPrompt, p.opts)
}

// dimensionEntry is the JSON shape of one scored dimension. Score stays
// untyped because models return numbers, numeric strings, or garbage;
// coercion and defaulting are the engine's responsibility.
type dimensionEntry struct {
	Score    any    `json:"score"`
	Feedback string `json:"feedback"`
}

// evaluationResponse is the full JSON verdict shape.
type evaluationResponse struct {
	Novelty        *dimensionEntry `json:"novelty"`
	Structure      *dimensionEntry `json:"structure"`
	Thoroughness   *dimensionEntry `json:"thoroughness"`
	Clarity        *dimensionEntry `json:"clarity"`
	OverallSummary string          `json:"overall_summary"`
}

// Parse extracts the JSON verdict from a raw model response. A response
// with no parseable JSON object is an error and fails the task; a
// missing dimension is reported with Present=false so the engine can
// substitute the neutral score.
func (p *Provider) Parse(raw string) (ports.RawEvaluation, error) {
	jsonStr := ExtractJSON(raw)
	if jsonStr == "" {
		return ports.RawEvaluation{}, fmt.Errorf(
			"provider %s: no JSON object found in response (%d chars)", p.name, len(raw))
	}

	var resp evaluationResponse
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return ports.RawEvaluation{}, fmt.Errorf(
			"provider %s: parse response JSON: %w", p.name, err)
	}

	out := ports.RawEvaluation{
		Dimensions:     make(map[domain.Dimension]ports.RawDimension, 4),
		OverallSummary: resp.OverallSummary,
	}
	for d, entry := range map[domain.Dimension]*dimensionEntry{
		domain.DimensionNovelty:      resp.Novelty,
		domain.DimensionStructure:    resp.Structure,
		domain.DimensionThoroughness: resp.Thoroughness,
		domain.DimensionClarity:      resp.Clarity,
	} {
		if entry == nil {
			out.Dimensions[d] = ports.RawDimension{Present: false}
			continue
		}
		out.Dimensions[d] = ports.RawDimension{
			Score:    entry.Score,
			Feedback: entry.Feedback,
			Present:  true,
		}
	}

	return out, nil
}

// FromRegistry builds scoring providers for the named provider specs
// using the given client registry. Provider order is preserved; an
// unresolvable spec fails the whole set, since a silently missing
// evaluator would skew every aggregate.
func FromRegistry(registry *llm.Registry, specs []string, opts map[string]any) ([]ports.ScoringProvider, error) {
	providers := make([]ports.ScoringProvider, 0, len(specs))
	for _, spec := range specs {
		client, err := registry.GetClient(spec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnknownProvider, spec, err)
		}
		providers = append(providers, NewProvider(providerName(spec), client, opts))
	}
	return providers, nil
}

func providerName(spec string) string {
	for i := 0; i < len(spec); i++ {
		if spec[i] == '/' {
			return spec[:i]
		}
	}
	return spec
}
