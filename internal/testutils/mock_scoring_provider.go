// Package testutils provides deterministic test doubles for the
// evaluation engine: scriptable scoring providers and recording
// lifecycle collaborators.
package testutils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

// ScriptedVerdict describes the outcome one mock provider returns for a
// given persona, or for every persona when PersonaID is empty.
type ScriptedVerdict struct {
	// PersonaID scopes the verdict; empty matches any persona.
	PersonaID string

	// Scores are the four raw dimension values, in canonical dimension
	// order.
	Scores [4]float64

	// Summary is the overall_summary text in the response.
	Summary string

	// Err makes the Evaluate call fail instead of returning a verdict.
	Err error

	// Delay is applied before responding, for timeout tests.
	Delay time.Duration
}

// MockScoringProvider implements ports.ScoringProvider with scripted
// verdicts. It renders real JSON responses so the production parse path
// is exercised end to end. Safe for concurrent use.
type MockScoringProvider struct {
	name  string
	model string

	mu       sync.Mutex
	verdicts []ScriptedVerdict
	calls    int

	// LastSystemPrompt and LastUserPrompt capture the most recent
	// request for assertions.
	LastSystemPrompt string
	LastUserPrompt   string
}

var _ ports.ScoringProvider = (*MockScoringProvider)(nil)

// NewMockScoringProvider creates a provider with the given name. With no
// scripted verdicts every call returns a uniform 7.0 verdict.
func NewMockScoringProvider(name string) *MockScoringProvider {
	return &MockScoringProvider{name: name, model: name + "-mock-model"}
}

// Script appends a verdict to the provider's script. Verdicts scoped to
// a persona take precedence over unscoped ones.
func (m *MockScoringProvider) Script(v ScriptedVerdict) *MockScoringProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verdicts = append(m.verdicts, v)
	return m
}

// Calls reports how many Evaluate calls the provider served.
func (m *MockScoringProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Name implements ports.ScoringProvider.
func (m *MockScoringProvider) Name() string { return m.name }

// Model implements ports.ScoringProvider.
func (m *MockScoringProvider) Model() string { return m.model }

// Evaluate returns the scripted verdict matching the persona embedded in
// the system prompt, rendered as the production JSON format.
func (m *MockScoringProvider) Evaluate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.LastSystemPrompt = systemPrompt
	m.LastUserPrompt = userPrompt
	verdict := m.match(systemPrompt)
	m.mu.Unlock()

	if verdict.Delay > 0 {
		select {
		case <-time.After(verdict.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if verdict.Err != nil {
		return "", verdict.Err
	}

	return renderResponse(verdict), nil
}

// Parse decodes the JSON this mock renders, mirroring the production
// provider's contract.
func (m *MockScoringProvider) Parse(raw string) (ports.RawEvaluation, error) {
	var resp struct {
		Novelty        *rawDim `json:"novelty"`
		Structure      *rawDim `json:"structure"`
		Thoroughness   *rawDim `json:"thoroughness"`
		Clarity        *rawDim `json:"clarity"`
		OverallSummary string  `json:"overall_summary"`
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return ports.RawEvaluation{}, fmt.Errorf("mock provider %s: parse: %w", m.name, err)
	}

	out := ports.RawEvaluation{
		Dimensions:     make(map[domain.Dimension]ports.RawDimension, 4),
		OverallSummary: resp.OverallSummary,
	}
	for d, entry := range map[domain.Dimension]*rawDim{
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

type rawDim struct {
	Score    any    `json:"score"`
	Feedback string `json:"feedback"`
}

// match picks the first persona-scoped verdict whose ID appears in the
// system prompt, then the first unscoped one, then a default.
func (m *MockScoringProvider) match(systemPrompt string) ScriptedVerdict {
	for _, v := range m.verdicts {
		if v.PersonaID != "" && containsPersona(systemPrompt, v.PersonaID) {
			return v
		}
	}
	for _, v := range m.verdicts {
		if v.PersonaID == "" {
			return v
		}
	}
	return ScriptedVerdict{Scores: [4]float64{7, 7, 7, 7}, Summary: "Default verdict."}
}

func renderResponse(v ScriptedVerdict) string {
	type dim struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}
	payload := map[string]any{
		"novelty":         dim{v.Scores[0], "novelty feedback"},
		"structure":       dim{v.Scores[1], "structure feedback"},
		"thoroughness":    dim{v.Scores[2], "thoroughness feedback"},
		"clarity":         dim{v.Scores[3], "clarity feedback"},
		"overall_summary": v.Summary,
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func containsPersona(systemPrompt, personaID string) bool {
	// Persona IDs also appear in the rendered name ("The Rigorist"), so
	// match case-insensitively on the ID stem.
	return personaID != "" &&
		strings.Contains(strings.ToLower(systemPrompt), strings.ToLower(personaID))
}
