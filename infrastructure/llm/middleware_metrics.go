package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahrav/go-quorum/internal/ports"
)

// metricsLLM records request latency, outcomes, and token usage per
// provider and model.
type metricsLLM struct {
	next      CoreLLM
	collector ports.MetricsCollector
}

// MetricsMiddleware records request metrics through the given collector.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &metricsLLM{next: next, collector: collector}
	}
}

func (m *metricsLLM) DoRequest(ctx context.Context, systemPrompt, userPrompt string, opts map[string]any) (string, int, int, error) {
	start := time.Now()
	response, tokensIn, tokensOut, err := m.next.DoRequest(ctx, systemPrompt, userPrompt, opts)

	labels := map[string]string{
		"provider": m.providerLabel(),
		"model":    m.next.GetModel(),
		"status":   m.statusLabel(ctx, err),
	}

	if m.collector != nil {
		m.collector.RecordHistogram("llm_latency_seconds", time.Since(start).Seconds(), labels)
		m.collector.RecordCounter("llm_requests_total", 1, labels)

		if err == nil {
			labels["token_type"] = "input"
			m.collector.RecordCounter("llm_tokens_total", float64(tokensIn), labels)

			labels["token_type"] = "output"
			m.collector.RecordCounter("llm_tokens_total", float64(tokensOut), labels)
		}
	}

	return response, tokensIn, tokensOut, err
}

func (m *metricsLLM) statusLabel(ctx context.Context, err error) string {
	if err == nil {
		return "success"
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) && provErr.Type == ErrorTypeRateLimit {
		return "rate_limited"
	}
	if ctx.Err() == context.DeadlineExceeded {
		return "timeout"
	}
	return "error"
}

// providerLabel infers the provider from the model name. The label is
// best-effort and only feeds metrics dimensions.
func (m *metricsLLM) providerLabel() string {
	model := m.next.GetModel()
	switch {
	case strings.Contains(model, "gpt"), strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "o3"):
		return "openai"
	case strings.Contains(model, "claude"):
		return "anthropic"
	case strings.Contains(model, "gemini"):
		return "google"
	}
	return "unknown"
}

func (m *metricsLLM) GetModel() string { return m.next.GetModel() }
