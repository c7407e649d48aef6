package llm

import (
	"context"
	"time"
)

// timeoutLLM enforces a per-request deadline so a stuck provider call
// cannot hold an evaluator slot indefinitely.
type timeoutLLM struct {
	next    CoreLLM
	timeout time.Duration
}

// TimeoutMiddleware bounds every request with the given timeout.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &timeoutLLM{next: next, timeout: timeout}
	}
}

func (t *timeoutLLM) DoRequest(ctx context.Context, systemPrompt, userPrompt string, opts map[string]any) (string, int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DoRequest(ctx, systemPrompt, userPrompt, opts)
}

func (t *timeoutLLM) GetModel() string { return t.next.GetModel() }
