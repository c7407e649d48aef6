package llm

import (
	"context"
	"sync"
)

// MockCoreLLM is a scriptable CoreLLM for middleware and client tests.
// Responses and errors are returned in FIFO order; the last entry
// repeats once the script is exhausted.
type MockCoreLLM struct {
	mu        sync.Mutex
	model     string
	responses []string
	errs      []error
	calls     int

	// LastSystemPrompt and LastUserPrompt capture the most recent
	// request for assertions.
	LastSystemPrompt string
	LastUserPrompt   string
}

// NewMockCoreLLM returns a mock reporting the given model name.
func NewMockCoreLLM(model string) *MockCoreLLM {
	return &MockCoreLLM{model: model}
}

// QueueResponse appends a successful scripted response.
func (m *MockCoreLLM) QueueResponse(response string) *MockCoreLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, response)
	m.errs = append(m.errs, nil)
	return m
}

// QueueError appends a scripted failure.
func (m *MockCoreLLM) QueueError(err error) *MockCoreLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, "")
	m.errs = append(m.errs, err)
	return m
}

// Calls reports how many requests the mock served.
func (m *MockCoreLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockCoreLLM) DoRequest(ctx context.Context, systemPrompt, userPrompt string, opts map[string]any) (string, int, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastSystemPrompt = systemPrompt
	m.LastUserPrompt = userPrompt

	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++

	if idx < 0 {
		return "", 0, 0, nil
	}
	if err := m.errs[idx]; err != nil {
		return "", 0, 0, err
	}

	response := m.responses[idx]
	return response, len(systemPrompt+userPrompt) / 4, len(response) / 4, nil
}

func (m *MockCoreLLM) GetModel() string { return m.model }
