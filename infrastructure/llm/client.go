// Package llm provides a unified client for the LLM providers used as
// evaluators, with cross-cutting concerns composed as middleware.
//
// Providers (OpenAI, Anthropic, Google) implement the small CoreLLM
// interface; rate limiting, retries, timeouts, metrics, and tracing wrap
// any conforming implementation without the providers knowing about them.
//
// Basic usage:
//
//	client, err := llm.NewClient("openai", llm.ClientConfig{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-4o",
//	})
//	response, err := client.Evaluate(ctx, systemPrompt, userPrompt, nil)
//
// With middleware:
//
//	client, err := llm.NewClient("anthropic", llm.ClientConfig{
//	    APIKey: os.Getenv("ANTHROPIC_API_KEY"),
//	    Model:  "claude-sonnet-4-20250514",
//	    Middleware: []llm.Middleware{
//	        llm.RateLimitMiddleware(10, 20),
//	        llm.RetryMiddleware(3, time.Second, 30*time.Second),
//	    },
//	})
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ahrav/go-quorum/internal/ports"
)

// CoreLLM is the minimal surface a provider must implement. The system
// prompt is a first-class argument because every evaluator request
// carries persona instructions; providers that lack a native system role
// fold it into the user message themselves.
type CoreLLM interface {
	// DoRequest sends one completion request and returns the response
	// text plus input and output token counts. opts carries optional
	// provider parameters such as temperature and max_tokens.
	DoRequest(
		ctx context.Context,
		systemPrompt, userPrompt string,
		opts map[string]any,
	) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the configured model name.
	GetModel() string
}

// TokenEstimator approximates token counts for budgeting and rate
// limiting when exact tokenizer counts are unavailable.
type TokenEstimator interface {
	EstimateTokens(text string) int
}

// Middleware wraps a CoreLLM to add cross-cutting behavior such as
// retries or metrics without touching provider code.
type Middleware func(CoreLLM) CoreLLM

// ClientConfig holds everything needed to build a provider client.
type ClientConfig struct {
	// APIKey authenticates requests to the provider.
	APIKey string

	// Model selects the provider model.
	Model string

	// BaseURL overrides the provider's default endpoint; empty uses the
	// default.
	BaseURL string

	// Timeout bounds each request; zero means no per-request timeout.
	Timeout time.Duration

	// TokenEstimator overrides the default character-based estimator.
	TokenEstimator TokenEstimator

	// Middleware is applied in order, first entry outermost.
	Middleware []Middleware
}

// Client adapts a middleware-wrapped CoreLLM to the ports.LLMClient
// interface the scoring layer consumes.
type Client struct {
	core      CoreLLM
	estimator TokenEstimator
}

var _ ports.LLMClient = (*Client)(nil)

// NewClient builds a client for the named provider type, assembling the
// middleware chain and validating required configuration.
func NewClient(providerType string, config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	factory, ok := providerFactories[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider type %q", providerType)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", providerType, err)
	}

	// The per-request timeout sits innermost so retry middleware sees a
	// fresh deadline on every attempt.
	if config.Timeout > 0 {
		core = TimeoutMiddleware(config.Timeout)(core)
	}

	// Apply in reverse so the first configured middleware is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	estimator := config.TokenEstimator
	if estimator == nil {
		estimator = NewTokenCounter()
	}

	return &Client{core: core, estimator: estimator}, nil
}

// Evaluate sends one evaluation request and returns the raw response
// text. Token usage is tracked via middleware; callers that need counts
// use EvaluateWithUsage.
func (c *Client) Evaluate(ctx context.Context, systemPrompt, userPrompt string, options map[string]any) (string, error) {
	response, _, _, err := c.EvaluateWithUsage(ctx, systemPrompt, userPrompt, options)
	return response, err
}

// EvaluateWithUsage sends one evaluation request and returns the
// response text with input and output token counts.
func (c *Client) EvaluateWithUsage(
	ctx context.Context,
	systemPrompt, userPrompt string,
	options map[string]any,
) (string, int, int, error) {
	return c.core.DoRequest(ctx, systemPrompt, userPrompt, options)
}

// EstimateTokens approximates the token count of text using the
// configured estimator.
func (c *Client) EstimateTokens(text string) (int, error) {
	return c.estimator.EstimateTokens(text), nil
}

// GetModel returns the configured model name of the underlying provider.
func (c *Client) GetModel() string { return c.core.GetModel() }

// ProviderFactory builds a CoreLLM from configuration. Registered
// factories let the registry instantiate providers by name.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a provider factory under a type
// name. Called from provider init functions.
func RegisterProviderFactory(providerType string, factory ProviderFactory) {
	providerFactories[providerType] = factory
}
