package llm

import (
	"fmt"
	"net/url"
	"time"
)

// Valid ranges for common request parameters, shared across providers.
const (
	// MinTemperature and MaxTemperature bound sampling temperature.
	// The upper bound is 2.0 to accommodate Gemini and newer OpenAI models.
	MinTemperature = 0.0
	MaxTemperature = 2.0

	// MinTopP and MaxTopP bound nucleus sampling.
	MinTopP = 0.0
	MaxTopP = 1.0

	// DefaultMaxTokens caps response length when the caller does not
	// specify one. Evaluator responses are structured JSON and short.
	DefaultMaxTokens = 2048

	// MinTimeout and MaxTimeout bound per-request timeouts.
	MinTimeout = 1 * time.Second
	MaxTimeout = 10 * time.Minute
)

// RequestOptions is the normalized form of the per-request option map.
// The system prompt is not part of this struct; it travels as a
// first-class DoRequest argument.
type RequestOptions struct {
	// MaxTokens caps the generated response length.
	MaxTokens int

	// Model overrides the provider's configured model for this request.
	Model string

	// Temperature controls sampling randomness; nil uses the provider
	// default.
	Temperature *float64

	// TopP is nucleus sampling; nil uses the provider default.
	TopP *float64

	// Extra collects provider-specific options not in the standard set.
	Extra map[string]any
}

// ParseRequestOptions normalizes a raw option map, applying defaults for
// missing or invalid entries and collecting unrecognized keys into Extra.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		MaxTokens: extractInt(opts, "max_tokens", DefaultMaxTokens, isPositiveInt),
		Model:     extractString(opts, "model", defaultModel),
		Extra:     make(map[string]any),
	}

	if temp := extractFloat64(opts, "temperature", -1, isValidTemperature); temp != -1 {
		options.Temperature = &temp
	}
	if topP := extractFloat64(opts, "top_p", -1, isValidTopP); topP != -1 {
		options.TopP = &topP
	}

	for k, v := range opts {
		switch k {
		case "max_tokens", "model", "temperature", "top_p":
		default:
			options.Extra[k] = v
		}
	}

	return options
}

func extractInt(opts map[string]any, key string, defaultVal int, valid func(int) bool) int {
	if opts == nil {
		return defaultVal
	}
	val, ok := opts[key].(int)
	if !ok || (valid != nil && !valid(val)) {
		return defaultVal
	}
	return val
}

func extractString(opts map[string]any, key, defaultVal string) string {
	if opts == nil {
		return defaultVal
	}
	val, ok := opts[key].(string)
	if !ok || val == "" {
		return defaultVal
	}
	return val
}

func extractFloat64(opts map[string]any, key string, defaultVal float64, valid func(float64) bool) float64 {
	if opts == nil {
		return defaultVal
	}
	val, ok := opts[key].(float64)
	if !ok || (valid != nil && !valid(val)) {
		return defaultVal
	}
	return val
}

func isPositiveInt(val int) bool { return val > 0 }

func isValidTemperature(val float64) bool {
	return val >= MinTemperature && val <= MaxTemperature
}

func isValidTopP(val float64) bool { return val >= MinTopP && val <= MaxTopP }

// ClampFloat64 restricts val to [min, max].
func ClampFloat64(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampInt restricts val to [min, max].
func ClampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ValidateBaseURL checks that an endpoint override is an absolute http
// or https URL. Empty means "use the provider default" and is valid.
func ValidateBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		return "", nil
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must include a host")
	}
	return parsed.String(), nil
}

// ValidateTimeout clamps a timeout into [MinTimeout, MaxTimeout].
// Zero or negative means "use the default" and passes through as zero.
func ValidateTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 0
	}
	if timeout < MinTimeout {
		return MinTimeout
	}
	if timeout > MaxTimeout {
		return MaxTimeout
	}
	return timeout
}

// SafeFloat32 converts a numeric any to float32, rejecting values that
// would overflow or lose significant precision.
func SafeFloat32(value any) (float32, bool) {
	switch v := value.(type) {
	case float32:
		return v, true
	case float64:
		if v > 3.4e38 || v < -3.4e38 {
			return 0, false
		}
		return float32(v), true
	case int:
		return float32(v), true
	case int64:
		// 2^24 is the largest integer float32 represents exactly.
		if v > 16777216 || v < -16777216 {
			return 0, false
		}
		return float32(v), true
	default:
		return 0, false
	}
}

// TokenCounter estimates token counts from character length. The four
// characters per token ratio is a reasonable approximation for English.
type TokenCounter struct {
	CharactersPerToken float64
}

// NewTokenCounter returns a TokenCounter with the default ratio.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{CharactersPerToken: 4.0}
}

// EstimateTokens approximates the token count of text.
func (tc *TokenCounter) EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return int(float64(len(text)) / tc.CharactersPerToken)
}

// GetTokenCount prefers the provider-reported count, falling back to
// estimation when the API omitted usage data.
func (tc *TokenCounter) GetTokenCount(actualCount int, text string) int {
	if actualCount > 0 {
		return actualCount
	}
	return tc.EstimateTokens(text)
}
