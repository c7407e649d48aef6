package llm

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Registry manages clients for multiple providers with shared defaults.
// Clients are created lazily from environment-supplied API keys and
// cached per provider/model pair, so concurrent evaluation tasks against
// the same provider share one client and its middleware state.
type Registry struct {
	providers         map[string]ProviderConfig
	clients           map[string]*Client
	defaultMiddleware []Middleware
	defaultTimeout    time.Duration
	mu                sync.RWMutex
}

// ProviderConfig describes one provider: its implementation type, API
// key environment variable, and model defaults.
type ProviderConfig struct {
	// Type names the registered provider factory (openai, anthropic,
	// google).
	Type string

	// EnvVar is the environment variable holding the API key.
	EnvVar string

	// DefaultModel is used when a spec names only the provider.
	DefaultModel string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// Middleware is appended after the registry defaults for clients of
	// this provider.
	Middleware []Middleware
}

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Providers maps provider names to their configuration.
	Providers map[string]ProviderConfig

	// DefaultTimeout bounds requests for all providers.
	DefaultTimeout time.Duration

	// DefaultMiddleware is applied to every client, outermost first.
	DefaultMiddleware []Middleware
}

// DefaultProviders is the standard provider set.
var DefaultProviders = map[string]ProviderConfig{
	"openai": {
		Type:         "openai",
		EnvVar:       "OPENAI_API_KEY",
		DefaultModel: OpenAIDefaultModel,
	},
	"anthropic": {
		Type:         "anthropic",
		EnvVar:       "ANTHROPIC_API_KEY",
		DefaultModel: AnthropicDefaultModel,
	},
	"google": {
		Type:         "google",
		EnvVar:       "GOOGLE_API_KEY",
		DefaultModel: GoogleDefaultModel,
	},
}

// NewRegistry creates a registry from the given configuration. A nil
// Providers map uses DefaultProviders.
func NewRegistry(config RegistryConfig) *Registry {
	providers := config.Providers
	if providers == nil {
		providers = DefaultProviders
	}
	return &Registry{
		providers:         providers,
		clients:           make(map[string]*Client),
		defaultMiddleware: config.DefaultMiddleware,
		defaultTimeout:    config.DefaultTimeout,
	}
}

// Available returns the names of configured providers whose API key
// environment variable is set, in sorted order.
func (r *Registry) Available() []string {
	names := make([]string, 0, len(r.providers))
	for name, cfg := range r.providers {
		if os.Getenv(cfg.EnvVar) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// GetClient returns the client for a spec of the form "provider" or
// "provider/model", creating and caching it on first use.
func (r *Registry) GetClient(spec string) (*Client, error) {
	if spec == "" {
		return nil, fmt.Errorf("provider specification cannot be empty")
	}

	provider, model := r.parseSpec(spec)
	key := provider + "/" + model

	r.mu.RLock()
	if client, ok := r.clients[key]; ok {
		r.mu.RUnlock()
		return client, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[key]; ok {
		return client, nil
	}

	client, err := r.createClient(provider, model)
	if err != nil {
		return nil, err
	}

	r.clients[key] = client
	return client, nil
}

func (r *Registry) parseSpec(spec string) (provider, model string) {
	parts := strings.SplitN(spec, "/", 2)
	provider = parts[0]
	if len(parts) > 1 {
		model = parts[1]
	} else if cfg, ok := r.providers[provider]; ok {
		model = cfg.DefaultModel
	}
	return
}

func (r *Registry) createClient(provider, model string) (*Client, error) {
	cfg, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", provider)
	}

	apiKey := os.Getenv(cfg.EnvVar)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable not set for provider %q", cfg.EnvVar, provider)
	}

	middleware := append([]Middleware{}, r.defaultMiddleware...)
	middleware = append(middleware, cfg.Middleware...)

	return NewClient(cfg.Type, ClientConfig{
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    cfg.BaseURL,
		Timeout:    r.defaultTimeout,
		Middleware: middleware,
	})
}