// Package config loads application settings from environment variables.
// Provider API keys are not handled here; the llm registry reads those
// through its own per-provider env vars.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-quorum/internal/domain"
)

var validate = validator.New()

// Settings are the engine's environment-driven knobs. Every field has a
// default, so an empty environment yields a working configuration for
// whichever providers have keys set.
type Settings struct {
	// Providers lists enabled scoring backends, optionally with a model
	// as "provider/model". Empty enables every provider with an API key.
	Providers []string `env:"QUORUM_PROVIDERS" envSeparator:","`

	// Personas lists enabled reviewer archetypes by ID. Empty applies
	// the default panel.
	Personas []string `env:"QUORUM_PERSONAS" envSeparator:","`

	// PersonaFile optionally points at a YAML persona catalog overlay.
	PersonaFile string `env:"QUORUM_PERSONA_FILE"`

	// Method selects the aggregation strategy.
	Method string `env:"QUORUM_AGGREGATION_METHOD" envDefault:"median"`

	// PublishThreshold is the minimum overall score for publication.
	PublishThreshold float64 `env:"QUORUM_PUBLISH_THRESHOLD" envDefault:"3.0" validate:"gte=1,lte=10"`

	// BatchTimeout bounds one evaluation run; zero disables the bound.
	BatchTimeout time.Duration `env:"QUORUM_BATCH_TIMEOUT" envDefault:"5m" validate:"gte=0"`

	// MaxConcurrency caps in-flight evaluator tasks; zero is unbounded.
	MaxConcurrency int `env:"QUORUM_MAX_CONCURRENCY" envDefault:"0" validate:"gte=0"`

	// RequestTimeout bounds a single provider request.
	RequestTimeout time.Duration `env:"QUORUM_REQUEST_TIMEOUT" envDefault:"60s" validate:"gt=0"`
}

// Load parses settings from the environment and validates them.
func Load() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks ranges and that the aggregation method is recognized.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if _, err := domain.ParseAggregationMethod(s.Method); err != nil {
		return fmt.Errorf("settings: method %q: %w", s.Method, err)
	}
	return nil
}

// AggregationMethod returns the validated method. Call Validate first.
func (s *Settings) AggregationMethod() domain.AggregationMethod {
	return domain.AggregationMethod(s.Method)
}
