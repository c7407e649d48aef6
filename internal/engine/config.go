// Package engine implements the multi-evaluator orchestration and
// aggregation core: it fans one content unit out to every configured
// (provider, persona) pairing concurrently, tolerates individual task
// failures, combines the surviving weighted scores with a selectable
// statistical method, and derives a publish/reject decision.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

var validate = validator.New()

// DefaultPublishThreshold is the minimum overall score for publication
// when the caller configures none.
const DefaultPublishThreshold = 3.0

// Config assembles everything an Orchestrator needs. Providers and
// Personas define the evaluator panel; their cartesian product is the
// task set for every run.
type Config struct {
	// Providers are the scoring backends, in configuration order.
	Providers []ports.ScoringProvider `validate:"min=1"`

	// Personas are the reviewer archetypes, in configuration order.
	Personas []domain.Persona `validate:"min=1"`

	// Method selects the aggregation strategy.
	Method domain.AggregationMethod `validate:"required"`

	// PublishThreshold is the minimum overall score for publication.
	// Zero applies DefaultPublishThreshold.
	PublishThreshold float64 `validate:"gte=0,lte=10"`

	// MaxConcurrency caps in-flight tasks; zero runs the full task set
	// in parallel.
	MaxConcurrency int `validate:"gte=0"`

	// BatchTimeout bounds one whole evaluation run. Tasks still pending
	// at expiry are recorded as per-task failures; the batch itself
	// never aborts. Zero disables the bound.
	BatchTimeout time.Duration `validate:"gte=0"`

	// Lifecycle receives the publish/reject decision. Optional.
	Lifecycle ports.ContentLifecycle

	// Novelty renders a prior-work similarity section for the evaluator
	// prompt. Optional.
	Novelty ports.NoveltyAssessor

	// Metrics receives engine counters and histograms. Optional.
	Metrics ports.MetricsCollector

	// Logger, nil uses slog.Default.
	Logger *slog.Logger
}

// Validate checks structural validity and that the aggregation method is
// recognized.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	if _, err := domain.ParseAggregationMethod(string(c.Method)); err != nil {
		return fmt.Errorf("engine config: method %q: %w", c.Method, err)
	}
	return nil
}

func (c *Config) threshold() decimal.Decimal {
	if c.PublishThreshold == 0 {
		return decimal.NewFromFloat(DefaultPublishThreshold)
	}
	return decimal.NewFromFloat(c.PublishThreshold)
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
