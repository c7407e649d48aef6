package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-quorum/infrastructure/llm"
	"github.com/ahrav/go-quorum/infrastructure/middleware"
	"github.com/ahrav/go-quorum/infrastructure/scoring"
	"github.com/ahrav/go-quorum/internal/config"
	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/engine"
	"github.com/ahrav/go-quorum/internal/personas"
)

var evaluateFlags struct {
	providers   []string
	personas    []string
	method      string
	threshold   float64
	timeout     time.Duration
	concurrency int
	personaFile string
	title       string
	category    string
}

func newEvaluateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate <file>",
		Short: "Evaluate a content file with the full evaluator panel",
		Long: `Evaluate runs every configured provider/persona pairing against the
given file, aggregates the surviving scores, and prints the consensus
summary. The exit code reflects the decision: 0 published, 1 rejected.

Providers are discovered from API key environment variables
(OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY) unless --providers
is given. A provider may carry a model as "provider/model".`,
		Args: cobra.ExactArgs(1),
		RunE: evaluateCommandE,
	}

	cmd.Flags().StringSliceVar(&evaluateFlags.providers, "providers", nil, "Providers to use, e.g. openai,anthropic/claude-sonnet-4-20250514")
	cmd.Flags().StringSliceVar(&evaluateFlags.personas, "personas", nil, "Persona IDs for the panel (default: the built-in panel)")
	cmd.Flags().StringVar(&evaluateFlags.method, "method", "", "Aggregation method: mean, median, trimmed_mean, weighted_mean")
	cmd.Flags().Float64Var(&evaluateFlags.threshold, "threshold", 0, "Publish threshold in [1,10]")
	cmd.Flags().DurationVar(&evaluateFlags.timeout, "timeout", 0, "Whole-batch timeout (0 disables)")
	cmd.Flags().IntVar(&evaluateFlags.concurrency, "concurrency", 0, "Max concurrent evaluator tasks (0 is unbounded)")
	cmd.Flags().StringVar(&evaluateFlags.personaFile, "persona-file", "", "YAML persona catalog overlay")
	cmd.Flags().StringVar(&evaluateFlags.title, "title", "", "Submission title (default: file name)")
	cmd.Flags().StringVar(&evaluateFlags.category, "category", "", "Submission category")

	return cmd
}

func evaluateCommandE(cmd *cobra.Command, args []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	applyEvaluateFlags(cmd, &settings)
	if err := settings.Validate(); err != nil {
		return err
	}

	registry := personas.NewRegistry()
	if evaluateFlags.personaFile != "" {
		if err := registry.LoadFile(evaluateFlags.personaFile); err != nil {
			return fmt.Errorf("loading persona file: %w", err)
		}
	}
	panel, err := registry.Resolve(settings.Personas)
	if err != nil {
		return err
	}

	metrics := middleware.NewPrometheusMetrics()

	llmRegistry := llm.NewRegistry(llm.RegistryConfig{
		DefaultTimeout: settings.RequestTimeout,
		DefaultMiddleware: []llm.Middleware{
			llm.RetryMiddleware(3, time.Second, 30*time.Second),
			llm.MetricsMiddleware(metrics),
			llm.TracingMiddleware("quorum"),
		},
	})

	specs := settings.Providers
	if len(specs) == 0 {
		specs = llmRegistry.Available()
	}
	if len(specs) == 0 {
		return fmt.Errorf("no providers available: set OPENAI_API_KEY, ANTHROPIC_API_KEY, or GOOGLE_API_KEY, or pass --providers")
	}

	providers, err := scoring.FromRegistry(llmRegistry, specs, nil)
	if err != nil {
		return err
	}

	unit, err := loadContentUnit(args[0])
	if err != nil {
		return err
	}

	orch, err := engine.NewOrchestrator(engine.Config{
		Providers:        providers,
		Personas:         panel,
		Method:           settings.AggregationMethod(),
		PublishThreshold: settings.PublishThreshold,
		MaxConcurrency:   settings.MaxConcurrency,
		BatchTimeout:     settings.BatchTimeout,
		Metrics:          metrics,
	}, nil)
	if err != nil {
		return err
	}

	eval, err := orch.Evaluate(cmd.Context(), unit)
	if err != nil {
		return err
	}

	if eval.Status == domain.EvaluationFailed {
		return &RejectionError{Message: fmt.Sprintf("evaluation failed: %s", eval.ErrorMessage)}
	}

	fmt.Println(eval.Feedback.OverallSummary)
	fmt.Println()

	if eval.Score.Overall.GreaterThanOrEqual(orch.Threshold()) {
		fmt.Printf("Decision: PUBLISH (%s >= threshold %s)\n",
			eval.Score.Overall.StringFixed(2), orch.Threshold().StringFixed(2))
		return nil
	}
	return &RejectionError{Message: fmt.Sprintf("Decision: REJECT (%s < threshold %s)",
		eval.Score.Overall.StringFixed(2), orch.Threshold().StringFixed(2))}
}

// applyEvaluateFlags overlays explicitly set flags onto the env settings.
func applyEvaluateFlags(cmd *cobra.Command, settings *config.Settings) {
	if cmd.Flags().Changed("providers") {
		settings.Providers = evaluateFlags.providers
	}
	if cmd.Flags().Changed("personas") {
		settings.Personas = evaluateFlags.personas
	}
	if cmd.Flags().Changed("method") {
		settings.Method = evaluateFlags.method
	}
	if cmd.Flags().Changed("threshold") {
		settings.PublishThreshold = evaluateFlags.threshold
	}
	if cmd.Flags().Changed("timeout") {
		settings.BatchTimeout = evaluateFlags.timeout
	}
	if cmd.Flags().Changed("concurrency") {
		settings.MaxConcurrency = evaluateFlags.concurrency
	}
}

// loadContentUnit reads a file into a pending content unit. The unit ID
// and default title derive from the file name.
func loadContentUnit(path string) (*domain.ContentUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file: %w", err)
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("content file %s is empty", path)
	}

	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	title := evaluateFlags.title
	if title == "" {
		title = id
	}

	return &domain.ContentUnit{
		ID:        id,
		Title:     title,
		Category:  evaluateFlags.category,
		WordCount: len(strings.Fields(content)),
		Content:   content,
		Status:    domain.ContentPending,
	}, nil
}
