package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"

	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

// task is one (provider, persona) pairing in construction order. The
// index re-establishes deterministic ordering after the concurrent
// fan-out joins.
type task struct {
	index    int
	provider ports.ScoringProvider
	persona  domain.Persona
}

// taskOutcome carries one finished task back to the collector.
type taskOutcome struct {
	index  int
	result domain.IndividualResult
}

// Orchestrator drives the full evaluation of content units: task
// construction, concurrent dispatch, fault-isolated collection,
// aggregation, and the publish/reject decision. One Evaluation entity
// exists per content unit; repeated calls for the same unit reuse it.
type Orchestrator struct {
	config     Config
	aggregator ports.Aggregator
	judgeModel string

	personaNames map[string]string

	mu          sync.Mutex
	evaluations map[string]*domain.Evaluation
}

// NewOrchestrator validates the configuration and builds an
// orchestrator. aggregator may be nil, in which case the default
// Aggregator over the configured personas is used.
func NewOrchestrator(config Config, aggregator ports.Aggregator) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Persona, len(config.Personas))
	names := make(map[string]string, len(config.Personas))
	for _, p := range config.Personas {
		byID[p.ID] = p
		names[p.ID] = p.Name
	}

	if aggregator == nil {
		aggregator = NewAggregator(func(id string) (domain.Persona, bool) {
			p, ok := byID[id]
			return p, ok
		})
	}

	providerNames := make([]string, len(config.Providers))
	for i, p := range config.Providers {
		providerNames[i] = p.Name()
	}

	return &Orchestrator{
		config:       config,
		aggregator:   aggregator,
		judgeModel:   "multi:" + strings.Join(providerNames, ","),
		personaNames: names,
		evaluations:  make(map[string]*domain.Evaluation),
	}, nil
}

// Evaluate runs the full evaluator panel against one content unit and
// returns its Evaluation. A run where every task failed returns a FAILED
// evaluation and a nil error; per-task failures are data. The returned
// error is reserved for configuration problems, illegal state
// transitions, and unexpected internal failures.
func (o *Orchestrator) Evaluate(ctx context.Context, unit *domain.ContentUnit) (eval *domain.Evaluation, err error) {
	start := time.Now()
	logger := o.config.logger().With("content_unit", unit.ID)

	eval = o.getOrCreate(unit.ID)

	// One recovery point for anything not already converted into a
	// per-task failure. The unit is rejected so a crashed run never
	// leaves content in limbo.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("evaluation panicked", "panic", r)
			msg := fmt.Sprintf("internal error: %v", r)
			if eval.Status == domain.EvaluationInProgress {
				_ = eval.Fail(time.Now(), msg)
			}
			o.applyDecision(ctx, logger, unit, domain.Decision{
				Publish:   false,
				Threshold: o.config.threshold(),
			})
			err = domain.NewEvaluationError(unit.ID, fmt.Errorf("%s", msg))
		}
	}()

	if err := eval.Start(start); err != nil {
		return eval, domain.NewEvaluationError(unit.ID, err)
	}
	eval.JudgeModel = o.judgeModel

	tasks := o.buildTasks()
	if len(tasks) == 0 {
		_ = eval.Fail(time.Now(), domain.ErrEmptyTaskSet.Error())
		return eval, domain.NewEvaluationError(unit.ID, domain.ErrEmptyTaskSet)
	}

	logger.Info("evaluation started",
		"tasks", len(tasks),
		"providers", len(o.config.Providers),
		"personas", len(o.config.Personas),
		"method", o.config.Method,
	)

	results := o.runTasks(ctx, tasks, unit)
	eval.Results = results
	o.recordTaskMetrics(results)

	successes := 0
	for _, r := range results {
		if r.Success {
			successes++
		}
	}

	if successes == 0 {
		_ = eval.Fail(time.Now(), "all evaluators failed")
		logger.Warn("evaluation failed", "reason", "all evaluators failed", "tasks", len(tasks))
		o.recordEvaluation("failed", "none", nil)
		return eval, nil
	}

	aggregated, aggErr := o.aggregator.Aggregate(results, o.config.Method)
	if aggErr != nil {
		_ = eval.Fail(time.Now(), aggErr.Error())
		return eval, domain.NewEvaluationError(unit.ID, aggErr)
	}

	feedback := CombineFeedback(results, o.personaName, aggregated)
	if err := eval.Complete(time.Now(), aggregated, feedback); err != nil {
		return eval, domain.NewEvaluationError(unit.ID, err)
	}

	decision := domain.Decision{
		Publish:   aggregated.Overall.GreaterThanOrEqual(o.config.threshold()),
		Threshold: o.config.threshold(),
		Score:     aggregated.Overall,
	}
	o.applyDecision(ctx, logger, unit, decision)

	logger.Info("evaluation completed",
		"overall_score", aggregated.Overall.StringFixed(2),
		"successful", aggregated.SuccessfulCount,
		"attempted", aggregated.EvaluatorCount,
		"publish", decision.Publish,
		"duration", time.Since(start),
	)
	o.recordEvaluation("completed", decisionLabel(decision), aggregated)
	if o.config.Metrics != nil {
		o.config.Metrics.RecordLatency("evaluate_batch", time.Since(start), nil)
	}

	return eval, nil
}

// Get returns the evaluation for a content unit, if one was started.
func (o *Orchestrator) Get(contentUnitID string) (*domain.Evaluation, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	eval, ok := o.evaluations[contentUnitID]
	return eval, ok
}

func (o *Orchestrator) getOrCreate(contentUnitID string) *domain.Evaluation {
	o.mu.Lock()
	defer o.mu.Unlock()

	if eval, ok := o.evaluations[contentUnitID]; ok {
		return eval
	}
	eval := domain.NewEvaluation(contentUnitID)
	o.evaluations[contentUnitID] = eval
	return eval
}

// buildTasks produces the cartesian product of providers and personas.
// Provider-major order defines the canonical task order used for
// breakdowns and feedback.
func (o *Orchestrator) buildTasks() []task {
	tasks := make([]task, 0, len(o.config.Providers)*len(o.config.Personas))
	for _, provider := range o.config.Providers {
		for _, persona := range o.config.Personas {
			tasks = append(tasks, task{
				index:    len(tasks),
				provider: provider,
				persona:  persona,
			})
		}
	}
	return tasks
}

// runTasks dispatches all tasks concurrently and joins them, preserving
// construction order in the returned slice. Each task has an explicit
// recovery boundary so a panicking provider fails only its own slot.
// When the batch timeout expires, tasks still pending are recorded as
// failures for those slots only; late completions are discarded.
func (o *Orchestrator) runTasks(ctx context.Context, tasks []task, unit *domain.ContentUnit) []domain.IndividualResult {
	noveltyContext := ""
	if o.config.Novelty != nil {
		noveltyContext = o.config.Novelty.Context(ctx, unit)
	}
	userPrompt := BuildUserPrompt(*unit, noveltyContext)

	systemPrompts := make(map[string]string, len(o.config.Personas))
	for _, p := range o.config.Personas {
		systemPrompts[p.ID] = BuildSystemPrompt(p)
	}

	taskCtx := ctx
	var cancel context.CancelFunc
	if o.config.BatchTimeout > 0 {
		taskCtx, cancel = context.WithTimeout(ctx, o.config.BatchTimeout)
		defer cancel()
	}

	// Buffered to task count so late finishers never block after the
	// collector has given up on them.
	outcomes := make(chan taskOutcome, len(tasks))

	var sem *semaphore.Weighted
	if o.config.MaxConcurrency > 0 {
		sem = semaphore.NewWeighted(int64(o.config.MaxConcurrency))
	}

	for _, t := range tasks {
		t := t
		go func() {
			if sem != nil {
				if err := sem.Acquire(taskCtx, 1); err != nil {
					outcomes <- taskOutcome{
						index:  t.index,
						result: timeoutResult(t),
					}
					return
				}
				defer sem.Release(1)
			}

			defer func() {
				if r := recover(); r != nil {
					outcomes <- taskOutcome{
						index: t.index,
						result: domain.IndividualResult{
							Provider:  t.provider.Name(),
							PersonaID: t.persona.ID,
							Error:     fmt.Sprintf("panic: %v", r),
						},
					}
				}
			}()

			outcomes <- taskOutcome{
				index:  t.index,
				result: runTask(taskCtx, t.provider, t.persona, systemPrompts[t.persona.ID], userPrompt),
			}
		}()
	}

	results := make([]domain.IndividualResult, len(tasks))
	received := make([]bool, len(tasks))

	var deadline <-chan time.Time
	if o.config.BatchTimeout > 0 {
		timer := time.NewTimer(o.config.BatchTimeout)
		defer timer.Stop()
		deadline = timer.C
	}

	remaining := len(tasks)
	for remaining > 0 {
		select {
		case out := <-outcomes:
			if !received[out.index] {
				results[out.index] = out.result
				received[out.index] = true
				remaining--
			}
		case <-deadline:
			for _, t := range tasks {
				if !received[t.index] {
					results[t.index] = timeoutResult(t)
					received[t.index] = true
					remaining--
				}
			}
		}
	}

	return results
}

func timeoutResult(t task) domain.IndividualResult {
	return domain.IndividualResult{
		Provider:  t.provider.Name(),
		PersonaID: t.persona.ID,
		Error:     "evaluation batch timeout",
	}
}

func (o *Orchestrator) personaName(id string) string {
	if name, ok := o.personaNames[id]; ok {
		return name
	}
	return id
}

// applyDecision hands the publish/reject signal to the content-lifecycle
// collaborator. Lifecycle failures are logged, not propagated; the
// evaluation outcome itself is already final.
func (o *Orchestrator) applyDecision(ctx context.Context, logger *slog.Logger, unit *domain.ContentUnit, decision domain.Decision) {
	if o.config.Lifecycle == nil {
		return
	}

	var err error
	if decision.Publish {
		err = o.config.Lifecycle.MarkPublished(ctx, unit, decision)
	} else {
		err = o.config.Lifecycle.MarkRejected(ctx, unit, decision)
	}
	if err != nil {
		logger.Error("apply publish decision", "publish", decision.Publish, "error", err)
	}
}

func (o *Orchestrator) recordTaskMetrics(results []domain.IndividualResult) {
	if o.config.Metrics == nil {
		return
	}
	for _, r := range results {
		status := "success"
		if !r.Success {
			status = "failed"
		}
		o.config.Metrics.RecordCounter("evaluator_tasks_total", 1, map[string]string{
			"provider": r.Provider,
			"persona":  r.PersonaID,
			"status":   status,
		})
	}
}

func (o *Orchestrator) recordEvaluation(status, decision string, aggregated *domain.AggregatedScore) {
	if o.config.Metrics == nil {
		return
	}
	o.config.Metrics.RecordCounter("evaluations_total", 1, map[string]string{
		"status":   status,
		"decision": decision,
	})
	if aggregated != nil {
		overall, _ := aggregated.Overall.Float64()
		o.config.Metrics.RecordHistogram("evaluation_overall_score", overall, map[string]string{
			"method": string(aggregated.Method),
		})
	}
}

func decisionLabel(d domain.Decision) string {
	if d.Publish {
		return "publish"
	}
	return "reject"
}

// Threshold returns the effective publish threshold.
func (o *Orchestrator) Threshold() decimal.Decimal { return o.config.threshold() }
