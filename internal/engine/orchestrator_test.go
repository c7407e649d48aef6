package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/personas"
	"github.com/ahrav/go-quorum/internal/ports"
	"github.com/ahrav/go-quorum/internal/testutils"
)

// spyAggregator records whether aggregation was invoked.
type spyAggregator struct {
	called bool
	inner  ports.Aggregator
}

func (s *spyAggregator) Aggregate(results []domain.IndividualResult, method domain.AggregationMethod) (*domain.AggregatedScore, error) {
	s.called = true
	return s.inner.Aggregate(results, method)
}

func testUnit(id string) *domain.ContentUnit {
	return &domain.ContentUnit{
		ID:        id,
		Title:     "On the Care and Feeding of Distributed Queues",
		Category:  "engineering",
		WordCount: 42,
		Content:   "Queues fail quietly. This essay examines why, and what to watch for.",
		Status:    domain.ContentPending,
	}
}

func TestEvaluateEndToEnd(t *testing.T) {
	// Two providers, two personas: four tasks in provider-major order.
	// Three succeed with uniform scores 8.5, 7.0 and 6.0; one errors.
	p1 := testutils.NewMockScoringProvider("alpha").
		Script(testutils.ScriptedVerdict{PersonaID: "rigorist", Scores: [4]float64{8.5, 8.5, 8.5, 8.5}}).
		Script(testutils.ScriptedVerdict{PersonaID: "synthesizer", Scores: [4]float64{7.0, 7.0, 7.0, 7.0}})
	p2 := testutils.NewMockScoringProvider("beta").
		Script(testutils.ScriptedVerdict{PersonaID: "rigorist", Err: errors.New("boom")}).
		Script(testutils.ScriptedVerdict{PersonaID: "synthesizer", Scores: [4]float64{6.0, 6.0, 6.0, 6.0}})

	lifecycle := &testutils.LifecycleRecorder{}

	orch, err := NewOrchestrator(Config{
		Providers: []ports.ScoringProvider{p1, p2},
		Personas:  []domain.Persona{personas.Rigorist, personas.Synthesizer},
		Method:    domain.MethodMedian,
		Lifecycle: lifecycle,
	}, nil)
	require.NoError(t, err)

	unit := testUnit("unit-1")
	eval, err := orch.Evaluate(context.Background(), unit)
	require.NoError(t, err)

	assert.Equal(t, domain.EvaluationCompleted, eval.Status)
	assert.Equal(t, "multi:alpha,beta", eval.JudgeModel)
	require.NotNil(t, eval.Score)
	assert.Equal(t, 4, eval.Score.EvaluatorCount)
	assert.Equal(t, 3, eval.Score.SuccessfulCount)
	assert.True(t, eval.Score.Overall.Equal(decimal.RequireFromString("7")),
		"median of 8.5, 7.0, 6.0 is 7.0, got %s", eval.Score.Overall)
	assert.InDelta(t, 2.5, eval.Score.MaxDisagreement, 1e-9)

	// Results hold all four tasks in construction order; the failure
	// slot carries its error.
	require.Len(t, eval.Results, 4)
	assert.Equal(t, "alpha", eval.Results[0].Provider)
	assert.Equal(t, "rigorist", eval.Results[0].PersonaID)
	assert.Equal(t, "alpha", eval.Results[1].Provider)
	assert.Equal(t, "synthesizer", eval.Results[1].PersonaID)
	assert.Equal(t, "beta", eval.Results[2].Provider)
	assert.False(t, eval.Results[2].Success)
	assert.Contains(t, eval.Results[2].Error, "boom")
	assert.Equal(t, "beta", eval.Results[3].Provider)

	// 7.0 clears the default threshold of 3.0.
	require.Len(t, lifecycle.Published, 1)
	assert.Empty(t, lifecycle.Rejected)
	assert.Equal(t, domain.ContentPublished, unit.Status)
	assert.NotEmpty(t, eval.Feedback.OverallSummary)
}

func TestEvaluateAllFailuresSkipsAggregation(t *testing.T) {
	p1 := testutils.NewMockScoringProvider("alpha").
		Script(testutils.ScriptedVerdict{Err: errors.New("quota exhausted")})
	p2 := testutils.NewMockScoringProvider("beta").
		Script(testutils.ScriptedVerdict{Err: errors.New("connection refused")})

	spy := &spyAggregator{inner: NewAggregator(nil)}
	lifecycle := &testutils.LifecycleRecorder{}

	orch, err := NewOrchestrator(Config{
		Providers: []ports.ScoringProvider{p1, p2},
		Personas:  []domain.Persona{personas.Rigorist},
		Method:    domain.MethodMean,
		Lifecycle: lifecycle,
	}, spy)
	require.NoError(t, err)

	eval, err := orch.Evaluate(context.Background(), testUnit("unit-2"))
	require.NoError(t, err, "total failure is data, not an error")

	assert.Equal(t, domain.EvaluationFailed, eval.Status)
	assert.Equal(t, "all evaluators failed", eval.ErrorMessage)
	assert.Nil(t, eval.Score)
	assert.False(t, spy.called, "aggregator must not run with zero successes")
	require.Len(t, eval.Results, 2)
	for _, r := range eval.Results {
		assert.False(t, r.Success)
	}
	assert.Empty(t, lifecycle.Published)
	assert.Empty(t, lifecycle.Rejected)
}

func TestEvaluateSingleSurvivor(t *testing.T) {
	p1 := testutils.NewMockScoringProvider("alpha").
		Script(testutils.ScriptedVerdict{PersonaID: "rigorist", Err: errors.New("boom")}).
		Script(testutils.ScriptedVerdict{PersonaID: "synthesizer", Scores: [4]float64{8.0, 8.0, 8.0, 8.0}}).
		Script(testutils.ScriptedVerdict{PersonaID: "stylist", Err: errors.New("boom")})

	orch, err := NewOrchestrator(Config{
		Providers: []ports.ScoringProvider{p1},
		Personas:  []domain.Persona{personas.Rigorist, personas.Synthesizer, personas.Stylist},
		Method:    domain.MethodMean,
	}, nil)
	require.NoError(t, err)

	eval, err := orch.Evaluate(context.Background(), testUnit("unit-3"))
	require.NoError(t, err)

	assert.Equal(t, domain.EvaluationCompleted, eval.Status)
	require.NotNil(t, eval.Score)
	assert.Equal(t, 3, eval.Score.EvaluatorCount)
	assert.Equal(t, 1, eval.Score.SuccessfulCount)
	assert.Equal(t, 0.0, eval.Score.ScoreStdDev)
	assert.Equal(t, 0.0, eval.Score.MaxDisagreement)
	assert.True(t, eval.Score.Overall.Equal(decimal.RequireFromString("8")))
}

func TestEvaluateRejectsBelowThreshold(t *testing.T) {
	p1 := testutils.NewMockScoringProvider("alpha").
		Script(testutils.ScriptedVerdict{Scores: [4]float64{2.0, 2.0, 2.0, 2.0}})

	lifecycle := &testutils.LifecycleRecorder{}

	orch, err := NewOrchestrator(Config{
		Providers:        []ports.ScoringProvider{p1},
		Personas:         []domain.Persona{personas.Rigorist},
		Method:           domain.MethodMean,
		PublishThreshold: 5.0,
		Lifecycle:        lifecycle,
	}, nil)
	require.NoError(t, err)

	unit := testUnit("unit-4")
	eval, err := orch.Evaluate(context.Background(), unit)
	require.NoError(t, err)

	assert.Equal(t, domain.EvaluationCompleted, eval.Status)
	require.Len(t, lifecycle.Rejected, 1)
	assert.Empty(t, lifecycle.Published)
	assert.Equal(t, domain.ContentRejected, unit.Status)
	assert.False(t, lifecycle.Rejected[0].Publish)
	assert.True(t, lifecycle.Rejected[0].Threshold.Equal(decimal.RequireFromString("5")))
}

func TestEvaluateBatchTimeoutFailsPendingTasks(t *testing.T) {
	fast := testutils.NewMockScoringProvider("fast").
		Script(testutils.ScriptedVerdict{Scores: [4]float64{7.0, 7.0, 7.0, 7.0}})
	slow := testutils.NewMockScoringProvider("slow").
		Script(testutils.ScriptedVerdict{Scores: [4]float64{9.0, 9.0, 9.0, 9.0}, Delay: 5 * time.Second})

	orch, err := NewOrchestrator(Config{
		Providers:    []ports.ScoringProvider{fast, slow},
		Personas:     []domain.Persona{personas.Rigorist},
		Method:       domain.MethodMean,
		BatchTimeout: 100 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	start := time.Now()
	eval, err := orch.Evaluate(context.Background(), testUnit("unit-5"))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 3*time.Second, "timeout must not wait for the slow task")

	assert.Equal(t, domain.EvaluationCompleted, eval.Status, "surviving task still completes the run")
	require.Len(t, eval.Results, 2)
	assert.True(t, eval.Results[0].Success)
	assert.False(t, eval.Results[1].Success)
	assert.NotEmpty(t, eval.Results[1].Error)
	require.NotNil(t, eval.Score)
	assert.Equal(t, 1, eval.Score.SuccessfulCount)
	assert.True(t, eval.Score.Overall.Equal(decimal.RequireFromString("7")))
}

func TestEvaluateReusesEvaluationPerUnit(t *testing.T) {
	p1 := testutils.NewMockScoringProvider("alpha").
		Script(testutils.ScriptedVerdict{Scores: [4]float64{8.0, 8.0, 8.0, 8.0}})

	orch, err := NewOrchestrator(Config{
		Providers: []ports.ScoringProvider{p1},
		Personas:  []domain.Persona{personas.Rigorist},
		Method:    domain.MethodMean,
	}, nil)
	require.NoError(t, err)

	unit := testUnit("unit-6")
	first, err := orch.Evaluate(context.Background(), unit)
	require.NoError(t, err)
	second, err := orch.Evaluate(context.Background(), unit)
	require.NoError(t, err)

	assert.Same(t, first, second, "re-evaluating a unit reuses its evaluation")

	got, ok := orch.Get("unit-6")
	require.True(t, ok)
	assert.Same(t, first, got)

	_, ok = orch.Get("never-seen")
	assert.False(t, ok)
}

func TestEvaluateMaxConcurrency(t *testing.T) {
	// Four tasks, ceiling of one in flight. With each call delayed the
	// run takes at least 4x the delay; full parallelism would take ~1x.
	p1 := testutils.NewMockScoringProvider("alpha").
		Script(testutils.ScriptedVerdict{Scores: [4]float64{7.0, 7.0, 7.0, 7.0}, Delay: 20 * time.Millisecond})

	orch, err := NewOrchestrator(Config{
		Providers:      []ports.ScoringProvider{p1},
		Personas:       []domain.Persona{personas.Rigorist, personas.Synthesizer, personas.Stylist, personas.Contrarian},
		Method:         domain.MethodMean,
		MaxConcurrency: 1,
	}, nil)
	require.NoError(t, err)

	start := time.Now()
	eval, err := orch.Evaluate(context.Background(), testUnit("unit-7"))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	assert.Equal(t, domain.EvaluationCompleted, eval.Status)
	assert.Equal(t, 4, eval.Score.SuccessfulCount)
}

// staticNovelty returns a fixed novelty context string.
type staticNovelty string

func (s staticNovelty) Context(ctx context.Context, unit *domain.ContentUnit) string {
	return string(s)
}

func TestEvaluatePassesNoveltyContext(t *testing.T) {
	p1 := testutils.NewMockScoringProvider("alpha").
		Script(testutils.ScriptedVerdict{Scores: [4]float64{7.0, 7.0, 7.0, 7.0}})

	orch, err := NewOrchestrator(Config{
		Providers: []ports.ScoringProvider{p1},
		Personas:  []domain.Persona{personas.Rigorist},
		Method:    domain.MethodMean,
		Novelty:   staticNovelty("Novelty context: closest prior submission is 40% similar."),
	}, nil)
	require.NoError(t, err)

	_, err = orch.Evaluate(context.Background(), testUnit("unit-8"))
	require.NoError(t, err)

	assert.Contains(t, p1.LastUserPrompt, "Novelty context: closest prior submission is 40% similar.")
}

func TestNewOrchestratorValidatesConfig(t *testing.T) {
	p1 := testutils.NewMockScoringProvider("alpha")

	tests := []struct {
		name   string
		config Config
	}{
		{name: "no providers", config: Config{
			Personas: []domain.Persona{personas.Rigorist},
			Method:   domain.MethodMean,
		}},
		{name: "no personas", config: Config{
			Providers: []ports.ScoringProvider{p1},
			Method:    domain.MethodMean,
		}},
		{name: "unknown method", config: Config{
			Providers: []ports.ScoringProvider{p1},
			Personas:  []domain.Persona{personas.Rigorist},
			Method:    "mode",
		}},
		{name: "threshold out of range", config: Config{
			Providers:        []ports.ScoringProvider{p1},
			Personas:         []domain.Persona{personas.Rigorist},
			Method:           domain.MethodMean,
			PublishThreshold: 11,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrchestrator(tt.config, nil)
			require.Error(t, err)
		})
	}
}
