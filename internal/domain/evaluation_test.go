package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluationLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e := NewEvaluation("unit-1")
	require.Equal(t, EvaluationPending, e.Status)
	assert.False(t, e.Terminal())

	require.NoError(t, e.Start(now))
	assert.Equal(t, EvaluationInProgress, e.Status)
	assert.Equal(t, now, e.StartedAt)

	score := &AggregatedScore{Overall: Round2(7.5), Method: MethodMedian}
	later := now.Add(30 * time.Second)
	require.NoError(t, e.Complete(later, score, DimensionFeedback{OverallSummary: "solid"}))
	assert.Equal(t, EvaluationCompleted, e.Status)
	assert.Equal(t, later, e.CompletedAt)
	assert.True(t, e.Terminal())
	assert.Equal(t, score, e.Score)
}

func TestEvaluationFail(t *testing.T) {
	now := time.Now()
	e := NewEvaluation("unit-2")
	require.NoError(t, e.Start(now))

	require.NoError(t, e.Fail(now, "all evaluators failed"))
	assert.Equal(t, EvaluationFailed, e.Status)
	assert.Equal(t, "all evaluators failed", e.ErrorMessage)
	assert.True(t, e.Terminal())
}

func TestEvaluationRestartResetsOutcome(t *testing.T) {
	now := time.Now()
	e := NewEvaluation("unit-3")
	require.NoError(t, e.Start(now))
	require.NoError(t, e.Fail(now, "provider outage"))

	// Re-evaluating a terminal unit reuses the entity.
	again := now.Add(time.Hour)
	require.NoError(t, e.Start(again))
	assert.Equal(t, EvaluationInProgress, e.Status)
	assert.Equal(t, again, e.StartedAt)
	assert.True(t, e.CompletedAt.IsZero())
	assert.Nil(t, e.Score)
	assert.Empty(t, e.ErrorMessage)
	assert.Empty(t, e.Results)
}

func TestEvaluationIllegalTransitions(t *testing.T) {
	now := time.Now()

	t.Run("double start while in progress", func(t *testing.T) {
		e := NewEvaluation("u")
		require.NoError(t, e.Start(now))
		require.ErrorIs(t, e.Start(now), ErrInvalidTransition)
	})

	t.Run("complete before start", func(t *testing.T) {
		e := NewEvaluation("u")
		require.ErrorIs(t, e.Complete(now, nil, DimensionFeedback{}), ErrInvalidTransition)
	})

	t.Run("fail before start", func(t *testing.T) {
		e := NewEvaluation("u")
		require.ErrorIs(t, e.Fail(now, "x"), ErrInvalidTransition)
	})

	t.Run("complete after terminal", func(t *testing.T) {
		e := NewEvaluation("u")
		require.NoError(t, e.Start(now))
		require.NoError(t, e.Fail(now, "x"))
		require.ErrorIs(t, e.Complete(now, nil, DimensionFeedback{}), ErrInvalidTransition)
	})
}
