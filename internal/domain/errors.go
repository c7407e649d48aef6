package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned by the evaluation engine.
var (
	// ErrUnknownPersona indicates a persona lookup with an unregistered ID.
	// This is a configuration error and never occurs mid-evaluation.
	ErrUnknownPersona = errors.New("unknown persona")

	// ErrUnknownProvider indicates a scoring provider lookup with an
	// unregistered name.
	ErrUnknownProvider = errors.New("unknown scoring provider")

	// ErrUnknownMethod indicates an unrecognized aggregation method.
	// Unknown methods fail loudly rather than falling back silently.
	ErrUnknownMethod = errors.New("unknown aggregation method")

	// ErrNoSuccessfulEvaluations indicates that aggregation was attempted
	// with zero successful individual results.
	ErrNoSuccessfulEvaluations = errors.New("no successful evaluations to aggregate")

	// ErrEmptyTaskSet indicates that the providers × personas product is
	// empty; the orchestrator fails before dispatching any work.
	ErrEmptyTaskSet = errors.New("empty evaluation task set")

	// ErrInvalidWeights indicates persona dimension weights that do not sum
	// to 1.0 within tolerance.
	ErrInvalidWeights = errors.New("dimension weights must sum to 1.0")

	// ErrInvalidTransition indicates an illegal Evaluation state change,
	// such as completing an evaluation that never started.
	ErrInvalidTransition = errors.New("invalid evaluation state transition")
)

// EvaluationError wraps a failure of the whole evaluation run with the
// content unit it concerned. Per-task provider failures are data on the
// IndividualResult, not errors; this type is reserved for batch-level
// outcomes such as "all evaluators failed" or an unexpected internal error.
type EvaluationError struct {
	// ContentUnitID identifies the submission whose evaluation failed.
	ContentUnitID string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation of %s failed: %v", e.ContentUnitID, e.Err)
}

// Unwrap returns the underlying error for errors.Is / errors.As.
func (e *EvaluationError) Unwrap() error { return e.Err }

// NewEvaluationError creates an EvaluationError for the given content unit.
func NewEvaluationError(contentUnitID string, err error) *EvaluationError {
	return &EvaluationError{ContentUnitID: contentUnitID, Err: err}
}
