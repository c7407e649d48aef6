package domain

import (
	"fmt"
	"time"
)

// EvaluationStatus is the state of an Evaluation entity.
// Legal transitions: PENDING → IN_PROGRESS → {COMPLETED, FAILED}.
// Terminal states are final.
type EvaluationStatus string

const (
	EvaluationPending    EvaluationStatus = "pending"
	EvaluationInProgress EvaluationStatus = "in_progress"
	EvaluationCompleted  EvaluationStatus = "completed"
	EvaluationFailed     EvaluationStatus = "failed"
)

// Evaluation is the state-machine entity tracking one multi-evaluator run
// for a content unit. Exactly one Evaluation exists per content unit;
// re-evaluation reuses the same entity (get-or-create keyed by content-unit
// ID) rather than creating a new one.
//
// All state transitions are performed serially by the single goroutine
// driving the orchestrator after the fan-out has joined, so the entity
// needs no internal locking.
type Evaluation struct {
	// ContentUnitID keys this evaluation to its submission.
	ContentUnitID string `json:"content_unit_id"`

	// Status is the current state-machine state.
	Status EvaluationStatus `json:"status"`

	// StartedAt and CompletedAt bracket the run. CompletedAt is set on
	// both terminal transitions.
	StartedAt   time.Time `json:"started_at,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitempty"`

	// Score holds the aggregated verdict; set only in COMPLETED.
	Score *AggregatedScore `json:"score,omitempty"`

	// Feedback is the combined per-dimension commentary from successful
	// evaluators; OverallSummary carries the consensus summary text.
	Feedback DimensionFeedback `json:"feedback,omitempty"`

	// Results are the individual verdicts in task construction order,
	// including failures.
	Results []IndividualResult `json:"results,omitempty"`

	// JudgeModel labels the evaluator set, e.g. "multi:openai,anthropic".
	JudgeModel string `json:"judge_model,omitempty"`

	// ErrorMessage explains a FAILED evaluation; set only in FAILED.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewEvaluation creates a PENDING evaluation for the given content unit.
func NewEvaluation(contentUnitID string) *Evaluation {
	return &Evaluation{
		ContentUnitID: contentUnitID,
		Status:        EvaluationPending,
	}
}

// Start transitions PENDING → IN_PROGRESS and records the start time.
// Restarting a terminal evaluation (re-evaluation of the same unit) is also
// permitted: the entity is reused and its previous outcome discarded.
func (e *Evaluation) Start(now time.Time) error {
	if e.Status == EvaluationInProgress {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, EvaluationInProgress)
	}
	e.Status = EvaluationInProgress
	e.StartedAt = now
	e.CompletedAt = time.Time{}
	e.Score = nil
	e.Feedback = DimensionFeedback{}
	e.Results = nil
	e.ErrorMessage = ""
	return nil
}

// Complete transitions IN_PROGRESS → COMPLETED with the aggregated score
// and combined feedback.
func (e *Evaluation) Complete(now time.Time, score *AggregatedScore, feedback DimensionFeedback) error {
	if e.Status != EvaluationInProgress {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, EvaluationCompleted)
	}
	e.Status = EvaluationCompleted
	e.CompletedAt = now
	e.Score = score
	e.Feedback = feedback
	return nil
}

// Fail transitions IN_PROGRESS → FAILED with an explanatory message.
func (e *Evaluation) Fail(now time.Time, msg string) error {
	if e.Status != EvaluationInProgress {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, EvaluationFailed)
	}
	e.Status = EvaluationFailed
	e.CompletedAt = now
	e.ErrorMessage = msg
	return nil
}

// Terminal reports whether the evaluation reached a final state.
func (e *Evaluation) Terminal() bool {
	return e.Status == EvaluationCompleted || e.Status == EvaluationFailed
}
