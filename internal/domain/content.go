package domain

// ContentStatus tracks a content unit through its publication lifecycle.
type ContentStatus string

const (
	// ContentPending marks a submission awaiting evaluation.
	ContentPending ContentStatus = "pending_evaluation"

	// ContentEvaluating marks a submission with an evaluation in flight.
	ContentEvaluating ContentStatus = "evaluating"

	// ContentPublished marks a submission that met the publish threshold.
	ContentPublished ContentStatus = "published"

	// ContentRejected marks a submission below the publish threshold, or
	// one whose evaluation failed outright.
	ContentRejected ContentStatus = "rejected"
)

// ContentUnit is the long-form text submission being evaluated. The engine
// reads it to build prompts; it never mutates the content itself.
type ContentUnit struct {
	// ID uniquely identifies the submission and keys its Evaluation.
	ID string `json:"id"`

	// Title and Category provide context for the evaluator prompt.
	Title    string `json:"title"`
	Category string `json:"category"`

	// WordCount is the precomputed word count of Content.
	WordCount int `json:"word_count"`

	// Content is the full text under review.
	Content string `json:"content"`

	// Status is the current lifecycle state. The engine reports a
	// publish/reject decision; applying it is the content-lifecycle
	// collaborator's job.
	Status ContentStatus `json:"status"`
}
