// Package novelty provides a deterministic lexical similarity detector.
// It compares a submission against an in-memory corpus of prior content
// using normalized Levenshtein distance and renders a short context block
// for the evaluator prompt, so personas that reward originality can see
// how close the submission is to earlier work.
package novelty

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

var _ ports.NoveltyAssessor = (*Detector)(nil)

// foldCaser is a package-level Unicode case folder, shared because caser
// construction is not free.
var foldCaser = cases.Fold()

// MaxComparisonChars bounds the text compared per unit. Levenshtein is
// O(n*m); full essays do not need full-length comparison to expose
// near-duplicates.
const MaxComparisonChars = 20_000

// corpusEntry is one prior submission, stored case-folded and truncated
// so Similarity never re-normalizes.
type corpusEntry struct {
	id      string
	title   string
	content string
}

// Detector assesses how lexically similar a submission is to previously
// seen content. Safe for concurrent use.
type Detector struct {
	mu     sync.RWMutex
	corpus []corpusEntry
	tracer trace.Tracer
}

// NewDetector creates an empty detector.
func NewDetector() *Detector {
	return &Detector{tracer: otel.Tracer("novelty-detector")}
}

// Add records a unit in the comparison corpus. Re-adding an ID replaces
// the stored entry.
func (d *Detector) Add(unit domain.ContentUnit) {
	entry := corpusEntry{
		id:      unit.ID,
		title:   unit.Title,
		content: prepare(unit.Content),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for i, e := range d.corpus {
		if e.id == unit.ID {
			d.corpus[i] = entry
			return
		}
	}
	d.corpus = append(d.corpus, entry)
}

// CorpusSize reports how many prior units the detector holds.
func (d *Detector) CorpusSize() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.corpus)
}

// Assessment is the outcome of comparing one submission against the
// corpus.
type Assessment struct {
	// CorpusSize is the number of prior units compared against,
	// excluding the submission itself.
	CorpusSize int

	// MaxSimilarity is the highest normalized similarity found, in
	// [0.0, 1.0]. Zero when the corpus is empty.
	MaxSimilarity float64

	// MostSimilarTitle is the title of the closest prior unit; empty
	// when the corpus is empty.
	MostSimilarTitle string
}

// Assess compares the unit against every stored entry. An entry with the
// same ID is skipped, so a re-evaluated unit is never compared to itself.
func (d *Detector) Assess(ctx context.Context, unit *domain.ContentUnit) Assessment {
	_, span := d.tracer.Start(ctx, "novelty.assess",
		trace.WithAttributes(
			attribute.String("content_unit.id", unit.ID),
		),
	)
	defer span.End()

	start := time.Now()
	prepared := prepare(unit.Content)

	d.mu.RLock()
	corpus := d.corpus
	d.mu.RUnlock()

	var assessment Assessment
	for _, e := range corpus {
		if e.id == unit.ID {
			continue
		}
		assessment.CorpusSize++

		sim := Similarity(prepared, e.content)
		if sim > assessment.MaxSimilarity {
			assessment.MaxSimilarity = sim
			assessment.MostSimilarTitle = e.title
		}
	}

	span.SetAttributes(
		attribute.Int("novelty.corpus_size", assessment.CorpusSize),
		attribute.Float64("novelty.max_similarity", assessment.MaxSimilarity),
		attribute.Int64("novelty.latency_ms", time.Since(start).Milliseconds()),
	)
	return assessment
}

// Context implements ports.NoveltyAssessor: it renders the assessment as
// a prompt section. An empty corpus yields an empty string.
func (d *Detector) Context(ctx context.Context, unit *domain.ContentUnit) string {
	a := d.Assess(ctx, unit)
	if a.CorpusSize == 0 {
		return ""
	}
	return fmt.Sprintf(
		"Novelty context: compared against %d prior submissions, the closest is %q at %.0f%% lexical similarity.",
		a.CorpusSize, a.MostSimilarTitle, a.MaxSimilarity*100,
	)
}

// Similarity computes the normalized Levenshtein similarity of two
// prepared strings: 1.0 for identical, 0.0 for maximally distant. The
// distance operates on runes, so normalization uses rune counts.
func Similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(s1, s2)

	maxLen := utf8.RuneCountInString(s1)
	if n := utf8.RuneCountInString(s2); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// prepare case-folds and truncates text for comparison.
func prepare(s string) string {
	if len(s) > MaxComparisonChars {
		s = s[:MaxComparisonChars]
	}
	return foldCaser.String(s)
}
