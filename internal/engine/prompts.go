package engine

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ahrav/go-quorum/internal/domain"
)

// MaxContentChars bounds the content included in a prompt. Longer
// submissions are sampled rather than cut off, so the evaluator still
// sees the conclusion.
const MaxContentChars = 150_000

// Sampling split for over-length content.
const (
	introFraction      = 0.5
	middleFraction     = 0.3
	conclusionFraction = 0.2
)

var numberPrinter = message.NewPrinter(language.English)

// BuildSystemPrompt renders the persona's reviewer instructions plus the
// required JSON response format.
func BuildSystemPrompt(p domain.Persona) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, an expert content reviewer.\n\n", p.Name)
	b.WriteString(strings.TrimSpace(p.Guidance))
	b.WriteString("\n\n")
	b.WriteString(`Score the submission on four dimensions, each from 1 (poor) to 10 (exceptional):
- novelty: originality of ideas and perspective
- structure: organization and logical flow
- thoroughness: depth, evidence, and completeness
- clarity: prose quality and readability

Respond with ONLY a JSON object in exactly this format:
{
  "novelty": {"score": <number>, "feedback": "<one or two sentences>"},
  "structure": {"score": <number>, "feedback": "<one or two sentences>"},
  "thoroughness": {"score": <number>, "feedback": "<one or two sentences>"},
  "clarity": {"score": <number>, "feedback": "<one or two sentences>"},
  "overall_summary": "<two or three sentences summarizing your verdict>"
}`)

	return b.String()
}

// BuildUserPrompt renders the submission under review with its metadata
// and an optional novelty context line. Content beyond MaxContentChars is
// sampled front-weighted so the evaluator sees the opening, a slice of
// the middle, and the conclusion.
func BuildUserPrompt(unit domain.ContentUnit, noveltyContext string) string {
	var b strings.Builder

	b.WriteString("Evaluate the following submission.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", unit.Title)
	if unit.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", unit.Category)
	}
	numberPrinter.Fprintf(&b, "Word count: %d\n\n", unit.WordCount)
	if noveltyContext != "" {
		b.WriteString(noveltyContext)
		b.WriteString("\n\n")
	}
	b.WriteString("--- BEGIN CONTENT ---\n")
	b.WriteString(TruncateContent(unit.Content, MaxContentChars))
	b.WriteString("\n--- END CONTENT ---")

	return b.String()
}

// TruncateContent samples text down to limit characters, keeping 50%
// from the start, 30% from the middle, and 20% from the end, with
// markers where text was elided. Text at or under the limit passes
// through unchanged.
func TruncateContent(content string, limit int) string {
	if len(content) <= limit {
		return content
	}

	const marker = "\n\n[... content omitted ...]\n\n"
	// Reserve room for the two elision markers.
	budget := limit - 2*len(marker)
	if budget < 3 {
		return content[:limit]
	}

	introLen := int(float64(budget) * introFraction)
	middleLen := int(float64(budget) * middleFraction)
	conclusionLen := budget - introLen - middleLen

	middleStart := (len(content) - middleLen) / 2

	var b strings.Builder
	b.Grow(limit)
	b.WriteString(content[:introLen])
	b.WriteString(marker)
	b.WriteString(content[middleStart : middleStart+middleLen])
	b.WriteString(marker)
	b.WriteString(content[len(content)-conclusionLen:])
	return b.String()
}
