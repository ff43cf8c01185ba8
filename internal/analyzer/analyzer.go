// Package analyzer classifies movie-review text into a sentiment label
// using a generative model, normalizing the model's free-form output into
// a strict four-field schema.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/kamilpajak/sentimark/internal/llm"
)

// Canonical sentiment labels. These are the only valid values for
// Result.Label.
const (
	LabelPositive = "Positive"
	LabelNegative = "Negative"
	LabelNeutral  = "Neutral"
)

// maxOutputTokens caps the model response length per call.
const maxOutputTokens = 256

// Result is the validated output of a single analysis.
type Result struct {
	Label           string   `json:"label"`
	Confidence      float64  `json:"confidence"`
	Explanation     string   `json:"explanation"`
	EvidencePhrases []string `json:"evidence_phrases"`
}

// Generator produces free-form text for a prompt. *llm.Client satisfies
// it; tests substitute a stub.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error)
}

// UnparsableResponseError means the model responded but no JSON structure
// could be recovered, even after fallback extraction. Raw carries the full
// model output for diagnosis.
type UnparsableResponseError struct {
	Raw string
}

func (e *UnparsableResponseError) Error() string {
	return fmt.Sprintf("model did not return parseable JSON; raw output:\n%s", e.Raw)
}

// InvalidLabelError means the parsed structure carried no value mappable
// to a canonical label.
type InvalidLabelError struct {
	Raw any
}

func (e *InvalidLabelError) Error() string {
	if e.Raw == nil {
		return "label missing from model output"
	}
	return fmt.Sprintf("invalid label from model: '%v'", e.Raw)
}

// Analyzer runs the full analysis pipeline for single reviews.
type Analyzer struct {
	gen Generator
}

// New creates an Analyzer backed by the given text generator.
func New(gen Generator) *Analyzer {
	return &Analyzer{gen: gen}
}

// Analyze classifies one review. strict selects the mixed-sentiment
// tie-break policy in the prompt; temperature controls model sampling.
// A whitespace-only review short-circuits to a fixed neutral result
// without calling the model.
func (a *Analyzer) Analyze(ctx context.Context, review string, strict bool, temperature float64) (*Result, error) {
	review = strings.TrimSpace(review)
	if review == "" {
		return &Result{
			Label:           LabelNeutral,
			Confidence:      0.0,
			Explanation:     "No review text provided.",
			EvidencePhrases: []string{},
		}, nil
	}

	prompt := BuildPrompt(review, strict)

	raw, err := a.gen.Generate(ctx, prompt, llm.GenerateOptions{
		Temperature:     temperature,
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	parsed := extractJSON(sanitizeResponse(raw))
	if parsed == nil {
		return nil, &UnparsableResponseError{Raw: raw}
	}

	return coerceResult(parsed)
}
