// Package batch drives sequential dataset classification with pacing,
// per-row error policy, and accuracy scoring against ground truth.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/kamilpajak/sentimark/internal/analyzer"
	"github.com/kamilpajak/sentimark/internal/dataset"
)

// Runner executes one batch run. Calls are sequential; the limiter paces
// model calls to respect external rate limits. Cache hits bypass both the
// limiter and the model.
type Runner struct {
	Analyzer    *analyzer.Analyzer
	Limiter     *rate.Limiter
	Emitter     Emitter
	Strict      bool
	Temperature float64
	SkipErrors  bool
}

// RowError records a row that failed during a skip-errors run.
type RowError struct {
	ReviewID int    `json:"review_id"`
	Err      string `json:"error"`
}

// Summary is the outcome of a batch run.
type Summary struct {
	RunID       string                    `json:"run_id"`
	Total       int                       `json:"total"`
	Completed   int                       `json:"completed"`
	Failed      int                       `json:"failed"`
	AccuracyPct float64                   `json:"accuracy_pct"`
	Counts      map[string]dataset.Counts `json:"class_counts"`
	Elapsed     time.Duration             `json:"elapsed"`
	Rows        []dataset.ScoredReview    `json:"-"`
	Errors      []RowError                `json:"errors,omitempty"`
}

// cacheKey is the request identity: identical inputs reuse the previous
// result instead of re-hitting the model.
type cacheKey struct {
	text        string
	strict      bool
	temperature float64
}

// Run classifies every review in order. Without SkipErrors the first row
// failure aborts the run; with it, failed rows are recorded and the run
// continues. Progress reports a running completed count, never the row
// index.
func (r *Runner) Run(ctx context.Context, reviews []dataset.Review) (*Summary, error) {
	start := time.Now()
	total := len(reviews)
	cache := make(map[cacheKey]*analyzer.Result)

	summary := &Summary{
		RunID: uuid.NewString(),
		Total: total,
	}

	slog.Info("starting batch run",
		slog.String("run_id", summary.RunID),
		slog.Int("total", total),
		slog.Bool("strict", r.Strict))

	for _, review := range reviews {
		key := cacheKey{
			text:        strings.TrimSpace(review.Text),
			strict:      r.Strict,
			temperature: r.Temperature,
		}

		result, hit := cache[key]
		if !hit {
			if r.Limiter != nil {
				if err := r.Limiter.Wait(ctx); err != nil {
					return nil, fmt.Errorf("pacing interrupted: %w", err)
				}
			}

			var err error
			result, err = r.Analyzer.Analyze(ctx, review.Text, r.Strict, r.Temperature)
			if err != nil {
				if !r.SkipErrors {
					return nil, fmt.Errorf("review %d: %w", review.ID, err)
				}
				summary.Failed++
				summary.Errors = append(summary.Errors, RowError{ReviewID: review.ID, Err: err.Error()})
				r.emit(ProgressEvent{
					Type:      "row_error",
					Completed: summary.Completed,
					Total:     total,
					ReviewID:  review.ID,
					Message:   err.Error(),
				})
				continue
			}
			cache[key] = result
		}

		summary.Rows = append(summary.Rows, dataset.ScoredReview{
			Review:               review,
			PredictedSentiment:   result.Label,
			PredictedConfidence:  result.Confidence,
			PredictedExplanation: result.Explanation,
			PredictedEvidence:    result.EvidencePhrases,
		})
		summary.Completed++

		r.emit(ProgressEvent{
			Type:      "row",
			Completed: summary.Completed,
			Total:     total,
			ReviewID:  review.ID,
			Label:     result.Label,
			CacheHit:  hit,
		})
	}

	summary.AccuracyPct = dataset.Accuracy(summary.Rows)
	summary.Counts = dataset.ClassCounts(summary.Rows)
	summary.Elapsed = time.Since(start)

	r.emit(ProgressEvent{Type: "done", Completed: summary.Completed, Total: total})
	slog.Info("batch run complete",
		slog.String("run_id", summary.RunID),
		slog.Int("completed", summary.Completed),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", summary.Elapsed))

	return summary, nil
}

func (r *Runner) emit(ev ProgressEvent) {
	if r.Emitter != nil {
		r.Emitter.Emit(ev)
	}
}
