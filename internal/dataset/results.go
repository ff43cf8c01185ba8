package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ScoredReview is an input row plus the model's prediction for it.
type ScoredReview struct {
	Review
	PredictedSentiment   string
	PredictedConfidence  float64
	PredictedExplanation string
	PredictedEvidence    []string
}

// Counts holds actual vs predicted occurrences for one canonical label.
type Counts struct {
	Actual    int
	Predicted int
}

// WriteResults writes the original columns plus the prediction columns.
// Evidence phrases are pipe-joined into a single cell.
func WriteResults(path string, rows []ScoredReview) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"review_id", "review_text", "sentiment",
		"predicted_sentiment", "predicted_confidence",
		"predicted_explanation", "predicted_evidence",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.ID),
			row.Text,
			row.Sentiment,
			row.PredictedSentiment,
			strconv.FormatFloat(row.PredictedConfidence, 'f', 2, 64),
			row.PredictedExplanation,
			strings.Join(row.PredictedEvidence, "|"),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write results row for review_id=%d: %w", row.ID, err)
		}
	}

	w.Flush()
	return w.Error()
}

// Accuracy returns the case-normalized ground-truth match rate as a
// percentage. Rows without a prediction count as misses.
func Accuracy(rows []ScoredReview) float64 {
	if len(rows) == 0 {
		return 0.0
	}
	matches := 0
	for _, row := range rows {
		if normalize(row.Sentiment) == normalize(row.PredictedSentiment) {
			matches++
		}
	}
	return float64(matches) / float64(len(rows)) * 100.0
}

// ClassCounts tallies actual and predicted occurrences per canonical
// label, keyed by the lower-cased label name.
func ClassCounts(rows []ScoredReview) map[string]Counts {
	counts := make(map[string]Counts)
	for _, row := range rows {
		if actual := normalize(row.Sentiment); actual != "" {
			c := counts[actual]
			c.Actual++
			counts[actual] = c
		}
		if predicted := normalize(row.PredictedSentiment); predicted != "" {
			c := counts[predicted]
			c.Predicted++
			counts[predicted] = c
		}
	}
	return counts
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
