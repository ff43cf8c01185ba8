// Package dataset handles CSV ingestion and scoring for batch
// classification runs.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Review is one labeled row of the input CSV.
type Review struct {
	ID        int
	Text      string
	Sentiment string
}

var requiredColumns = []string{"review_id", "review_text", "sentiment"}

// Load reads a CSV with columns review_id, review_text, sentiment.
// Column order is free; extra columns are ignored. Every row must have an
// integer id, non-empty text, and a sentiment matching one of the three
// canonical labels (case-insensitive).
func Load(path string) ([]Review, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv missing required column %q", name)
		}
	}

	var reviews []Review
	rowNum := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowNum, err)
		}

		field := func(name string) string {
			idx := cols[name]
			if idx >= len(record) {
				return ""
			}
			return record[idx]
		}

		id, err := strconv.Atoi(strings.TrimSpace(field("review_id")))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid review_id %q", rowNum, field("review_id"))
		}

		text := field("review_text")
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("row %d: empty review_text for review_id=%d", rowNum, id)
		}

		sentiment := strings.TrimSpace(field("sentiment"))
		if !validSentiment(sentiment) {
			return nil, fmt.Errorf("row %d: unknown sentiment %q for review_id=%d", rowNum, sentiment, id)
		}

		reviews = append(reviews, Review{ID: id, Text: text, Sentiment: sentiment})
	}

	if len(reviews) == 0 {
		return nil, fmt.Errorf("dataset %s contains no rows", path)
	}
	return reviews, nil
}

func validSentiment(s string) bool {
	switch strings.ToLower(s) {
	case "positive", "negative", "neutral":
		return true
	}
	return false
}
