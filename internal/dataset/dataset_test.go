package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidCSV(t *testing.T) {
	path := writeTempCSV(t, "review_id,review_text,sentiment\n1,Loved it,positive\n2,Hated it,NEGATIVE\n")

	reviews, err := Load(path)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, Review{ID: 1, Text: "Loved it", Sentiment: "positive"}, reviews[0])
	assert.Equal(t, Review{ID: 2, Text: "Hated it", Sentiment: "NEGATIVE"}, reviews[1])
}

func TestLoad_ColumnOrderIsFree(t *testing.T) {
	path := writeTempCSV(t, "sentiment,review_id,review_text,extra\nneutral,7,Just okay,ignored\n")

	reviews, err := Load(path)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 7, reviews[0].ID)
	assert.Equal(t, "Just okay", reviews[0].Text)
}

func TestLoad_MissingColumn(t *testing.T) {
	path := writeTempCSV(t, "review_id,review_text\n1,Loved it\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sentiment")
}

func TestLoad_InvalidReviewID(t *testing.T) {
	path := writeTempCSV(t, "review_id,review_text,sentiment\nabc,Loved it,positive\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review_id")
}

func TestLoad_EmptyReviewText(t *testing.T) {
	path := writeTempCSV(t, "review_id,review_text,sentiment\n1,  ,positive\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty review_text")
}

func TestLoad_UnknownSentiment(t *testing.T) {
	path := writeTempCSV(t, "review_id,review_text,sentiment\n1,Loved it,mixed\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mixed")
}

func TestLoad_MalformedRowNamesSameRowAsValidationErrors(t *testing.T) {
	// A bare quote makes the first data row unreadable. It sits on row 2
	// (after the header), matching how field-validation errors count rows.
	path := writeTempCSV(t, "review_id,review_text,sentiment\n1,\"unclosed,positive\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func scored(id int, actual, predicted string) ScoredReview {
	return ScoredReview{
		Review:             Review{ID: id, Text: "text", Sentiment: actual},
		PredictedSentiment: predicted,
	}
}

func TestAccuracy_CaseNormalized(t *testing.T) {
	rows := []ScoredReview{
		scored(1, "positive", "Positive"),
		scored(2, "NEGATIVE", "negative"),
		scored(3, "neutral", "Positive"),
		scored(4, "positive", "Negative"),
	}
	assert.Equal(t, 50.0, Accuracy(rows))
}

func TestAccuracy_EmptyRows(t *testing.T) {
	assert.Equal(t, 0.0, Accuracy(nil))
}

func TestClassCounts(t *testing.T) {
	rows := []ScoredReview{
		scored(1, "positive", "Positive"),
		scored(2, "positive", "negative"),
		scored(3, "Negative", "negative"),
	}

	counts := ClassCounts(rows)
	assert.Equal(t, Counts{Actual: 2, Predicted: 1}, counts["positive"])
	assert.Equal(t, Counts{Actual: 1, Predicted: 2}, counts["negative"])
	_, hasNeutral := counts["neutral"]
	assert.False(t, hasNeutral)
}

func TestWriteResults_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	rows := []ScoredReview{
		{
			Review:               Review{ID: 1, Text: "Great, truly great", Sentiment: "positive"},
			PredictedSentiment:   "Positive",
			PredictedConfidence:  0.9,
			PredictedExplanation: "Strong praise.",
			PredictedEvidence:    []string{"Great", "truly great"},
		},
	}

	require.NoError(t, WriteResults(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "review_id,review_text,sentiment,predicted_sentiment,predicted_confidence,predicted_explanation,predicted_evidence", lines[0])
	assert.Contains(t, lines[1], "Positive")
	assert.Contains(t, lines[1], "0.90")
	assert.Contains(t, lines[1], "Great|truly great")
}
