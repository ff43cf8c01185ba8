package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kamilpajak/sentimark/internal/dataset"
	"github.com/kamilpajak/sentimark/internal/hub"
)

var (
	datasetOut  string
	datasetSize int
	datasetSeed int64
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage review datasets",
}

var datasetCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a sample review CSV from the IMDB corpus",
	Long: `Sample reviews from the public IMDB corpus (via the HuggingFace
datasets-server) and write them as a CSV with columns review_id,
review_text, sentiment. The sample is deterministic for a given seed.`,
	RunE: runDatasetCreate,
}

func init() {
	datasetCreateCmd.Flags().StringVarP(&datasetOut, "out", "o", "sample_reviews.csv", "Output CSV path")
	datasetCreateCmd.Flags().IntVar(&datasetSize, "size", 30, "Number of reviews to sample")
	datasetCreateCmd.Flags().Int64Var(&datasetSeed, "seed", 42, "Sampling seed")

	datasetCmd.AddCommand(datasetCreateCmd)
}

func runDatasetCreate(cmd *cobra.Command, args []string) error {
	client := hub.NewClient("")

	fmt.Fprintf(os.Stderr, "Sampling %d IMDB reviews...\n", datasetSize)
	reviews, err := client.SampleIMDB(context.Background(), datasetSize, datasetSeed)
	if err != nil {
		return fmt.Errorf("failed to sample reviews: %w", err)
	}

	if err := writeReviewCSV(datasetOut, reviews); err != nil {
		return err
	}

	fmt.Printf("Dataset created with %d rows and saved to %s\n", len(reviews), datasetOut)
	return nil
}

func writeReviewCSV(path string, reviews []dataset.Review) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"review_id", "review_text", "sentiment"}); err != nil {
		return fmt.Errorf("write dataset header: %w", err)
	}
	for _, review := range reviews {
		record := []string{strconv.Itoa(review.ID), review.Text, review.Sentiment}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write dataset row %d: %w", review.ID, err)
		}
	}
	w.Flush()
	return w.Error()
}
