package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/kamilpajak/sentimark/internal/analyzer"
	"github.com/kamilpajak/sentimark/internal/batch"
	"github.com/kamilpajak/sentimark/internal/dataset"
	"github.com/kamilpajak/sentimark/internal/llm"
)

var (
	batchLenient     bool
	batchTemperature float64
	batchDelay       time.Duration
	batchSkipErrors  bool
	batchOut         string
	batchFormat      string
)

var batchCmd = &cobra.Command{
	Use:   "batch <dataset.csv>",
	Short: "Classify a review dataset and score it against ground truth",
	Long: `Classify every review in a CSV dataset and report accuracy against
the ground-truth sentiment column.

The CSV must contain columns: review_id, review_text, sentiment.
Model calls are paced by a fixed delay to respect rate limits; duplicate
review texts are served from an in-run cache.

Examples:
  sentimark batch sample_reviews.csv
  sentimark batch sample_reviews.csv --skip-errors --out results.csv
  sentimark batch sample_reviews.csv --lenient --delay 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchLenient, "lenient", false, "Resolve mixed reviews to the dominant side")
	batchCmd.Flags().Float64VarP(&batchTemperature, "temperature", "t", 0, "Sampling temperature (default from config)")
	batchCmd.Flags().DurationVar(&batchDelay, "delay", 0, "Delay between model calls (default from config)")
	batchCmd.Flags().BoolVar(&batchSkipErrors, "skip-errors", false, "Record row failures and continue instead of aborting")
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "Write per-row results to this CSV file")
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "text", "Output format (text, json)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reviews, err := dataset.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Loaded %d reviews from %s\n", len(reviews), args[0])

	client, err := llm.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Model)
	if err != nil {
		return err
	}

	temperature := cfg.BatchTemperature
	if cmd.Flags().Changed("temperature") {
		temperature = batchTemperature
	}
	delay := time.Duration(cfg.RequestDelay)
	if cmd.Flags().Changed("delay") {
		delay = batchDelay
	}

	runner := &batch.Runner{
		Analyzer:    analyzer.New(client),
		Limiter:     rate.NewLimiter(rate.Every(delay), 1),
		Emitter:     &batch.TextEmitter{W: os.Stderr},
		Strict:      !batchLenient,
		Temperature: temperature,
		SkipErrors:  batchSkipErrors,
	}

	summary, err := runner.Run(context.Background(), reviews)
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}

	if batchOut != "" {
		if err := dataset.WriteResults(batchOut, summary.Rows); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Results written to %s\n", batchOut)
	}

	if batchFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	printSummary(summary)
	return nil
}

func printSummary(summary *batch.Summary) {
	fmt.Printf("\nAccuracy: %.2f%%\n\n", summary.AccuracyPct)

	labels := make([]string, 0, len(summary.Counts))
	for label := range summary.Counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Printf("%-10s %8s %10s\n", "Label", "Actual", "Predicted")
	for _, label := range labels {
		c := summary.Counts[label]
		fmt.Printf("%-10s %8d %10d\n", label, c.Actual, c.Predicted)
	}

	fmt.Printf("\nCompleted %d/%d rows", summary.Completed, summary.Total)
	if summary.Failed > 0 {
		fmt.Printf(" (%d failed)", summary.Failed)
	}
	fmt.Printf(" in %.1fs\n", summary.Elapsed.Seconds())
	fmt.Printf("Run ID: %s\n", summary.RunID)

	for _, rowErr := range summary.Errors {
		fmt.Fprintf(os.Stderr, "review %d failed: %s\n", rowErr.ReviewID, rowErr.Err)
	}
}
