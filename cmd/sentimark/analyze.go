package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kamilpajak/sentimark/internal/analyzer"
	"github.com/kamilpajak/sentimark/internal/llm"
)

var (
	analyzeLenient     bool
	analyzeTemperature float64
	analyzeFormat      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze \"<review>\"",
	Short: "Classify a single movie review",
	Long: `Classify a single movie review as Positive, Negative, or Neutral.

Strict mode (default) resolves mixed reviews to Neutral unless one side
clearly dominates; --lenient picks the dominant side instead.

Examples:
  sentimark analyze "Great acting, but the story was boring."
  sentimark analyze --lenient "Great acting, but the story was boring."
  sentimark analyze --format json "Loved every minute of it."`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeLenient, "lenient", false, "Resolve mixed reviews to the dominant side")
	analyzeCmd.Flags().Float64VarP(&analyzeTemperature, "temperature", "t", 0, "Sampling temperature (default from config)")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "Output format (text, json)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := llm.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Model)
	if err != nil {
		return err
	}

	temperature := cfg.SingleTemperature
	if cmd.Flags().Changed("temperature") {
		temperature = analyzeTemperature
	}

	stop := startSpinner("Analyzing review...")
	start := time.Now()

	result, err := analyzer.New(client).Analyze(context.Background(), args[0], !analyzeLenient, temperature)
	stop()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	elapsed := time.Since(start)
	fmt.Fprintf(os.Stderr, "Analysis complete (%.2fs)\n\n", elapsed.Seconds())

	if analyzeFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(result)
	return nil
}

func printResult(result *analyzer.Result) {
	fmt.Printf("Label:      %s\n", labelColor(result.Label).Sprint(result.Label))
	fmt.Printf("Confidence: %.2f\n", result.Confidence)
	if result.Explanation != "" {
		fmt.Printf("Rationale:  %s\n", result.Explanation)
	}
	if len(result.EvidencePhrases) > 0 {
		fmt.Println("Evidence:")
		for _, phrase := range result.EvidencePhrases {
			fmt.Printf("  - %s\n", phrase)
		}
	}
}

func labelColor(label string) *color.Color {
	switch label {
	case analyzer.LabelPositive:
		return color.New(color.FgGreen, color.Bold)
	case analyzer.LabelNegative:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgYellow, color.Bold)
	}
}

// startSpinner shows a spinner on stderr while the model call runs. It is
// a no-op when stderr is not a terminal.
func startSpinner(message string) func() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintln(os.Stderr, message)
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	return s.Stop
}
