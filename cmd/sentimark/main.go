package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamilpajak/sentimark/internal/config"
	"github.com/kamilpajak/sentimark/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sentimark",
	Short: "LLM sentiment analysis for movie reviews",
	Long: `Sentimark classifies movie reviews as Positive, Negative, or Neutral
using a generative model, and normalizes the model's free-form output
into a strict JSON schema.

Single reviews are analyzed interactively; CSV datasets are scored
against their ground-truth labels.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sentimark %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "sentimark.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (config.Config, error) {
	return config.Load(cfgPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
