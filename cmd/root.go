package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "topictaxonomy",
	Short: "Build a named topic taxonomy from a podcast episode corpus",
	Long: `topictaxonomy ingests per-episode topic records, embeds unique topics,
clusters them by weighted agglomerative linkage, assigns each cluster a
name, and emits a stable taxonomy artifact for downstream visualizations.`,
}

// Execute runs the root command.
func Execute() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
