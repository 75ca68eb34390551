package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/castmap/topictaxonomy/internal/pipeline"
)

var ingestFlags struct {
	episodesDir string
	jsonOutput  bool
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest episode topic records and report the unique-topic count",
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestFlags.episodesDir, "episodes", "episodes", "directory of per-episode topic records")
	ingestCmd.Flags().BoolVar(&ingestFlags.jsonOutput, "json", false, "also print the unique-topic list as JSON to stdout")
}

func runIngest(cmd *cobra.Command, args []string) error {
	progress := pipeline.NewStderrProgress(cmd.OutOrStderr())

	uniqueTopics, _, err := ingestTopics(ingestFlags.episodesDir, progress)
	if err != nil {
		return err
	}

	if !ingestFlags.jsonOutput {
		return nil
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(uniqueTopics)
}
