package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/castmap/topictaxonomy/internal/taxonomy"
)

var taxonomyShowCmd = &cobra.Command{
	Use:   "taxonomy [path]",
	Short: "Render a topic-taxonomy.json artifact as a table",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTaxonomyShow,
}

func init() {
	rootCmd.AddCommand(taxonomyShowCmd)
}

func runTaxonomyShow(cmd *cobra.Command, args []string) error {
	path := "topic-taxonomy.json"
	if len(args) == 1 {
		path = args[0]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading taxonomy file %s: %w", path, err)
	}

	var tax taxonomy.Taxonomy
	if err := json.Unmarshal(data, &tax); err != nil {
		return fmt.Errorf("parsing taxonomy file %s: %w", path, err)
	}

	renderTaxonomyTable(tax)
	return nil
}

// renderTaxonomyTable prints the emitted clusters using the teacher's
// signature purple/pink lipgloss palette and column layout, adapted from
// the commit-episode table to the cluster/topic/episode-count shape.
func renderTaxonomyTable(tax taxonomy.Taxonomy) {
	var (
		headerColor  = lipgloss.Color("#F780FF")
		nameColor    = lipgloss.Color("#BD93F9")
		numberColor  = lipgloss.Color("#FF79C6")
		outlierColor = lipgloss.Color("#6272A4")
		summaryColor = lipgloss.Color("#8BE9FD")
		borderColor  = lipgloss.Color("#6272A4")
	)

	const (
		nameWidth    = 28
		topicWidth   = 8
		episodeWidth = 10
		outlierWidth = 10
	)

	headerStyle := lipgloss.NewStyle().Foreground(headerColor).Bold(true).Padding(0, 1)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	headers := []string{
		headerStyle.Width(nameWidth).Render("CLUSTER"),
		headerStyle.Width(topicWidth).Align(lipgloss.Right).Render("TOPICS"),
		headerStyle.Width(episodeWidth).Align(lipgloss.Right).Render("EPISODES"),
		headerStyle.Width(outlierWidth).Render("OUTLIER"),
	}
	fmt.Println(strings.Join(headers, borderStyle.Render("│")))

	separator := []string{
		strings.Repeat("─", nameWidth),
		strings.Repeat("─", topicWidth),
		strings.Repeat("─", episodeWidth),
		strings.Repeat("─", outlierWidth),
	}
	fmt.Println(borderStyle.Render(strings.Join(separator, "┼")))

	nameStyle := lipgloss.NewStyle().Foreground(nameColor).Padding(0, 1).Width(nameWidth)
	numStyle := lipgloss.NewStyle().Foreground(numberColor).Padding(0, 1).Width(topicWidth).Align(lipgloss.Right)
	episodeStyle := lipgloss.NewStyle().Foreground(numberColor).Padding(0, 1).Width(episodeWidth).Align(lipgloss.Right)
	outlierStyle := lipgloss.NewStyle().Foreground(outlierColor).Padding(0, 1).Width(outlierWidth)

	for _, c := range tax.Clusters {
		outlierLabel := ""
		if c.IsOutlier {
			outlierLabel = "yes"
		}
		cells := []string{
			nameStyle.Render(c.Name),
			numStyle.Render(fmt.Sprintf("%d", c.TopicCount)),
			episodeStyle.Render(fmt.Sprintf("%d", c.EpisodeCount)),
			outlierStyle.Render(outlierLabel),
		}
		fmt.Println(strings.Join(cells, borderStyle.Render("│")))
	}

	fmt.Println()
	summaryStyle := lipgloss.NewStyle().Foreground(summaryColor).Italic(true)
	summary := fmt.Sprintf("Total: %d clusters, %d outliers (%.1f%%)",
		tax.Statistics.ClusterCount, tax.Statistics.OutlierCount, tax.Statistics.OutlierPercentage)
	fmt.Println(summaryStyle.Render(summary))
}
