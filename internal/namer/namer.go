package namer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/castmap/topictaxonomy/internal/httpx"
)

// Result is the name assigned to one cluster, in the same order as the
// ClusterInput slice passed to Name.
type Result struct {
	Name string
}

// Name assigns a name to every cluster in clusters, in order, per the
// policy in the specification: "Sonstige" for outliers, an LLM-generated
// name for multi-topic clusters when enabled and the provider succeeds,
// the heuristic name otherwise. LLM calls are issued one at a time, with
// at least half the configured request delay between them; any call
// failure degrades silently to the heuristic rather than aborting the
// run.
func Name(ctx context.Context, clusters []ClusterInput, outlierThreshold float64, cfg Config, provider Provider) ([]Result, []Warning, error) {
	results := make([]Result, len(clusters))
	var warnings []Warning

	spacer := httpx.NewSpacer(time.Duration(cfg.RequestDelayMs/2) * time.Millisecond)

	for i, c := range clusters {
		if c.IsOutlier || c.MaxMergeDistance > outlierThreshold {
			results[i] = Result{Name: Sonstige}
			continue
		}

		if len(c.Members) > 1 && cfg.UseLLM && provider != nil {
			// Wait before every call: the limiter starts with one token, so
			// the first call proceeds at once and each later one is spaced.
			if err := spacer.Wait(ctx); err != nil {
				return nil, nil, err
			}

			name, err := provider.Complete(ctx, prompt(c.Members, cfg.MaxCandidateTopics))
			if err != nil {
				warnings = append(warnings, Warning{ClusterIndex: i, Message: err.Error()})
			} else if stripped := stripQuotes(name); stripped != "" {
				results[i] = Result{Name: stripped}
				continue
			}
		}

		results[i] = Result{Name: Heuristic(c.Members, cfg.StopWords)}
	}

	return results, warnings, nil
}

// prompt assembles the naming request sent to the LLM: up to limit member
// topics, sorted by descending episode count (the spec's proxy for
// relevance when picking which members to show the model).
func prompt(members []Member, limit int) string {
	sorted := append([]Member(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EpisodeCount > sorted[j].EpisodeCount
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	var b strings.Builder
	b.WriteString("Du bekommst eine Liste thematisch verwandter Podcast-Themen. ")
	b.WriteString("Antworte ausschließlich mit einem kurzen, prägnanten deutschen Kategorienamen ")
	b.WriteString("(2-4 Worte), ohne Anführungszeichen und ohne Erklärung.\n\nThemen:\n")
	for _, m := range sorted {
		fmt.Fprintf(&b, "- %s\n", m.Topic)
	}
	return b.String()
}
