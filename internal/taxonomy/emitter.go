package taxonomy

import (
	"fmt"
	"sort"
	"time"
)

// ClusterInput is the minimal shape Emit needs from one named, finished
// cluster. Computing it (episode union, sample topics, slug) is the
// driver's job; this package only sorts, tallies statistics, and
// serializes — its one responsibility per the specification.
type ClusterInput struct {
	ID           string
	Name         string
	IsOutlier    bool
	TopicCount   int
	SampleTopics []string
	Episodes     []int // ascending, already deduplicated
}

// Meta carries the run-level fields echoed into the artifact alongside
// the cluster list.
type Meta struct {
	EmbeddingModel      string
	EmbeddingsCreatedAt time.Time
	TotalTopics         int
	UniqueTopics        int
	Settings            Settings
	CreatedAt           time.Time
}

// Emit sorts clusters by descending episode coverage (ties broken by
// ascending id), computes outlier statistics, and assembles the final
// Taxonomy artifact.
func Emit(clusters []ClusterInput, meta Meta) *Taxonomy {
	sorted := append([]ClusterInput(nil), clusters...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ei, ej := len(sorted[i].Episodes), len(sorted[j].Episodes)
		if ei != ej {
			return ei > ej
		}
		return sorted[i].ID < sorted[j].ID
	})

	out := make([]Cluster, len(sorted))
	outlierCount := 0
	for i, c := range sorted {
		episodeCount := len(c.Episodes)
		sample := c.SampleTopics
		if len(sample) > 5 {
			sample = sample[:5]
		}
		out[i] = Cluster{
			ID:           c.ID,
			Name:         c.Name,
			Description:  fmt.Sprintf("%d Topics in %d Episoden", c.TopicCount, episodeCount),
			IsOutlier:    c.IsOutlier,
			TopicCount:   c.TopicCount,
			EpisodeCount: episodeCount,
			SampleTopics: sample,
			Episodes:     c.Episodes,
		}
		if c.IsOutlier {
			outlierCount++
		}
	}

	var outlierPct float64
	if len(out) > 0 {
		outlierPct = float64(outlierCount) / float64(len(out)) * 100
	}

	return &Taxonomy{
		CreatedAt:           meta.CreatedAt,
		Method:              Method,
		EmbeddingModel:      meta.EmbeddingModel,
		EmbeddingsCreatedAt: meta.EmbeddingsCreatedAt,
		TotalTopics:         meta.TotalTopics,
		UniqueTopics:        meta.UniqueTopics,
		Settings:            meta.Settings,
		Statistics: Statistics{
			ClusterCount:      len(out),
			OutlierCount:      outlierCount,
			OutlierPercentage: outlierPct,
		},
		Clusters: out,
	}
}
