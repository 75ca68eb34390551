package cluster

import (
	"github.com/castmap/topictaxonomy/internal/distance"
	"github.com/castmap/topictaxonomy/internal/errs"
)

// Weights returns the per-topic weight used for centroid computation,
// linkage weighting, and TotalWeight accounting: max(1, |episodes|) when
// useRelevanceWeighting is true, 1 otherwise.
func Weights(episodeCounts []int, useRelevanceWeighting bool) []float64 {
	weights := make([]float64, len(episodeCounts))
	for i, n := range episodeCounts {
		if !useRelevanceWeighting || n < 1 {
			weights[i] = 1
			continue
		}
		weights[i] = float64(n)
	}
	return weights
}

// Run drives the agglomerative merge loop to opts' target cluster count.
// embeddings and weights are indexed by the same topic id the matrix was
// built over. The returned clusters are in merge order: the initial
// singletons that never participated in a merge keep their original
// relative order, followed by merges in the order they occurred, last
// merge last.
func Run(m *distance.Matrix, embeddings [][]float64, weights []float64, targetClusters int, opts Options) ([]*Cluster, error) {
	n := len(embeddings)
	if n == 0 {
		return nil, errs.New(errs.NoInputs, "no embeddings supplied to clusterer")
	}
	if targetClusters <= 0 {
		return nil, errs.New(errs.TargetZero, "targetClusters must be positive")
	}
	dim := len(embeddings[0])
	for _, v := range embeddings {
		if len(v) != dim {
			return nil, errs.New(errs.DimensionMismatch, "topic embeddings do not share a common dimension")
		}
	}

	live := make([]*Cluster, n)
	for i, v := range embeddings {
		live[i] = &Cluster{
			Items:       []int{i},
			Embedding:   append([]float64(nil), v...),
			TotalWeight: weights[i],
		}
	}

	if len(live) <= targetClusters {
		return live, nil
	}

	for len(live) > targetClusters {
		bestI, bestJ := -1, -1
		bestDist := 0.0

		// Ascending i, then ascending j: the tie-breaking order pinned by
		// the specification's deterministic nearest-pair search.
		for i := 0; i < len(live); i++ {
			for j := i + 1; j < len(live); j++ {
				d := distance.ClusterDistance(m, live[i].asGroup(), live[j].asGroup(), weights, opts.Linkage)
				if bestI == -1 || d < bestDist {
					bestI, bestJ, bestDist = i, j, d
				}
			}
		}

		a, b := live[bestI], live[bestJ]
		outlierTriggered := bestDist > opts.OutlierThreshold

		merged := merge(a, b, embeddings, weights, bestDist, outlierTriggered)

		next := make([]*Cluster, 0, len(live)-1)
		for idx, c := range live {
			if idx == bestI || idx == bestJ {
				continue
			}
			next = append(next, c)
		}
		next = append(next, merged)
		live = next
	}

	return live, nil
}

// merge computes the union cluster per the specification: items by
// concatenation, a weighted centroid recomputed from the original
// per-topic embeddings (never from an intermediate cluster's own
// centroid, so repeated merges never compound rounding drift), summed
// weight, and outlier/max-merge-distance propagation.
func merge(a, b *Cluster, embeddings [][]float64, weights []float64, mergeDistance float64, outlierTriggered bool) *Cluster {
	items := make([]int, 0, len(a.Items)+len(b.Items))
	items = append(items, a.Items...)
	items = append(items, b.Items...)

	centroid := make([]float64, len(embeddings[0]))
	var wsum float64
	for _, idx := range items {
		w := weights[idx]
		wsum += w
		v := embeddings[idx]
		for k := range centroid {
			centroid[k] += v[k] * w
		}
	}
	if wsum > 0 {
		for k := range centroid {
			centroid[k] /= wsum
		}
	}

	maxMerge := mergeDistance
	if a.MaxMergeDistance > maxMerge {
		maxMerge = a.MaxMergeDistance
	}
	if b.MaxMergeDistance > maxMerge {
		maxMerge = b.MaxMergeDistance
	}

	return &Cluster{
		Items:            items,
		Embedding:        centroid,
		TotalWeight:      a.TotalWeight + b.TotalWeight,
		IsOutlier:        a.IsOutlier || b.IsOutlier || outlierTriggered,
		MaxMergeDistance: maxMerge,
	}
}
