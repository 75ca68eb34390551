// Package cluster drives the agglomerative merge loop that groups unique
// topics into clusters under a configurable linkage and relevance
// weighting policy.
package cluster

import "github.com/castmap/topictaxonomy/internal/distance"

// Cluster is a live cluster during the agglomerative process: a set of
// topic indices, their weighted centroid, and the outlier signals
// accumulated along its construction path.
type Cluster struct {
	Items            []int
	Embedding        []float64
	TotalWeight      float64
	IsOutlier        bool
	MaxMergeDistance float64
}

// Options configures one clustering run.
type Options struct {
	Linkage               distance.Linkage
	UseRelevanceWeighting bool
	OutlierThreshold      float64
}

// asGroup adapts a Cluster to the distance package's linkage input shape.
func (c *Cluster) asGroup() distance.Group {
	return distance.Group{Items: c.Items, Centroid: c.Embedding, TotalWeight: c.TotalWeight}
}
