package distance

import "math"

// Linkage names one of the five cluster-to-cluster distance functions.
type Linkage string

const (
	Single   Linkage = "single"
	Complete Linkage = "complete"
	Average  Linkage = "average"
	Weighted Linkage = "weighted"
	Ward     Linkage = "ward"
)

// Valid reports whether l is one of the five recognized linkage methods.
func (l Linkage) Valid() bool {
	switch l {
	case Single, Complete, Average, Weighted, Ward:
		return true
	}
	return false
}

// Group is the minimal shape a linkage computation needs from a live
// cluster: its member item indices, its centroid, and its total weight.
// Defined here (rather than accepted as the cluster package's own type) so
// this package has no dependency on the cluster package.
type Group struct {
	Items       []int
	Centroid    []float64
	TotalWeight float64
}

// ClusterDistance lifts the pairwise item distance matrix to a scalar
// cluster-to-cluster distance under the given linkage. weights holds each
// item's initial per-topic weight, indexed by item id; its values are only
// read by the "weighted" linkage, and "ward" uses each group's TotalWeight
// when weights is non-nil and its item count when weights is nil.
func ClusterDistance(m *Matrix, a, b Group, weights []float64, linkage Linkage) float64 {
	switch linkage {
	case Single:
		return extremum(m, a.Items, b.Items, math.Inf(1), func(cur, d float64) float64 {
			if d < cur {
				return d
			}
			return cur
		})
	case Complete:
		return extremum(m, a.Items, b.Items, math.Inf(-1), func(cur, d float64) float64 {
			if d > cur {
				return d
			}
			return cur
		})
	case Average:
		var sum float64
		var count int
		for _, i := range a.Items {
			for _, j := range b.Items {
				sum += m.At(i, j)
				count++
			}
		}
		if count == 0 {
			return 0
		}
		return sum / float64(count)
	case Weighted:
		var num, den float64
		for _, i := range a.Items {
			for _, j := range b.Items {
				wi, wj := weights[i], weights[j]
				num += m.At(i, j) * wi * wj
				den += wi * wj
			}
		}
		if den == 0 {
			return 0
		}
		return num / den
	case Ward:
		nA, nB := groupSize(a, weights != nil), groupSize(b, weights != nil)
		return math.Sqrt(2*nA*nB/(nA+nB)) * Cosine(a.Centroid, b.Centroid)
	default:
		return math.Inf(1)
	}
}

func extremum(m *Matrix, itemsA, itemsB []int, init float64, combine func(cur, d float64) float64) float64 {
	cur := init
	for _, i := range itemsA {
		for _, j := range itemsB {
			cur = combine(cur, m.At(i, j))
		}
	}
	return cur
}

// groupSize returns totalWeight when weighting is enabled, item count
// otherwise — the n_X term in the ward formula.
func groupSize(g Group, weighted bool) float64 {
	if weighted {
		return g.TotalWeight
	}
	return float64(len(g.Items))
}
