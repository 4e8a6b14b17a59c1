package cut

import (
	"cmp"
	"slices"
)

// Pair is a candidate (lower, upper) threshold pair with Lower < Upper.
type Pair struct {
	Lower float64
	Upper float64
}

// CandidatePairs sorts and deduplicates edges, then returns every pair
// (edges[i], edges[j]) with i < j, ordered by i then j. A single distinct
// edge is paired with observedMax when observedMax lies above it.
//
// Edges must be NaN-free.
func CandidatePairs(edges []float64, observedMax float64) []Pair {
	sorted := slices.Clone(edges)
	slices.SortStableFunc(sorted, cmp.Compare[float64])
	sorted = slices.CompactFunc(sorted, func(a, b float64) bool {
		return cmp.Compare(a, b) == 0
	})

	if len(sorted) == 1 && observedMax > sorted[0] {
		sorted = append(sorted, observedMax)
	}

	n := len(sorted)
	if n < 2 {
		return nil
	}
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{Lower: sorted[i], Upper: sorted[j]})
		}
	}
	return pairs
}
