package cut

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Histogram bins values into nBins equal-width bins spanning [lo, hi] and
// returns the per-bin counts together with the nBins+1 edges. Bin i holds
// edges[i] <= v < edges[i+1]; the last bin is closed on both ends so the
// maximum is counted. Values outside [lo, hi] are skipped. NaN must be
// rejected by the caller.
func Histogram(values []float64, lo, hi float64, nBins int) ([]uint64, []float64) {
	edges := floats.Span(make([]float64, nBins+1), lo, hi)
	edges[nBins] = hi
	counts := make([]uint64, nBins)

	for _, v := range values {
		if v < lo || v > hi {
			continue
		}
		counts[binIndex(edges, v)]++
	}
	return counts, edges
}

// binIndex returns the bin holding v, which must lie within the edges.
func binIndex(edges []float64, v float64) int {
	nBins := len(edges) - 1
	i := sort.SearchFloat64s(edges, v) // first edge >= v
	if i == len(edges) || edges[i] != v {
		i--
	}
	if i >= nBins {
		i = nBins - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Boundaries returns the edges at which dominance of hSelf over hOther
// flips. A flip between bins i and i+1 counts only when hSelf[i] is
// non-empty, and maps to edges[i+1].
func Boundaries(hSelf, hOther []uint64, edges []float64) []float64 {
	var out []float64
	for i := 0; i+1 < len(hSelf); i++ {
		cur := hSelf[i] > hOther[i]
		next := hSelf[i+1] > hOther[i+1]
		if cur != next && hSelf[i] > 0 {
			out = append(out, edges[i+1])
		}
	}
	return out
}

// BoundaryEdges histograms both classes over [lo, hi] and returns the union
// of the boundaries found with background as self and with signal as self.
// The result may contain duplicates and is not sorted.
func BoundaryEdges(background, signal []float64, lo, hi float64, nBins int) []float64 {
	hBkg, edges := Histogram(background, lo, hi, nBins)
	hSig, _ := Histogram(signal, lo, hi, nBins)

	out := Boundaries(hBkg, hSig, edges)
	return append(out, Boundaries(hSig, hBkg, edges)...)
}
