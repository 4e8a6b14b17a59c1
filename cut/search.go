package cut

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ezoic/cutflow/core/dataset"
	"github.com/ezoic/cutflow/core/parallel"
	"github.com/ezoic/cutflow/pkg/errors"
)

// MinBins is the smallest bin count accepted by the search.
const MinBins = 2

// Result is the outcome of a successful single-feature search.
type Result struct {
	Parameters  Parameters
	Loss        float64
	NCandidates int
}

// FitFeature finds the cut on x that minimises loss against y.
//
// It histograms both classes over [min(x), max(x)] with nBins bins, takes
// the edges where class dominance flips as candidates, and scores every
// candidate pair under each Case. The first pair in CandidatePairs order
// wins loss ties, so the result is fully reproducible.
//
// A nil Result with a nil error means the feature carries nothing to cut on:
// x is constant or no boundary was found. FitFeature does not say which;
// Unit.Fit runs the same search and keeps the explanation in Unit.Reason.
//
// Example:
//
//	res, err := cut.FitFeature(x, labels, 100, metrics.BinaryCrossEntropy{})
//	if err != nil {
//		return err
//	}
//	if res != nil {
//		fmt.Println(res.Parameters)
//	}
func FitFeature(x []float64, y *dataset.LabelVector, nBins int, loss LossFunc) (_ *Result, err error) {
	defer errors.Recover(&err, "FitFeature")

	if err := validateSearch("FitFeature", x, y, nBins, 0); err != nil {
		return nil, err
	}
	if loss == nil {
		loss = DefaultLoss()
	}
	// The degenerate reason is surfaced by Unit.Reason, not here.
	res, _ := search(x, y, nBins, loss, 1)
	return res, nil
}

func validateSearch(op string, x []float64, y *dataset.LabelVector, nBins, feature int) error {
	if nBins < MinBins {
		return errors.NewValidationError("n_bins", "must be at least 2", nBins)
	}
	if y == nil || len(x) == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if len(x) != y.Len() {
		return errors.NewDimensionError(op, y.Len(), len(x), 0)
	}
	if err := dataset.FeatureColumn(x).Validate(op, feature); err != nil {
		return err
	}
	return y.Validate(op)
}

// search runs the exhaustive scan on validated input. It returns a nil
// Result and a reason when the feature is degenerate. workers > 1 splits
// the candidate pairs into contiguous chunks scored concurrently.
func search(x []float64, y *dataset.LabelVector, nBins int, loss LossFunc, workers int) (*Result, string) {
	lo, hi := floats.Min(x), floats.Max(x)
	if lo == hi {
		return nil, "constant feature"
	}

	var background, signal []float64
	for i, v := range x {
		if y.Classes[i] == dataset.Signal {
			signal = append(signal, v)
		} else {
			background = append(background, v)
		}
	}

	edges := BoundaryEdges(background, signal, lo, hi, nBins)
	if len(edges) == 0 {
		return nil, "no class-dominance boundary"
	}
	pairs := CandidatePairs(edges, hi)
	if len(pairs) == 0 {
		return nil, "no candidate pair"
	}

	best := scanPairs(x, y, pairs, loss, workers)
	pair := pairs[best.index]
	params := Parameters{Lower: pair.Lower, Upper: pair.Upper, Case: best.c}
	if !params.Case.TwoSided() {
		params.Upper = math.NaN()
	}
	return &Result{Parameters: params, Loss: best.loss, NCandidates: len(pairs)}, ""
}

type scanBest struct {
	index int
	loss  float64
	c     Case
}

// scanPairs returns the first pair with the strictly smallest loss.
func scanPairs(x []float64, y *dataset.LabelVector, pairs []Pair, loss LossFunc, workers int) scanBest {
	if workers > len(pairs) {
		workers = len(pairs)
	}
	if workers <= 1 {
		return scanRange(newEvaluator(x, y, loss), pairs, 0, len(pairs))
	}

	chunk := (len(pairs) + workers - 1) / workers
	nChunks := (len(pairs) + chunk - 1) / chunk
	bests := make([]scanBest, nChunks)
	// The callback never fails, so ForEach cannot return an error here.
	_ = parallel.ForEach(context.Background(), nChunks, workers, func(_ context.Context, k int) error {
		start := k * chunk
		end := min(start+chunk, len(pairs))
		bests[k] = scanRange(newEvaluator(x, y, loss), pairs, start, end)
		return nil
	})

	// Chunk losses already went through rankLoss, so none is NaN.
	best := bests[0]
	for _, b := range bests[1:] {
		if b.loss < best.loss {
			best = b
		}
	}
	return best
}

func scanRange(e *evaluator, pairs []Pair, start, end int) scanBest {
	best := scanBest{index: -1}
	for i := start; i < end; i++ {
		l, c := e.evaluate(pairs[i])
		if best.index < 0 || l < best.loss {
			best = scanBest{index: i, loss: l, c: c}
		}
	}
	return best
}
