package cut

import (
	"math"

	"github.com/ezoic/cutflow/core/dataset"
	"github.com/ezoic/cutflow/metrics"
)

// LossFunc scores a boolean signal prediction against effective class
// labels. weights is nil for uniform weighting. Implementations must be
// pure: the search calls Compute many times on the same inputs and may call
// it from several goroutines. A NaN result ranks as +Inf, so it never wins a
// comparison against a finite loss.
type LossFunc interface {
	Compute(labels []int, predictions []bool, weights []float64) float64
}

// LossFuncOf adapts a plain function to LossFunc.
type LossFuncOf func(labels []int, predictions []bool, weights []float64) float64

// Compute calls f.
func (f LossFuncOf) Compute(labels []int, predictions []bool, weights []float64) float64 {
	return f(labels, predictions, weights)
}

// DefaultLoss is used when no loss is configured.
func DefaultLoss() LossFunc {
	return metrics.BinaryCrossEntropy{}
}

// evaluator scores the four cases of candidate pairs on one feature. It
// owns a prediction buffer, so each goroutine needs its own evaluator.
type evaluator struct {
	x    []float64
	y    *dataset.LabelVector
	loss LossFunc
	pred []bool
}

func newEvaluator(x []float64, y *dataset.LabelVector, loss LossFunc) *evaluator {
	return &evaluator{x: x, y: y, loss: loss, pred: make([]bool, len(x))}
}

// evaluate returns the smallest loss over the four cases and its case.
// Ties keep the lower ordinal.
func (e *evaluator) evaluate(pair Pair) (float64, Case) {
	var bestLoss float64
	bestCase := Left
	for k, c := range Cases {
		p := Parameters{Lower: pair.Lower, Upper: pair.Upper, Case: c}
		for i, v := range e.x {
			e.pred[i] = p.Accept(v)
		}
		l := rankLoss(e.loss.Compute(e.y.Classes, e.pred, e.y.Weights))
		if k == 0 || l < bestLoss {
			bestLoss, bestCase = l, c
		}
	}
	return bestLoss, bestCase
}

// rankLoss maps NaN to +Inf so strict comparisons order it last.
func rankLoss(l float64) float64 {
	if math.IsNaN(l) {
		return math.Inf(1)
	}
	return l
}

// EvaluatePair scores the Left, Right, Middle and BothSides predictions of
// pair on x and returns the lowest loss and the case that produced it. On
// an exact tie the case with the lower ordinal wins. A NaN loss counts as
// +Inf. A nil loss uses
// DefaultLoss.
func EvaluatePair(x []float64, y *dataset.LabelVector, pair Pair, loss LossFunc) (float64, Case) {
	if loss == nil {
		loss = DefaultLoss()
	}
	return newEvaluator(x, y, loss).evaluate(pair)
}
