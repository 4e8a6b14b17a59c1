// Package metrics provides loss callbacks for the cut search and the
// metrics used to judge a cut-based selection.
//
// Loss types (BinaryCrossEntropy, ClassificationErrorLoss,
// BalancedErrorLoss) implement the single Compute method expected by the
// cut package. The evaluation helpers work on effective classes and boolean
// predictions.
package metrics

import (
	"math"

	"github.com/ezoic/cutflow/pkg/errors"
)

// ConfusionCounts holds (weighted) counts of a binary selection. Signal is
// the positive class.
type ConfusionCounts struct {
	TP, FP, TN, FN float64
}

// Confusion tallies predictions against labels. weights may be nil.
func Confusion(labels []int, predictions []bool, weights []float64) ConfusionCounts {
	var c ConfusionCounts
	for i, y := range labels {
		w := weightAt(weights, i)
		switch {
		case y == 1 && predictions[i]:
			c.TP += w
		case y == 1:
			c.FN += w
		case predictions[i]:
			c.FP += w
		default:
			c.TN += w
		}
	}
	return c
}

// Accuracy is the fraction of correctly classified weight.
func (c ConfusionCounts) Accuracy() float64 {
	total := c.TP + c.FP + c.TN + c.FN
	if total == 0 {
		return 0
	}
	return (c.TP + c.TN) / total
}

// SignalEfficiency is the fraction of signal that passes the selection.
func (c ConfusionCounts) SignalEfficiency() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return c.TP / (c.TP + c.FN)
}

// BackgroundRejection is the fraction of background removed by the
// selection.
func (c ConfusionCounts) BackgroundRejection() float64 {
	if c.TN+c.FP == 0 {
		return 0
	}
	return c.TN / (c.TN + c.FP)
}

// Purity is the signal fraction of the selected sample.
func (c ConfusionCounts) Purity() float64 {
	if c.TP+c.FP == 0 {
		return 0
	}
	return c.TP / (c.TP + c.FP)
}

// Significance is the counting significance s/sqrt(s+b) of the selected
// sample.
func (c ConfusionCounts) Significance() float64 {
	if c.TP+c.FP == 0 {
		return 0
	}
	return c.TP / math.Sqrt(c.TP+c.FP)
}

// AccuracyScore returns the fraction of predictions matching labels.
func AccuracyScore(labels []int, predictions []bool) (float64, error) {
	if len(labels) == 0 {
		return 0, errors.NewValueError("AccuracyScore", "input vectors cannot be empty")
	}
	if len(labels) != len(predictions) {
		return 0, errors.NewDimensionError("AccuracyScore", len(labels), len(predictions), 0)
	}
	return Confusion(labels, predictions, nil).Accuracy(), nil
}
