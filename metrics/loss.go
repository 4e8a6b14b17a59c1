package metrics

import "math"

// DefaultEpsilon is the probability clip used by BinaryCrossEntropy.
const DefaultEpsilon = 1e-7

// BinaryCrossEntropy scores hard predictions as probabilities clipped to
// [Epsilon, 1-Epsilon]. It satisfies cut.LossFunc.
type BinaryCrossEntropy struct {
	Epsilon float64
}

// Compute returns the (weighted) mean cross-entropy. weights may be nil.
func (l BinaryCrossEntropy) Compute(labels []int, predictions []bool, weights []float64) float64 {
	eps := l.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	hit := -math.Log(1 - eps)
	miss := -math.Log(eps)

	var sum, total float64
	for i, y := range labels {
		w := weightAt(weights, i)
		if (y == 1) == predictions[i] {
			sum += w * hit
		} else {
			sum += w * miss
		}
		total += w
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

// ClassificationErrorLoss is the (weighted) fraction of wrong predictions,
// i.e. one minus accuracy.
type ClassificationErrorLoss struct{}

// Compute returns the misclassified weight fraction.
func (ClassificationErrorLoss) Compute(labels []int, predictions []bool, weights []float64) float64 {
	var wrong, total float64
	for i, y := range labels {
		w := weightAt(weights, i)
		if (y == 1) != predictions[i] {
			wrong += w
		}
		total += w
	}
	if total == 0 {
		return 0
	}
	return wrong / total
}

// BalancedErrorLoss averages the error rate of each class so that a rare
// signal class counts as much as the background.
type BalancedErrorLoss struct{}

// Compute returns (FNR + FPR) / 2 over the classes present.
func (BalancedErrorLoss) Compute(labels []int, predictions []bool, weights []float64) float64 {
	c := Confusion(labels, predictions, weights)
	var rates []float64
	if s := c.TP + c.FN; s > 0 {
		rates = append(rates, c.FN/s)
	}
	if b := c.TN + c.FP; b > 0 {
		rates = append(rates, c.FP/b)
	}
	if len(rates) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rates {
		sum += r
	}
	return sum / float64(len(rates))
}

func weightAt(weights []float64, i int) float64 {
	if weights == nil {
		return 1
	}
	return weights[i]
}
