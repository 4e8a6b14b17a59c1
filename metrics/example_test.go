package metrics_test

import (
	"fmt"

	"github.com/ezoic/cutflow/metrics"
)

// ExampleConfusionCounts shows the selection metrics of a cut
func ExampleConfusionCounts() {
	labels := []int{1, 1, 1, 1, 0, 0, 0, 0}
	pass := []bool{true, true, true, false, true, false, false, false}

	c := metrics.Confusion(labels, pass, nil)
	fmt.Printf("Signal efficiency: %.2f\n", c.SignalEfficiency())
	fmt.Printf("Background rejection: %.2f\n", c.BackgroundRejection())
	fmt.Printf("Purity: %.2f\n", c.Purity())

	// Output: Signal efficiency: 0.75
	// Background rejection: 0.75
	// Purity: 0.75
}

// ExampleClassificationErrorLoss demonstrates a loss callback
func ExampleClassificationErrorLoss() {
	labels := []int{1, 0, 1, 0}
	pass := []bool{true, true, true, false}

	var loss metrics.ClassificationErrorLoss
	fmt.Printf("Unweighted: %.2f\n", loss.Compute(labels, pass, nil))
	fmt.Printf("Weighted: %.2f\n", loss.Compute(labels, pass, []float64{1, 3, 1, 1}))

	// Output: Unweighted: 0.25
	// Weighted: 0.50
}
