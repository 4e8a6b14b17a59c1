package cut_test

import (
	"fmt"

	"github.com/ezoic/cutflow/core/dataset"
	"github.com/ezoic/cutflow/cut"
	"github.com/ezoic/cutflow/metrics"
)

func ExampleFitFeature() {
	x := []float64{-0.9, -0.5, 0, 0.5, 0.9, -5, -4, -3, -2, 2, 3, 4, 5}
	y := dataset.NewLabelVector([]int{1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0})

	res, err := cut.FitFeature(x, y, 10, metrics.ClassificationErrorLoss{})
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Parameters, res.Loss)

	res, _ = cut.FitFeature(x, y.Swapped(), 10, metrics.ClassificationErrorLoss{})
	fmt.Println(res.Parameters)

	// Output:
	// middle[-1, 1] 0
	// both_sides[-1, 1]
}

func ExampleNewManualClassifier() {
	clf, err := cut.NewManualClassifier([]cut.Parameters{
		cut.NewOneSided(cut.Left, 2.5),
		{Lower: 10, Upper: 20, Case: cut.Middle},
	}, cut.WithLogger(quietLogger()))
	if err != nil {
		panic(err)
	}

	pred, _ := clf.PredictColumns([]dataset.FeatureColumn{
		{1, 2, 3, 0},
		{15, 25, 12, 10},
	})
	fmt.Println(pred)
	for _, u := range clf.Units() {
		fmt.Printf("feature %d: %d hits\n", u.FeatureIndex, u.HitCount())
	}

	// Output:
	// [true false false true]
	// feature 0: 3 hits
	// feature 1: 3 hits
}
