// Package datasets generates labelled toy samples for cut classifiers.
//
// Every generator takes an explicit seed so that fits over the generated
// data are reproducible.
package datasets

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ezoic/cutflow/core/dataset"
	"github.com/ezoic/cutflow/pkg/errors"
)

// Distribution draws one feature value.
type Distribution interface {
	Rand() float64
}

// Mixture draws from A or B with equal probability.
type Mixture struct {
	A, B Distribution
	Src  rand.Source
}

// Rand draws one value.
func (m Mixture) Rand() float64 {
	if m.Src.Uint64()&1 == 0 {
		return m.A.Rand()
	}
	return m.B.Rand()
}

// FeatureSpec gives the signal and background distributions of one feature.
type FeatureSpec struct {
	Signal     Distribution
	Background Distribution
}

// Sample is a generated data set in column form.
type Sample struct {
	Columns []dataset.FeatureColumn
	Labels  *dataset.LabelVector
}

// Len returns the number of samples.
func (s *Sample) Len() int {
	return s.Labels.Len()
}

// Generate draws nSignal signal samples followed by nBackground background
// samples, one column per FeatureSpec.
func Generate(specs []FeatureSpec, nSignal, nBackground int) (*Sample, error) {
	if len(specs) == 0 {
		return nil, errors.NewModelError("Generate", "no features", errors.ErrEmptyData)
	}
	if nSignal < 0 || nBackground < 0 || nSignal+nBackground == 0 {
		return nil, errors.NewValueError("Generate", "sample counts must be non-negative and not both zero")
	}

	n := nSignal + nBackground
	classes := make([]int, n)
	for i := 0; i < nSignal; i++ {
		classes[i] = dataset.Signal
	}

	cols := make([]dataset.FeatureColumn, len(specs))
	for j, spec := range specs {
		col := make(dataset.FeatureColumn, n)
		for i := 0; i < nSignal; i++ {
			col[i] = spec.Signal.Rand()
		}
		for i := nSignal; i < n; i++ {
			col[i] = spec.Background.Rand()
		}
		cols[j] = col
	}
	return &Sample{Columns: cols, Labels: dataset.NewLabelVector(classes)}, nil
}

// Normal returns a Gaussian distribution seeded from seed.
func Normal(mu, sigma float64, seed uint64) distuv.Normal {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// Uniform returns a uniform distribution on [lo, hi) seeded from seed.
func Uniform(lo, hi float64, seed uint64) distuv.Uniform {
	return distuv.Uniform{Min: lo, Max: hi, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// TwoGaussians draws one feature with signal ~ N(-shift, sigma) and
// background ~ N(+shift, sigma), so the best cut is Left near zero.
func TwoGaussians(n int, shift, sigma float64, seed uint64) (*Sample, error) {
	return Generate([]FeatureSpec{{
		Signal:     Normal(-shift, sigma, seed),
		Background: Normal(shift, sigma, seed+1),
	}}, n, n)
}

// FourShapes draws four independent features whose best cuts are Left,
// Right, Middle and BothSides respectively.
func FourShapes(n int, seed uint64) (*Sample, error) {
	s := seed * 16
	mix := func(a, b float64, k uint64) Mixture {
		return Mixture{A: Normal(a, 0.5, s+k), B: Normal(b, 0.5, s+k+1), Src: rand.NewPCG(s+k+2, s)}
	}
	return Generate([]FeatureSpec{
		{Signal: Normal(-3, 1, s+1), Background: Normal(3, 1, s+2)},
		{Signal: Normal(3, 1, s+3), Background: Normal(-3, 1, s+4)},
		{Signal: Normal(0, 0.5, s+5), Background: mix(-4, 4, 6)},
		{Signal: mix(-4, 4, 9), Background: Normal(0, 0.5, s+12)},
	}, n, n)
}
