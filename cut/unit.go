package cut

import (
	"math"
	"sync/atomic"

	"github.com/ezoic/cutflow/core/dataset"
	"github.com/ezoic/cutflow/core/model"
	"github.com/ezoic/cutflow/core/parallel"
	"github.com/ezoic/cutflow/pkg/errors"
)

// parallelPredictThreshold is the column length above which Predict splits
// the work across goroutines.
const parallelPredictThreshold = 1 << 15

// Unit holds the cut on a single feature.
//
// A Unit starts unfit; Fit learns its Parameters with FitFeature. When the
// feature is degenerate the unit becomes a pass-through that accepts every
// sample. A manual unit carries hand-written Parameters instead, cannot be
// fitted, and counts the samples it accepts.
type Unit struct {
	FeatureIndex int
	NBins        int

	params     *Parameters
	loss       float64
	candidates int
	reason     string
	manual     bool
	hits       atomic.Uint64

	lossFn  LossFunc
	workers int
	state   *model.StateManager
}

// UnitOption configures a Unit.
type UnitOption func(*Unit)

// WithUnitLoss sets the loss minimised by Fit.
func WithUnitLoss(loss LossFunc) UnitOption {
	return func(u *Unit) {
		u.lossFn = loss
	}
}

// WithUnitWorkers sets how many goroutines score candidate pairs.
func WithUnitWorkers(n int) UnitOption {
	return func(u *Unit) {
		u.workers = n
	}
}

// NewUnit creates an unfit unit for the feature at featureIndex.
func NewUnit(featureIndex, nBins int, opts ...UnitOption) *Unit {
	u := &Unit{
		FeatureIndex: featureIndex,
		NBins:        nBins,
		lossFn:       DefaultLoss(),
		workers:      1,
		state:        model.NewStateManager(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// NewManualUnit creates a unit with fixed parameters. Its Predict adds the
// number of accepted samples to HitCount.
func NewManualUnit(featureIndex int, params Parameters) (*Unit, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrapf(err, "manual cut on feature %d", featureIndex)
	}
	if !params.Case.TwoSided() {
		params.Upper = math.NaN()
	}
	u := NewUnit(featureIndex, 0)
	u.params = &params
	u.loss = math.NaN()
	u.manual = true
	u.state.SetFitted()
	return u, nil
}

// Fit learns the unit's parameters from x and y, replacing any previous
// fit. A degenerate feature leaves the unit fitted as a pass-through; check
// PassThrough to detect it.
func (u *Unit) Fit(x dataset.FeatureColumn, y *dataset.LabelVector) (err error) {
	defer errors.Recover(&err, "Unit.Fit")

	if u.manual {
		return errors.NewValueError("Unit.Fit", "manual units cannot be fitted")
	}
	if err := validateSearch("Unit.Fit", x, y, u.NBins, u.FeatureIndex); err != nil {
		return err
	}

	res, reason := search(x, y, u.NBins, u.lossFn, u.workers)
	u.fitResult(res, reason)
	u.state.SetDimensions(1, len(x))
	return nil
}

// fitResult stores a search outcome and marks the unit fitted.
func (u *Unit) fitResult(res *Result, reason string) {
	if res == nil {
		u.params = nil
		u.loss = math.NaN()
		u.candidates = 0
		u.reason = reason
	} else {
		p := res.Parameters
		u.params = &p
		u.loss = res.Loss
		u.candidates = res.NCandidates
		u.reason = ""
	}
	u.state.SetFitted()
}

// Predict applies the cut to every value of x. It fails with a
// NotFittedError before Fit and with an InvalidInputError on a NaN or
// infinite value, pass-through units included.
func (u *Unit) Predict(x dataset.FeatureColumn) ([]bool, error) {
	if !u.state.IsFitted() {
		return nil, errors.NewNotFittedError("Unit", "Predict")
	}
	if err := x.Validate("Unit.Predict", u.FeatureIndex); err != nil {
		return nil, err
	}
	return u.predict(x), nil
}

// predict applies the cut to x, which the caller has already validated.
func (u *Unit) predict(x dataset.FeatureColumn) []bool {
	out := make([]bool, len(x))
	if u.params == nil {
		for i := range out {
			out[i] = true
		}
		return out
	}

	p := *u.params
	parallel.ParallelizeWithThreshold(len(x), parallelPredictThreshold, func(start, end int) {
		var accepted uint64
		for i := start; i < end; i++ {
			out[i] = p.Accept(x[i])
			if out[i] {
				accepted++
			}
		}
		if u.manual {
			u.hits.Add(accepted)
		}
	})
	return out
}

// Evaluate returns the loss of the unit's predictions on x against y. The
// labels are validated first, weights included.
func (u *Unit) Evaluate(x dataset.FeatureColumn, y *dataset.LabelVector) (_ float64, err error) {
	defer errors.Recover(&err, "Unit.Evaluate")

	if y == nil || len(x) != y.Len() {
		n := 0
		if y != nil {
			n = y.Len()
		}
		return 0, errors.NewDimensionError("Unit.Evaluate", n, len(x), 0)
	}
	if err := y.Validate("Unit.Evaluate"); err != nil {
		return 0, err
	}
	pred, err := u.Predict(x)
	if err != nil {
		return 0, err
	}
	return u.lossFn.Compute(y.Classes, pred, y.Weights), nil
}

// Parameters returns the cut and true, or false for an unfit or
// pass-through unit.
func (u *Unit) Parameters() (Parameters, bool) {
	if u.params == nil {
		return Parameters{}, false
	}
	return *u.params, true
}

// IsFitted reports whether Predict may be called.
func (u *Unit) IsFitted() bool {
	return u.state.IsFitted()
}

// PassThrough reports whether the fitted unit accepts every sample.
func (u *Unit) PassThrough() bool {
	return u.state.IsFitted() && u.params == nil
}

// Reason explains why a pass-through unit has no cut.
func (u *Unit) Reason() string {
	return u.reason
}

// Manual reports whether the unit was built with NewManualUnit.
func (u *Unit) Manual() bool {
	return u.manual
}

// Loss returns the training loss of the selected cut, NaN when unknown.
func (u *Unit) Loss() float64 {
	return u.loss
}

// Candidates returns how many candidate pairs the last Fit scored.
func (u *Unit) Candidates() int {
	return u.candidates
}

// HitCount returns the number of samples a manual unit has accepted.
func (u *Unit) HitCount() uint64 {
	return u.hits.Load()
}

// ResetHits zeroes HitCount.
func (u *Unit) ResetHits() {
	u.hits.Store(0)
}
