// Package dataset holds the two inputs of a cut fit: per-feature value
// columns and the per-sample label vector. Columns are borrowed from the
// caller and never modified.
package dataset

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/cutflow/pkg/errors"
)

// Signal and Background are the effective class values.
const (
	Background = 0
	Signal     = 1
)

// FeatureColumn is the ordered value sequence of one scalar feature.
type FeatureColumn []float64

// LabelVector is the normalised effective class of every sample, with
// optional per-sample weights. A nil Weights slice means uniform weights.
type LabelVector struct {
	Classes []int
	Weights []float64
}

// NewLabelVector wraps classes with uniform weights.
func NewLabelVector(classes []int) *LabelVector {
	return &LabelVector{Classes: classes}
}

// Len returns the number of samples.
func (y *LabelVector) Len() int {
	return len(y.Classes)
}

// Swapped returns a copy with signal and background exchanged.
func (y *LabelVector) Swapped() *LabelVector {
	out := &LabelVector{Classes: make([]int, len(y.Classes)), Weights: y.Weights}
	for i, c := range y.Classes {
		out.Classes[i] = 1 - c
	}
	return out
}

// Restrict returns the labels (and weights) at the given indices.
func (y *LabelVector) Restrict(indices []int) *LabelVector {
	out := &LabelVector{Classes: make([]int, len(indices))}
	for k, i := range indices {
		out.Classes[k] = y.Classes[i]
	}
	if y.Weights != nil {
		out.Weights = make([]float64, len(indices))
		for k, i := range indices {
			out.Weights[k] = y.Weights[i]
		}
	}
	return out
}

// Validate checks class values are 0 or 1 and weights are finite and
// non-negative with matching length.
func (y *LabelVector) Validate(op string) error {
	for i, c := range y.Classes {
		if c != Background && c != Signal {
			return errors.NewValidationError("label",
				"effective class must be 0 or 1 at sample "+strconv.Itoa(i), c)
		}
	}
	if y.Weights == nil {
		return nil
	}
	if len(y.Weights) != len(y.Classes) {
		return errors.NewDimensionError(op, len(y.Classes), len(y.Weights), 0)
	}
	for i, w := range y.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return errors.NewInvalidInputError(op, -1, i, w)
		}
		if w < 0 {
			return errors.NewValidationError("weight", "must be non-negative at sample "+strconv.Itoa(i), w)
		}
	}
	return nil
}

// Restrict returns the values of the column at the given indices.
func (c FeatureColumn) Restrict(indices []int) FeatureColumn {
	out := make(FeatureColumn, len(indices))
	for k, i := range indices {
		out[k] = c[i]
	}
	return out
}

// Validate returns an InvalidInputError for the first NaN or ±Inf value.
func (c FeatureColumn) Validate(op string, feature int) error {
	for i, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.NewInvalidInputError(op, feature, i, v)
		}
	}
	return nil
}

// Columns splits an (n_samples × n_features) matrix into feature columns.
func Columns(X mat.Matrix) []FeatureColumn {
	r, c := X.Dims()
	cols := make([]FeatureColumn, c)
	for j := 0; j < c; j++ {
		col := make(FeatureColumn, r)
		mat.Col(col, j, X)
		cols[j] = col
	}
	return cols
}

// ValidateShape checks that every column has n samples and holds only
// finite values. It reports the first offending feature and sample.
func ValidateShape(op string, cols []FeatureColumn, n int) error {
	if len(cols) == 0 {
		return errors.NewModelError(op, "empty feature list", errors.ErrShapeMismatch)
	}
	for j, col := range cols {
		if len(col) != n {
			return errors.Wrapf(errors.NewDimensionError(op, n, len(col), 0), "feature %d", j)
		}
	}
	for j, col := range cols {
		if err := col.Validate(op, j); err != nil {
			return err
		}
	}
	return nil
}

// AliveIndices returns the indices where mask is true.
func AliveIndices(mask []bool) []int {
	idx := make([]int, 0, len(mask))
	for i, alive := range mask {
		if alive {
			idx = append(idx, i)
		}
	}
	return idx
}
