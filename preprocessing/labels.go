// Package preprocessing converts caller label encodings into the effective
// class vector used by the cut search.
//
// Two encodings are accepted and resolved once, at the boundary:
//
//   - binary: one column (or a flat slice) of 0/1 values, 1 = signal
//   - categorical: two columns holding a one-hot or probability pair
//     [background, signal]; the larger column wins, ties go to background
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/cutflow/core/dataset"
	"github.com/ezoic/cutflow/pkg/errors"
)

// LabelFormat identifies how labels were encoded by the caller.
type LabelFormat int

const (
	// Binary labels are a single 0/1 column.
	Binary LabelFormat = iota
	// Categorical labels are a two-column one-hot or probability pair.
	Categorical
)

// String returns the format name.
func (f LabelFormat) String() string {
	if f == Categorical {
		return "categorical"
	}
	return "binary"
}

// DetectLabelFormat reports the encoding of y from its column count.
func DetectLabelFormat(y mat.Matrix) (LabelFormat, error) {
	_, c := y.Dims()
	switch c {
	case 1:
		return Binary, nil
	case 2:
		return Categorical, nil
	default:
		return Binary, errors.NewValueError("DetectLabelFormat",
			fmt.Sprintf("labels must have 1 or 2 columns, got %d", c))
	}
}

// EncodeLabels normalises a binary column or a two-column categorical
// matrix into a LabelVector with uniform weights.
//
// Example:
//
//	y := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 0.3, 0.7})
//	labels, err := preprocessing.EncodeLabels(y) // Classes: [0 1 1]
func EncodeLabels(y mat.Matrix) (_ *dataset.LabelVector, err error) {
	defer errors.Recover(&err, "EncodeLabels")

	format, err := DetectLabelFormat(y)
	if err != nil {
		return nil, err
	}
	r, _ := y.Dims()
	if r == 0 {
		return nil, errors.NewModelError("EncodeLabels", "empty labels", errors.ErrEmptyData)
	}

	if format == Binary {
		values := make([]float64, r)
		mat.Col(values, 0, y)
		return EncodeBinary(values)
	}

	classes := make([]int, r)
	for i := 0; i < r; i++ {
		bkg, sig := y.At(i, 0), y.At(i, 1)
		if !finite(bkg) {
			return nil, errors.NewInvalidInputError("EncodeLabels", -1, i, bkg)
		}
		if !finite(sig) {
			return nil, errors.NewInvalidInputError("EncodeLabels", -1, i, sig)
		}
		if sig > bkg {
			classes[i] = dataset.Signal
		}
	}
	return dataset.NewLabelVector(classes), nil
}

// EncodeBinary converts 0/1 values into a LabelVector.
func EncodeBinary(values []float64) (*dataset.LabelVector, error) {
	classes := make([]int, len(values))
	for i, v := range values {
		switch {
		case !finite(v):
			return nil, errors.NewInvalidInputError("EncodeBinary", -1, i, v)
		case v == 0:
			classes[i] = dataset.Background
		case v == 1:
			classes[i] = dataset.Signal
		default:
			return nil, errors.NewValidationError("label",
				fmt.Sprintf("binary labels must be 0 or 1, found %v at index %d", v, i), v)
		}
	}
	return dataset.NewLabelVector(classes), nil
}

// WithWeights attaches per-sample weights to labels after checking them.
func WithWeights(labels *dataset.LabelVector, weights []float64) (*dataset.LabelVector, error) {
	out := &dataset.LabelVector{Classes: labels.Classes, Weights: weights}
	if err := out.Validate("WithWeights"); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodePredictions converts boolean predictions into the caller's format:
// an n×1 0/1 column for Binary, an n×2 one-hot matrix for Categorical.
func DecodePredictions(pred []bool, format LabelFormat) *mat.Dense {
	if format == Categorical {
		out := mat.NewDense(len(pred), 2, nil)
		for i, p := range pred {
			if p {
				out.Set(i, 1, 1)
			} else {
				out.Set(i, 0, 1)
			}
		}
		return out
	}
	out := mat.NewDense(len(pred), 1, nil)
	for i, p := range pred {
		if p {
			out.Set(i, 0, 1)
		}
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
