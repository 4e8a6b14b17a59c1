// Package errors defines the error taxonomy shared by every cutflow package.
//
// It is a thin layer over github.com/cockroachdb/errors: sentinels and the
// Wrap/Newf helpers carry stack traces (print with "%+v"), while the typed
// errors below let callers recover structured details with errors.As:
//
//   - DimensionError: column/label lengths disagree (matches ErrShapeMismatch)
//   - InvalidInputError: NaN or ±Inf in a feature column or label vector
//   - NotFittedError: prediction requested before a successful fit
//   - DegenerateFeatureError: a feature that cannot be cut (warning level)
//   - ValueError, ValidationError, ModelError: configuration and data faults
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors. Typed errors below report Is() == true for the matching
// sentinel so callers can branch on the kind without unpacking fields.
var (
	ErrEmptyData         = errors.New("empty data")
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFitted         = errors.New("not fitted")
	ErrDegenerateFeature = errors.New("degenerate feature")
)

// Re-exported helpers so packages import a single errors package.
var (
	New   = errors.New
	Newf  = errors.Newf
	Wrap  = errors.Wrap
	Wrapf = errors.Wrapf
	Is    = errors.Is
	As    = errors.As
)

// DimensionError reports that an input did not have the expected length.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 = samples, 1 = features
}

func (e *DimensionError) Error() string {
	axis := "samples"
	if e.Axis == 1 {
		axis = "features"
	}
	return fmt.Sprintf("cutflow: %s: dimension mismatch along %s: expected %d, got %d",
		e.Op, axis, e.Expected, e.Got)
}

// Is reports a match against ErrShapeMismatch.
func (e *DimensionError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// NewDimensionError creates a DimensionError.
func NewDimensionError(op string, expected, got, axis int) error {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

// InvalidInputError reports a non-finite value. Feature is -1 when the value
// came from the label vector or its weights.
type InvalidInputError struct {
	Op      string
	Feature int
	Index   int
	Value   float64
}

func (e *InvalidInputError) Error() string {
	if e.Feature < 0 {
		return fmt.Sprintf("cutflow: %s: non-finite label value %v at sample %d", e.Op, e.Value, e.Index)
	}
	return fmt.Sprintf("cutflow: %s: non-finite value %v in feature %d at sample %d",
		e.Op, e.Value, e.Feature, e.Index)
}

// Is reports a match against ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInvalidInputError creates an InvalidInputError.
func NewInvalidInputError(op string, feature, index int, value float64) error {
	return &InvalidInputError{Op: op, Feature: feature, Index: index, Value: value}
}

// NotFittedError is returned when a model is used before Fit succeeded.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("cutflow: %s: %s called before Fit", e.ModelName, e.Method)
}

// Is reports a match against ErrNotFitted.
func (e *NotFittedError) Is(target error) bool {
	return target == ErrNotFitted
}

// NewNotFittedError creates a NotFittedError.
func NewNotFittedError(modelName, method string) error {
	return &NotFittedError{ModelName: modelName, Method: method}
}

// DegenerateFeatureError describes a feature that produced no cut. It is
// collected as a warning, not returned from Fit.
type DegenerateFeatureError struct {
	Feature int
	Reason  string
}

func (e *DegenerateFeatureError) Error() string {
	return fmt.Sprintf("cutflow: feature %d is degenerate: %s", e.Feature, e.Reason)
}

// Is reports a match against ErrDegenerateFeature.
func (e *DegenerateFeatureError) Is(target error) bool {
	return target == ErrDegenerateFeature
}

// NewDegenerateFeatureError creates a DegenerateFeatureError.
func NewDegenerateFeatureError(feature int, reason string) error {
	return &DegenerateFeatureError{Feature: feature, Reason: reason}
}

// ValueError reports an argument with an unusable value.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("cutflow: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError.
func NewValueError(op, message string) error {
	return &ValueError{Op: op, Message: message}
}

// ValidationError reports a parameter that failed validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cutflow: invalid %s (%v): %s", e.ParamName, e.Value, e.Reason)
}

// NewValidationError creates a ValidationError.
func NewValidationError(param, reason string, value interface{}) error {
	return &ValidationError{ParamName: param, Reason: reason, Value: value}
}

// ModelError attaches an operation and message to an underlying cause.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("cutflow: %s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError.
func NewModelError(op, message string, err error) error {
	return &ModelError{Op: op, Message: message, Err: err}
}

// Recover converts a panic in the calling function into an error stored in
// *errp. Use as the first deferred call of a public entry point:
//
//	func (c *Classifier) Fit(X, y mat.Matrix) (err error) {
//		defer errors.Recover(&err, "Classifier.Fit")
//		...
//	}
func Recover(errp *error, op string) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok {
		*errp = errors.Wrapf(e, "%s: panic", op)
		return
	}
	*errp = errors.Newf("%s: panic: %v", op, r)
}
