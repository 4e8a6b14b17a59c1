package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cutErrors "github.com/ezoic/cutflow/pkg/errors"
)

// TestErrorWrappingCompatibility tests stdlib wrapping with our custom types
func TestErrorWrappingCompatibility(t *testing.T) {
	originalErr := cutErrors.NewNotFittedError("TestModel", "Predict")
	wrappedErr := fmt.Errorf("pipeline step failed: %w", originalErr)

	assert.True(t, errors.Is(wrappedErr, originalErr))

	var notFittedErr *cutErrors.NotFittedError
	require.True(t, errors.As(wrappedErr, &notFittedErr))
	assert.Equal(t, "TestModel", notFittedErr.ModelName)
}

// TestCockroachWrapKeepsKind checks the re-exported Wrap helpers preserve
// the sentinel match of the typed errors.
func TestCockroachWrapKeepsKind(t *testing.T) {
	err := cutErrors.Wrapf(cutErrors.NewInvalidInputError("Fit", 0, 3, 0), "feature %d", 0)

	assert.True(t, cutErrors.Is(err, cutErrors.ErrInvalidInput))
	assert.False(t, cutErrors.Is(err, cutErrors.ErrShapeMismatch))

	var inErr *cutErrors.InvalidInputError
	require.True(t, cutErrors.As(err, &inErr))
	assert.Equal(t, 3, inErr.Index)

	assert.Contains(t, fmt.Sprintf("%+v", err), "integration_test.go")
}

// TestCombinedErrorTypes tests mixing custom and standard errors
func TestCombinedErrorTypes(t *testing.T) {
	stdErr := fmt.Errorf("standard error")
	customErr := cutErrors.NewModelError("TestOp", "test failure", stdErr)
	wrappedErr := fmt.Errorf("operation context: %w", customErr)

	assert.True(t, errors.Is(wrappedErr, stdErr))

	var modelErr *cutErrors.ModelError
	require.True(t, errors.As(wrappedErr, &modelErr))
	assert.Equal(t, stdErr, modelErr.Unwrap())
}

// TestSentinelErrors tests sentinel error patterns
func TestSentinelErrors(t *testing.T) {
	err := cutErrors.NewModelError("TestOp", "empty data", cutErrors.ErrEmptyData)
	assert.True(t, errors.Is(err, cutErrors.ErrEmptyData))

	wrappedErr := fmt.Errorf("preprocessing failed: %w", err)
	assert.True(t, errors.Is(wrappedErr, cutErrors.ErrEmptyData))

	degenerate := cutErrors.NewDegenerateFeatureError(4, "constant column")
	assert.True(t, errors.Is(degenerate, cutErrors.ErrDegenerateFeature))
	assert.EqualError(t, degenerate, "cutflow: feature 4 is degenerate: constant column")
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer cutErrors.Recover(&err, "run")
		var s []int
		_ = s[3]
		return nil
	}
	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run: panic")

	runString := func() (err error) {
		defer cutErrors.Recover(&err, "runString")
		panic("bad state")
	}
	err = runString()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runString: panic: bad state")
}
