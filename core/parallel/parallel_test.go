package parallel_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ezoic/cutflow/core/parallel"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParallelizeWithThresholdCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 999, 10_000} {
		out := make([]int, n)
		parallel.ParallelizeWithThreshold(n, 100, func(start, end int) {
			for i := start; i < end; i++ {
				out[i]++
			}
		})
		for i, v := range out {
			require.Equal(t, 1, v, "n=%d index %d", n, i)
		}
	}
}

func TestForEachSerialOrder(t *testing.T) {
	var order []int
	err := parallel.ForEach(context.Background(), 5, 1, func(_ context.Context, i int) error {
		order = append(order, i)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestForEachConcurrent(t *testing.T) {
	results := make([]int, 64)
	var calls atomic.Int64
	err := parallel.ForEach(context.Background(), len(results), 4, func(_ context.Context, i int) error {
		calls.Add(1)
		results[i] = i * i
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 64, calls.Load())
	for i, v := range results {
		assert.Equal(t, i*i, v)
	}
}

func TestForEachReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	for _, workers := range []int{1, 3} {
		err := parallel.ForEach(context.Background(), 10, workers, func(_ context.Context, i int) error {
			if i == 4 {
				return boom
			}
			return nil
		})
		assert.ErrorIs(t, err, boom, "workers=%d", workers)
	}
}
