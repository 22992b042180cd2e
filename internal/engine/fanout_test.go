package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOut_PreservesOrder(t *testing.T) {
	t.Parallel()

	items := []int{5, 3, 8, 1, 9, 2}

	results, errs := fanOut(context.Background(), items, 3,
		func(_ context.Context, n int) (string, error) {
			// Reverse the natural completion order so slower tasks
			// finish last without affecting result order.
			time.Sleep(time.Duration(10-n) * time.Millisecond)
			return fmt.Sprintf("v%d", n), nil
		})

	require.Len(t, results, len(items))
	for i, n := range items {
		assert.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("v%d", n), results[i])
	}
}

func TestFanOut_FailureIsolation(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	items := []int{1, 2, 3, 4}

	results, errs := fanOut(context.Background(), items, 2,
		func(_ context.Context, n int) (int, error) {
			if n == 3 {
				return 0, boom
			}
			return n * 10, nil
		})

	assert.Equal(t, []int{10, 20, 0, 40}, results)
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[2], boom)
	assert.NoError(t, errs[3], "failure of one task leaves the rest intact")
}

func TestFanOut_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	const limit = 3
	var current, peak int64
	var mu sync.Mutex

	items := make([]int, 20)
	_, errs := fanOut(context.Background(), items, limit,
		func(_ context.Context, _ int) (struct{}, error) {
			n := atomic.AddInt64(&current, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&current, -1)
			return struct{}{}, nil
		})

	for _, err := range errs {
		assert.NoError(t, err)
	}
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, int64(limit))
}

func TestFanOut_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []int{1, 2, 3}
	_, errs := fanOut(ctx, items, 2,
		func(_ context.Context, n int) (int, error) {
			return n, nil
		})

	for _, err := range errs {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestFanOut_Empty(t *testing.T) {
	t.Parallel()

	results, errs := fanOut(context.Background(), nil, 4,
		func(_ context.Context, _ int) (int, error) { return 0, nil })
	assert.Empty(t, results)
	assert.Empty(t, errs)
}
