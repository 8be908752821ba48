package gitlab

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchBatch_AllSucceed(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	results, err := FetchBatch(context.Background(), items, func(ctx context.Context, n int) (int, error) {
		return n * 10, nil
	}, BatchOptions{Size: 3, Delay: time.Millisecond})
	require.NoError(t, err)
	require.Len(t, results, len(items))

	for i, r := range results {
		assert.Equal(t, items[i], r.Item)
		assert.Equal(t, items[i]*10, r.Value)
		assert.NoError(t, r.Err)
	}
}

func TestFetchBatch_OneFailureDoesNotAbortSiblings(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	results, err := FetchBatch(context.Background(), items, func(ctx context.Context, s string) (string, error) {
		if s == "b" {
			return "", fmt.Errorf("boom")
		}
		return s + "!", nil
	}, BatchOptions{Size: 2, Delay: time.Millisecond})
	require.NoError(t, err)

	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.NoError(t, results[3].Err)
	assert.Equal(t, "d!", results[3].Value)
}

func TestFetchBatch_BoundedConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 20)

	_, err := FetchBatch(context.Background(), items, func(ctx context.Context, n int) (int, error) {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return 0, nil
	}, BatchOptions{Size: 4, Delay: time.Millisecond})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(4))
}

func TestFetchBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	items := make([]int, 50)

	var calls atomic.Int32
	results, err := FetchBatch(ctx, items, func(ctx context.Context, n int) (int, error) {
		if calls.Add(1) == 3 {
			cancel()
		}
		return 0, nil
	}, BatchOptions{Size: 5, Delay: 10 * time.Millisecond})

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results, "partial results are discarded on cancellation")
	assert.Less(t, calls.Load(), int32(50))
}

func TestFetchBatch_Empty(t *testing.T) {
	results, err := FetchBatch(context.Background(), nil, func(ctx context.Context, n int) (int, error) {
		return 0, nil
	}, BatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}
