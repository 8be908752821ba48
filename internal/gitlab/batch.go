package gitlab

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBatchSize is the number of calls issued concurrently per batch.
	DefaultBatchSize = 5
	// DefaultBatchDelay is the pause between consecutive batches.
	DefaultBatchDelay = 200 * time.Millisecond
)

// BatchResult captures the independent outcome of one item in a batch.
type BatchResult[T, V any] struct {
	Item  T
	Value V
	Err   error
}

// BatchOptions controls FetchBatch partitioning and pacing.
type BatchOptions struct {
	Size  int
	Delay time.Duration
}

// FetchBatch partitions items into fixed-size groups, runs all calls within a
// group concurrently, waits for the whole group, then pauses before the next
// group. One item's failure never aborts the batch or any sibling call; each
// outcome is recorded in its BatchResult. The only error FetchBatch itself
// returns is context cancellation, in which case partial results are
// discarded.
func FetchBatch[T, V any](ctx context.Context, items []T, fetch func(context.Context, T) (V, error), opts BatchOptions) ([]BatchResult[T, V], error) {
	size := opts.Size
	if size <= 0 {
		size = DefaultBatchSize
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultBatchDelay
	}

	results := make([]BatchResult[T, V], len(items))

	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + size
		if end > len(items) {
			end = len(items)
		}

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				v, err := fetch(ctx, items[i])
				results[i] = BatchResult[T, V]{Item: items[i], Value: v, Err: err}
				return nil
			})
		}
		// Workers always return nil; failures live in results.
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// No pause after the final batch.
		if end < len(items) {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return results, nil
}
