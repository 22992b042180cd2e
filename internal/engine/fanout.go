package engine

import (
	"context"
	"sync"
)

// fanOut runs fn over items with at most concurrency workers. Results
// and errors are returned in input order, one slot per item. A failed
// item fills only its own error slot; other items are unaffected.
func fanOut[T, R any](
	ctx context.Context,
	items []T,
	concurrency int,
	fn func(ctx context.Context, item T) (R, error),
) ([]R, []error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))

	if concurrency < 1 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i := range items {
		if err := ctx.Err(); err != nil {
			// Mark the remaining items as cancelled rather than
			// leaving nil error slots for work that never ran.
			for j := i; j < len(items); j++ {
				errs[j] = err
			}
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = fn(ctx, items[i])
		}(i)
	}

	wg.Wait()
	return results, errs
}
