package discovery

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BoundedBatched runs fn(items[i]) for every item, at most batchSize
// concurrently, with each batch fully completing before the next starts.
// A per-item failure is isolated: it never aborts siblings and is never
// re-raised, only recorded in the returned slice at that index (nil
// otherwise). This is the discipline discovery's enrichment and keyword
// search both use — spec.md §4.3/§5/§9 calls out that it must stay
// textually distinct from UnboundedGather so a refactor can't quietly
// swap the two.
func BoundedBatched[T any](ctx context.Context, items []T, batchSize int, fn func(context.Context, T) error) []error {
	results := make([]error, len(items))
	if batchSize <= 0 {
		batchSize = 1
	}
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		g, gCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = fn(gCtx, items[i])
				return nil
			})
		}
		_ = g.Wait()
	}
	return results
}

// UnboundedGather runs fn(items[i]) for every item concurrently, all at
// once, with no batching. Per-item failures are filtered out of the
// result rather than re-raised; the returned slice preserves input
// order among successful items only (failures are simply absent, not
// nil-padded) per spec.md §4.3's search-hit-metadata contract.
func UnboundedGather[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) []R {
	results := make([]R, len(items))
	ok := make([]bool, len(items))
	var wg sync.WaitGroup
	wg.Add(len(items))
	for i, item := range items {
		i, item := i, item
		go func() {
			defer wg.Done()
			r, err := fn(ctx, item)
			if err != nil {
				return
			}
			results[i] = r
			ok[i] = true
		}()
	}
	wg.Wait()

	out := make([]R, 0, len(items))
	for i := range results {
		if ok[i] {
			out = append(out, results[i])
		}
	}
	return out
}
