// Package orchestrator fans independent per-bait oracle calls out to a
// bounded worker pool. No bait's validation or fix depends on another
// bait's outcome, so the calls may run concurrently; results are always
// reassembled by bait index before aggregation.
package orchestrator

import (
	"context"
	"sync"
)

// DefaultWorkers bounds concurrent oracle calls when the caller does not
// choose a pool size.
const DefaultWorkers = 4

// Run invokes fn once per index in [0, n) with at most workers concurrent
// calls and returns the results ordered by index. A workers value ≤ 1
// degrades to a plain sequential loop.
func Run[T any](ctx context.Context, n, workers int, fn func(ctx context.Context, index int) T) []T {
	results := make([]T, n)
	if n == 0 {
		return results
	}

	if workers <= 1 {
		for i := 0; i < n; i++ {
			results[i] = fn(ctx, i)
		}
		return results
	}

	type indexed struct {
		index int
		value T
	}

	out := make(chan indexed, n)
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out <- indexed{index: index, value: fn(ctx, index)}
		}(i)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	for r := range out {
		results[r.index] = r.value
	}
	return results
}
