// Package parallel provides the chunked worker helpers the estimators use
// to spread row-independent work, such as per-sample prediction, across
// CPU cores.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits the half-open range [0, items) into one contiguous
// chunk per worker and calls fn(start, end) for each chunk on its own
// goroutine. Every index is covered exactly once. The call returns after
// all workers finish; fn must be safe to run concurrently.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > items {
		workers = items
	}

	// Spread the remainder over the leading chunks so sizes differ by
	// at most one and no worker receives an empty range.
	base := items / workers
	extra := items % workers

	var wg sync.WaitGroup
	start := 0
	for i := 0; i < workers; i++ {
		size := base
		if i < extra {
			size++
		}
		end := start + size

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)

		start = end
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine when
// items does not exceed threshold, and falls back to Parallelize above it.
// Small prediction batches stay sequential this way and keep goroutine
// startup off their hot path.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}

	Parallelize(items, fn)
}
