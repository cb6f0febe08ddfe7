// Package parallel provides chunked fan-out helpers for CPU-bound loops.
//
// Covariance-matrix assembly and per-candidate variance scoring are row
// loops with no shared mutable state between rows, so they split cleanly
// into contiguous chunks handed to one goroutine per CPU core.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits items into contiguous [start, end) chunks and runs fn
// once per chunk, one goroutine per available CPU core. It returns after
// all chunks have completed. fn must not touch state shared between chunks
// without its own synchronization.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// Ceiling division so the last chunk absorbs the remainder.
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially over the whole range when
// items is at or below threshold, and falls back to Parallelize otherwise.
// Small covariance matrices are not worth the goroutine overhead.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
