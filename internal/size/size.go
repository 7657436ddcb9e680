// Package size computes the reclaimable byte count under a candidate purge
// target by summing regular file sizes recursively, in parallel, tolerating
// unreadable subtrees.
package size

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Sum recursively totals the size in bytes of every regular file under
// root. Directories contribute nothing. A file whose metadata lookup fails
// contributes zero rather than aborting the sum; an unreadable subtree
// simply stops contributing beyond the point of failure. Hidden files are
// included like any other regular file.
//
// The walk fans out one goroutine per subdirectory, bounded by
// runtime.GOMAXPROCS(0); when no slot is free the subdirectory is summed
// inline on the current goroutine. This mirrors the same bounded-parallelism contract
// the project-aware Walker uses for directory traversal.
func Sum(ctx context.Context, root string) int64 {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	var total atomic.Int64

	var walk func(dir string) error
	walk = func(dir string) error {
		select {
		case <-gctx.Done():
			return nil
		default:
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}

		for _, entry := range entries {
			entry := entry
			full := filepath.Join(dir, entry.Name())

			if entry.IsDir() {
				sub := func() error { return walk(full) }
				if !g.TryGo(sub) {
					_ = sub()
				}
				continue
			}

			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.Mode().IsRegular() {
				total.Add(info.Size())
			}
		}
		return nil
	}

	g.Go(func() error { return walk(root) })
	_ = g.Wait()

	return total.Load()
}
