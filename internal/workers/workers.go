// Package workers computes worker pool sizes. Counts respect container
// CPU limits via GOMAXPROCS and can be overridden per deployment with the
// THUMBNAIL_WORKERS environment variable.
package workers

import (
	"os"
	"runtime"
	"strconv"
)

// DefaultThumbnailWorkers is the fixed pool size used for background
// thumbnail generation when no override is set. Generation is dominated
// by decode CPU and disk I/O, so a small fixed pool keeps memory bounded.
const DefaultThumbnailWorkers = 2

// Thumbnail returns the thumbnail pool size: the THUMBNAIL_WORKERS
// override when set to a positive integer, DefaultThumbnailWorkers
// otherwise.
func Thumbnail() int {
	if override := os.Getenv("THUMBNAIL_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			return count
		}
	}
	return DefaultThumbnailWorkers
}

// Count returns a worker count scaled from the available CPUs.
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound tasks
//   - 2.0 for I/O-bound tasks
//
// The limit parameter caps the count; use 0 for no limit.
func Count(multiplier float64, limit int) int {
	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns a worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns a worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}
