package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns the optimal number of concurrent jobs for a given task type.
// It respects container CPU limits via GOMAXPROCS (Go 1.19+).
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound tasks (transcoding)
//   - 2.0 for I/O-bound tasks (downloads)
//
// The limit parameter caps the count to prevent resource exhaustion.
// Use 0 for no limit.
//
// Can be overridden with the JOB_WORKERS environment variable.
func Count(multiplier float64, limit int) int {
	// Check for manual override first
	if override := os.Getenv("JOB_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	// GOMAXPROCS is automatically set to container CPU limit in Go 1.19+
	available := runtime.GOMAXPROCS(0)

	count := int(float64(available) * multiplier)

	if count < 1 {
		count = 1
	}
	if limit > 0 && count > limit {
		count = limit
	}

	return count
}

// ForCPU returns a job count for CPU-bound work (1 per CPU).
// The limit parameter caps the maximum.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns a job count for I/O-bound work (2 per CPU).
// The limit parameter caps the maximum.
func ForIO(limit int) int {
	return Count(2.0, limit)
}
