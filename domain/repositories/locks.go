package repositories

import (
	"context"
	"time"
)

// RunLockRepository guards periodic jobs across horizontally scaled
// instances. One lock document exists per job name.
type RunLockRepository interface {
	// Acquire atomically claims the named job if at least period has
	// elapsed since its last recorded run, updating the run timestamp in
	// the same operation. It returns false when another instance already
	// ran the job this period; losing the race is expected, not an error.
	Acquire(ctx context.Context, jobName string, now time.Time, period time.Duration) (bool, error)
}
