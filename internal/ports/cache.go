package ports

import (
	"context"
	"time"
)

// AttemptSnapshot is the state of one throttle key after stale entries
// have been purged.
type AttemptSnapshot struct {
	// Count is the number of attempts still inside the window.
	Count int
	// OldestAt is the timestamp of the oldest surviving attempt. Zero when
	// Count is zero.
	OldestAt time.Time
}

// AttemptStore keeps failed-attempt timestamps per throttle key. Implementations
// must purge entries older than the window and append the new attempt in a
// single atomic step so concurrent logins cannot undercount.
type AttemptStore interface {
	// Record purges entries outside the window, appends an attempt at now and
	// returns the resulting snapshot.
	Record(ctx context.Context, key string, now time.Time, window time.Duration) (AttemptSnapshot, error)
	// Snapshot purges and reads without appending.
	Snapshot(ctx context.Context, key string, now time.Time, window time.Duration) (AttemptSnapshot, error)
	// Clear removes every attempt for the key.
	Clear(ctx context.Context, key string) error
}
