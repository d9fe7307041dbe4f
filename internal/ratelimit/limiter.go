// Package ratelimit implements a sliding-window attempt limiter keyed by
// action and client address. Keys are hashed so raw addresses never reach
// the shared store.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/wblproducoes/mvc08/internal/metrics"
	"github.com/wblproducoes/mvc08/internal/ports"
)

const (
	// DefaultMaxAttempts is the number of attempts allowed inside one window.
	DefaultMaxAttempts = 5
	// DefaultWindow is the sliding decay window.
	DefaultWindow = 15 * time.Minute
)

// Limiter throttles repeated attempts per (action, address) pair using a
// sliding window over the shared attempt store. Store errors are tolerated:
// the limiter logs, counts the degradation and lets the request through
// rather than locking every caller out on a cache outage.
type Limiter struct {
	store       ports.AttemptStore
	maxAttempts int
	window      time.Duration
	logger      *slog.Logger
	nowFn       func() time.Time
}

// NewLimiter builds a limiter over the given store. Non-positive maxAttempts
// or window fall back to the defaults.
func NewLimiter(store ports.AttemptStore, maxAttempts int, window time.Duration, logger *slog.Logger) *Limiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		store:       store,
		maxAttempts: maxAttempts,
		window:      window,
		logger:      logger.With(slog.String("component", "ratelimit")),
		nowFn:       time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.nowFn = now
	return l
}

// Key derives the store key for an action and client address.
func Key(action, address string) string {
	sum := sha256.Sum256([]byte(action + ":" + address))
	return "ratelimit:" + hex.EncodeToString(sum[:])
}

// IsBlocked reports whether the pair has exhausted its attempts.
func (l *Limiter) IsBlocked(ctx context.Context, action, address string) bool {
	snap, err := l.store.Snapshot(ctx, Key(action, address), l.nowFn(), l.window)
	if err != nil {
		l.failOpen(ctx, action, "snapshot", err)
		return false
	}
	if snap.Count >= l.maxAttempts {
		metrics.RateLimitBlocks.WithLabelValues(action).Inc()
		return true
	}
	return false
}

// Hit records one attempt and reports whether the pair is now blocked.
func (l *Limiter) Hit(ctx context.Context, action, address string) bool {
	snap, err := l.store.Record(ctx, Key(action, address), l.nowFn(), l.window)
	if err != nil {
		l.failOpen(ctx, action, "record", err)
		return false
	}
	return snap.Count >= l.maxAttempts
}

// Clear resets the counter for the pair, typically after a successful login.
func (l *Limiter) Clear(ctx context.Context, action, address string) {
	if err := l.store.Clear(ctx, Key(action, address)); err != nil {
		l.failOpen(ctx, action, "clear", err)
	}
}

// Remaining returns how many attempts are left inside the current window.
// It never returns a negative value.
func (l *Limiter) Remaining(ctx context.Context, action, address string) int {
	snap, err := l.store.Snapshot(ctx, Key(action, address), l.nowFn(), l.window)
	if err != nil {
		l.failOpen(ctx, action, "snapshot", err)
		return l.maxAttempts
	}
	remaining := l.maxAttempts - snap.Count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AvailableIn returns how long until a blocked pair regains an attempt,
// rounded up to the next whole second. Zero means not blocked.
func (l *Limiter) AvailableIn(ctx context.Context, action, address string) time.Duration {
	now := l.nowFn()
	snap, err := l.store.Snapshot(ctx, Key(action, address), now, l.window)
	if err != nil {
		l.failOpen(ctx, action, "snapshot", err)
		return 0
	}
	if snap.Count < l.maxAttempts {
		return 0
	}
	wait := snap.OldestAt.Add(l.window).Sub(now)
	if wait < 0 {
		return 0
	}
	if rem := wait % time.Second; rem != 0 {
		wait += time.Second - rem
	}
	return wait
}

func (l *Limiter) failOpen(ctx context.Context, action, op string, err error) {
	metrics.RateLimitStoreErrors.Inc()
	l.logger.WarnContext(ctx, "attempt store unavailable, failing open",
		slog.String("action", action),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}
