package ncbi

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is the minimum interval between E-Utilities requests,
// matching the published quota of 3 requests per second.
const DefaultDelay = 340 * time.Millisecond

// Limiter enforces a minimum interval between consecutive requests to the
// metadata service. One Limiter instance is shared per Client; Wait is
// serialized with a mutex so concurrent callers cannot corrupt the last-call
// timestamp and burst past the external quota.
type Limiter struct {
	mu    sync.Mutex
	delay time.Duration
	last  time.Time
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// LimiterOption configures a Limiter.
type LimiterOption func(*Limiter)

// WithLimiterClock overrides the time source and sleep function, for
// deterministic tests.
func WithLimiterClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) LimiterOption {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

// NewLimiter constructs a Limiter with the given minimum interval. A delay
// <= 0 falls back to DefaultDelay.
func NewLimiter(delay time.Duration, opts ...LimiterOption) *Limiter {
	if delay <= 0 {
		delay = DefaultDelay
	}
	l := &Limiter{
		delay: delay,
		now:   time.Now,
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wait blocks until at least the configured delay has elapsed since the
// previous call's completion, then records the new last-call timestamp. It
// returns early with the context error if ctx is cancelled mid-wait; in that
// case the timestamp is not advanced.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() {
		elapsed := l.now().Sub(l.last)
		if remaining := l.delay - elapsed; remaining > 0 {
			if err := l.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	l.last = l.now()
	return nil
}

// Delay returns the configured minimum interval.
func (l *Limiter) Delay() time.Duration {
	return l.delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
