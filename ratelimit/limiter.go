// Package ratelimit implements the per-client fixed-window limiter that
// protects the metered chat upstream.
package ratelimit

import (
	"sync"
	"time"
)

type record struct {
	count         int
	windowResetAt time.Time
}

// FixedWindowLimiter counts requests per client within a fixed window.
// Counting is serialized under one mutex so the cap is exact even when the
// same client sends concurrent requests.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	records map[string]*record
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		records: make(map[string]*record),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether clientID may proceed. The first call at or after the
// window boundary resets the record to count=1 instead of denying on stale
// state.
func (l *FixedWindowLimiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	rec, exists := l.records[clientID]
	if !exists || !now.Before(rec.windowResetAt) {
		l.records[clientID] = &record{
			count:         1,
			windowResetAt: now.Add(l.window),
		}
		return true
	}

	if rec.count >= l.limit {
		return false
	}

	rec.count++
	return true
}

// Sweep removes records whose window has elapsed. A record in an open window
// is never touched, so sweeping can never deny a request that would
// otherwise be allowed.
func (l *FixedWindowLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for clientID, rec := range l.records {
		if !now.Before(rec.windowResetAt) {
			delete(l.records, clientID)
		}
	}
}

// Len returns the number of tracked clients, for the debug endpoint.
func (l *FixedWindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.records)
}

// SetClock overrides the time source. For tests only.
func (l *FixedWindowLimiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.now = now
}
