package middleware

import (
	"sync"
	"time"
)

// SlidingWindowLimiter bounds requests per client identifier over a
// rolling window. It is constructed once at process start and injected
// wherever submissions are gated, so it can be swapped for the
// Redis-backed limiter in multi-instance deployments.
type SlidingWindowLimiter struct {
	mu      sync.Mutex
	entries map[string][]time.Time
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewSlidingWindowLimiter creates a limiter allowing limit requests per
// window per identifier.
func NewSlidingWindowLimiter(limit int, window time.Duration) *SlidingWindowLimiter {
	rl := &SlidingWindowLimiter{
		entries: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	// Periodically evict idle identifiers to prevent memory growth.
	go rl.cleanup()
	return rl
}

// newSlidingWindowLimiterAt is the test constructor: no cleanup
// goroutine, caller-controlled clock.
func newSlidingWindowLimiterAt(limit int, window time.Duration, now func() time.Time) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		entries: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     now,
	}
}

// Allow reports whether a request from id is within the limit, and
// records it if so. The prune-check-append sequence runs under the
// mutex; two concurrent calls can never both pass a last remaining
// slot.
func (rl *SlidingWindowLimiter) Allow(id string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	kept := rl.entries[id][:0]
	for _, ts := range rl.entries[id] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= rl.limit {
		rl.entries[id] = kept
		return false
	}

	rl.entries[id] = append(kept, now)
	return true
}

func (rl *SlidingWindowLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := rl.now().Add(-rl.window)
		for id, timestamps := range rl.entries {
			if len(timestamps) == 0 || !timestamps[len(timestamps)-1].After(cutoff) {
				delete(rl.entries, id)
			}
		}
		rl.mu.Unlock()
	}
}
