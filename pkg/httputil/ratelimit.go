package httputil

import (
	"sync"
	"time"
)

// RateLimiter is a sliding-window per-identifier limiter. An
// identifier that exceeds the window limit is blocked outright for a
// cooldown period, which stops a hammering client from probing the
// window edge.
type RateLimiter struct {
	perMinute int
	blockFor  time.Duration

	mu       sync.Mutex
	requests map[string][]time.Time
	blocked  map[string]time.Time

	now func() time.Time
}

// NewRateLimiter creates a limiter allowing perMinute requests per
// identifier per sliding minute, with a 5 minute block on breach.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		perMinute: perMinute,
		blockFor:  5 * time.Minute,
		requests:  make(map[string][]time.Time),
		blocked:   make(map[string]time.Time),
		now:       time.Now,
	}
}

// Allow records one request attempt and reports whether it may proceed.
func (r *RateLimiter) Allow(identifier string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	if until, ok := r.blocked[identifier]; ok {
		if now.Before(until) {
			return false
		}
		delete(r.blocked, identifier)
	}

	window := r.requests[identifier][:0]
	for _, at := range r.requests[identifier] {
		if now.Sub(at) < time.Minute {
			window = append(window, at)
		}
	}

	if len(window) >= r.perMinute {
		r.requests[identifier] = window
		r.blocked[identifier] = now.Add(r.blockFor)
		return false
	}

	r.requests[identifier] = append(window, now)
	return true
}

// Remaining reports how many requests the identifier has left in the
// current window.
func (r *RateLimiter) Remaining(identifier string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	used := 0
	for _, at := range r.requests[identifier] {
		if now.Sub(at) < time.Minute {
			used++
		}
	}
	if used > r.perMinute {
		return 0
	}
	return r.perMinute - used
}
