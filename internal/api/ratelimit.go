package api

import (
	"sync"
	"time"
)

// RateLimiter throttles session starts per user with fixed-window
// counters. The key is the anonymous user ID only, so rotating tab
// session IDs cannot bypass the throttle.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	span    time.Duration
}

type window struct {
	startedAt time.Time
	count     int
}

// NewRateLimiter creates a rate limiter allowing limit starts per span
// and starts the background eviction goroutine.
func NewRateLimiter(limit int, span time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		span:    span,
	}
	rl.startEviction()
	return rl
}

// Allow reports whether the key may start another session right now.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	w := r.windows[key]
	if w == nil || now.Sub(w.startedAt) >= r.span {
		r.windows[key] = &window{startedAt: now, count: 1}
		return true
	}

	if w.count >= r.limit {
		return false
	}
	w.count++
	return true
}

// startEviction drops stale windows in the background so the map does
// not grow with every identity that ever called the API.
func (r *RateLimiter) startEviction() {
	go func() {
		ticker := time.NewTicker(r.span)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			r.mu.Lock()
			for key, w := range r.windows {
				if now.Sub(w.startedAt) >= r.span {
					delete(r.windows, key)
				}
			}
			r.mu.Unlock()
		}
	}()
}
