package state

import (
	"sync"
	"time"
)

// RateWindow is a rolling-window counter allowing limit events per window.
type RateWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	events []time.Time
	now    func() time.Time
}

func NewRateWindow(limit int, window time.Duration) *RateWindow {
	return &RateWindow{
		limit:  limit,
		window: window,
		events: make([]time.Time, 0, limit),
		now:    time.Now,
	}
}

// Allow records an event and reports whether it fits in the window.
// Rejected events are not recorded.
func (rw *RateWindow) Allow() bool {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	now := rw.now()
	rw.trimLocked(now)
	if len(rw.events) >= rw.limit {
		return false
	}
	rw.events = append(rw.events, now)
	return true
}

func (rw *RateWindow) trimLocked(now time.Time) {
	cutoff := now.Add(-rw.window)
	i := 0
	for i < len(rw.events) && !rw.events[i].After(cutoff) {
		i++
	}
	if i > 0 {
		rw.events = append(rw.events[:0], rw.events[i:]...)
	}
}

func (rw *RateWindow) idle() bool {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	rw.trimLocked(rw.now())
	return len(rw.events) == 0
}

// UserRateLimiter keeps one RateWindow per user.
type UserRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]*RateWindow
	now     func() time.Time
}

func NewUserRateLimiter(limit int, window time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]*RateWindow),
		now:     time.Now,
	}
}

func (ul *UserRateLimiter) Allow(userID string) bool {
	ul.mu.Lock()
	rw, ok := ul.windows[userID]
	if !ok {
		rw = NewRateWindow(ul.limit, ul.window)
		rw.now = ul.now
		ul.windows[userID] = rw
	}
	ul.mu.Unlock()
	return rw.Allow()
}

// Sweep evicts users with no events inside the window.
func (ul *UserRateLimiter) Sweep() int {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	removed := 0
	for id, rw := range ul.windows {
		if rw.idle() {
			delete(ul.windows, id)
			removed++
		}
	}
	return removed
}

func (ul *UserRateLimiter) Len() int {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	return len(ul.windows)
}
