package signal

import (
	"time"
)

// eventRateLimiter caps inbound events per connection over a sliding
// window. One limiter per read loop, so no locking is needed.
type eventRateLimiter struct {
	history  []time.Time
	limit    int
	interval time.Duration
}

func newEventRateLimiter(limit int, interval time.Duration) *eventRateLimiter {
	return &eventRateLimiter{
		limit:    limit,
		interval: interval,
	}
}

func (rl *eventRateLimiter) Allow() bool {
	now := time.Now()
	windowStart := now.Add(-rl.interval)

	fresh := rl.history[:0]
	for _, t := range rl.history {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history = fresh
		return false
	}

	rl.history = append(fresh, now)
	return true
}
