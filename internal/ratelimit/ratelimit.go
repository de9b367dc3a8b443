// Package ratelimit implements a fixed-window request limiter keyed by client
// IP. It is approximate and single-process: counters live in memory and are
// not shared across instances.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/maxbolgarin/logze/v2"
)

const defaultSweepInterval = time.Minute

// Decision is the outcome of a single request check
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Time
	RetryAfter time.Duration // zero when allowed
}

type window struct {
	count int
	reset time.Time
}

// Limiter counts requests per key inside fixed time windows
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window

	limit  int
	period time.Duration
	log    logze.Logger
}

// New creates a limiter allowing limit requests per period and key
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		log:     logze.With("component", "ratelimit"),
	}
}

// Allow registers one request for key and reports whether it fits the window.
// The check-and-increment is a single critical section, two concurrent
// requests can never both take the last slot.
func (l *Limiter) Allow(key string) Decision {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.windows[key]
	if w == nil || w.reset.Before(now) {
		w = &window{reset: now.Add(l.period)}
		l.windows[key] = w
	}
	w.count++

	d := Decision{
		Limit:     l.limit,
		Remaining: max(0, l.limit-w.count),
		Reset:     w.reset,
	}
	if w.count > l.limit {
		d.RetryAfter = w.reset.Sub(now)
		return d
	}
	d.Allowed = true
	return d
}

// Cleanup drops windows whose reset time has passed
func (l *Limiter) Cleanup() int {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := 0
	for key, w := range l.windows {
		if w.reset.Before(now) {
			delete(l.windows, key)
			dropped++
		}
	}
	return dropped
}

// StartSweeper runs periodic cleanup until ctx is cancelled
func (l *Limiter) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if dropped := l.Cleanup(); dropped > 0 {
					l.log.Debug("swept expired rate limit windows", "dropped", dropped)
				}
			}
		}
	}()
}
