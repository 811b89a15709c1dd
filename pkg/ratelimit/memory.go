package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// MemoryLimiter keeps counters in process. Counters reset on restart and are
// not shared between instances; use RedisLimiter for multi-instance deployments.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]window
	now     func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]window),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, rule Rule) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= rule.Window {
		l.windows[key] = window{count: 1, start: now}
		return Decision{Allowed: true, Remaining: rule.Limit - 1}, nil
	}

	if w.count >= rule.Limit {
		return Decision{
			Allowed:    false,
			RetryAfter: w.start.Add(rule.Window).Sub(now),
		}, nil
	}

	w.count++
	l.windows[key] = w
	return Decision{Allowed: true, Remaining: rule.Limit - w.count}, nil
}

// Cleanup removes windows that have already expired for the longest rule in use.
func (l *MemoryLimiter) Cleanup(maxWindow time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, w := range l.windows {
		if now.Sub(w.start) >= maxWindow {
			delete(l.windows, k)
		}
	}
}

// StartCleanup periodically evicts stale windows until ctx is done.
func (l *MemoryLimiter) StartCleanup(ctx context.Context, interval, maxWindow time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Cleanup(maxWindow)
			}
		}
	}()
}
