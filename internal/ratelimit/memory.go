package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter keeps one token bucket per (route, client) pair. Idle
// buckets are swept by a janitor goroutine so the map does not grow without
// bound.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	rules   Rules
	idleTTL time.Duration
	done    chan struct{}
	once    sync.Once
}

type memoryEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter(rules Rules) *MemoryLimiter {
	l := &MemoryLimiter{
		entries: make(map[string]*memoryEntry),
		rules:   rules,
		idleTTL: 15 * time.Minute,
		done:    make(chan struct{}),
	}
	go l.janitor(2 * time.Minute)
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, route, client string) (bool, error) {
	rule := l.rules.For(route)
	if rule.PerMinute <= 0 {
		return true, nil
	}
	burst := rule.Burst
	if burst <= 0 {
		burst = 1
	}

	key := route + "|" + client
	now := time.Now()

	l.mu.Lock()
	ent, ok := l.entries[key]
	if !ok {
		ent = &memoryEntry{lim: rate.NewLimiter(rate.Limit(float64(rule.PerMinute)/60.0), burst)}
		l.entries[key] = ent
	}
	ent.lastSeen = now
	l.mu.Unlock()

	return ent.lim.Allow(), nil
}

// Close stops the janitor.
func (l *MemoryLimiter) Close() {
	l.once.Do(func() { close(l.done) })
}

func (l *MemoryLimiter) janitor(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-t.C:
			l.sweep()
		}
	}
}

func (l *MemoryLimiter) sweep() {
	cutoff := time.Now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}
