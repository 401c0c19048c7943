// Package ratelimit implements the submission admission controller: a
// per-source-address fixed-window counter. It is a cheap first-line filter
// against automated flooding, not a security boundary.
package ratelimit

import (
	"sync"
	"time"

	"civicfix/backend/internal/config"

	log "github.com/sirupsen/logrus"
)

// CounterStore is the injectable backing for the windowed counters.
// MemoryStore serves single-instance deployments; RedisStore shares the
// counters across a fleet.
type CounterStore interface {
	// Hit records one admission attempt for key and returns how many
	// attempts the current window has seen, including this one.
	Hit(key string, window time.Duration) (int, error)
}

type Limiter struct {
	store  CounterStore
	window time.Duration
	max    int
}

func NewLimiter(store CounterStore) *Limiter {
	return &Limiter{
		store:  store,
		window: config.RateLimitWindow,
		max:    config.RateLimitMax,
	}
}

// Admit decides whether one more submission from sourceAddr is allowed.
// A failing counter store fails open: the limiter exists to slow floods
// down, it must never take the intake path down with it.
func (l *Limiter) Admit(sourceAddr string) bool {
	count, err := l.store.Hit(sourceAddr, l.window)
	if err != nil {
		log.WithError(err).WithField("source", sourceAddr).
			Warn("rate limit counter store unavailable, admitting")
		return true
	}
	return count <= l.max
}

type windowCounter struct {
	count       int
	windowStart time.Time
}

// MemoryStore keeps the counters in a process-local map. When the engine
// runs as multiple instances each one enforces its own window independently,
// which under-counts the true fleet-wide rate; use RedisStore there.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock injects the clock, for tests that walk time past
// the window boundary.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		counters: make(map[string]*windowCounter),
		now:      now,
	}
}

func (m *MemoryStore) Hit(key string, window time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	c, ok := m.counters[key]
	if !ok {
		c = &windowCounter{windowStart: now}
		m.counters[key] = c
	}
	if now.Sub(c.windowStart) > window {
		c.count = 0
		c.windowStart = now
	}
	c.count++
	return c.count, nil
}
