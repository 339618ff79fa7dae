// Package flood provides per-client request limiting for the embed API.
package flood

import (
	"sync"
	"time"
)

const (
	// windowDuration is the sliding window requests are counted in.
	windowDuration = 60 * time.Second
	// cleanupInterval is how often idle clients are dropped.
	cleanupInterval = 10 * time.Minute
	// idleTimeout is how long a client may stay silent before its entry is dropped.
	idleTimeout = 10 * time.Minute
)

// Limiter allows each client a fixed number of requests per route and minute.
type Limiter struct {
	limitPerMinute int
	entries        map[string]*clientEntry // Key: "client|route"
	mutex          sync.Mutex
	now            func() time.Time
	stopCleanup    chan struct{}
	stopOnce       sync.Once
}

type clientEntry struct {
	timestamps []time.Time
	lastSeen   time.Time
}

// New creates a Limiter and starts its background cleanup.
func New(limitPerMinute int) *Limiter {
	l := newLimiter(limitPerMinute, time.Now)
	go l.cleanup()
	return l
}

func newLimiter(limitPerMinute int, now func() time.Time) *Limiter {
	return &Limiter{
		limitPerMinute: limitPerMinute,
		entries:        make(map[string]*clientEntry),
		now:            now,
		stopCleanup:    make(chan struct{}),
	}
}

// Stop ends the background cleanup. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCleanup) })
}

// Allow records a request from client on route and reports whether it is within the limit.
func (l *Limiter) Allow(client, route string) bool {
	key := client + "|" + route

	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.now()

	entry, exists := l.entries[key]
	if !exists {
		entry = &clientEntry{
			timestamps: make([]time.Time, 0, l.limitPerMinute+1),
		}
		l.entries[key] = entry
	}
	entry.lastSeen = now

	windowStart := now.Add(-windowDuration)
	valid := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}
	entry.timestamps = valid

	if len(entry.timestamps) >= l.limitPerMinute {
		return false
	}

	entry.timestamps = append(entry.timestamps, now)
	return true
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.performCleanup()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *Limiter) performCleanup() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	cutoff := l.now().Add(-idleTimeout)
	for key, entry := range l.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// GetStats returns limiter statistics for monitoring.
func (l *Limiter) GetStats() Stats {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return Stats{
		ActiveClients:  len(l.entries),
		LimitPerMinute: l.limitPerMinute,
		WindowSeconds:  int(windowDuration.Seconds()),
	}
}

// Stats contains limiter statistics.
type Stats struct {
	ActiveClients  int `json:"active_clients"`
	LimitPerMinute int `json:"limit_per_minute"`
	WindowSeconds  int `json:"window_seconds"`
}
