package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // zero when Allowed
}

// Limiter counts requests per client key in fixed windows
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Config holds rate limiter configuration
type Config struct {
	Requests        int           // allowed per window
	Window          time.Duration // window length
	CleanupInterval time.Duration // memory limiter only
}

// DefaultConfig returns 20 requests per minute
func DefaultConfig() Config {
	return Config{
		Requests:        20,
		Window:          time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Requests <= 0 {
		c.Requests = d.Requests
	}
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	return c
}

// MemoryLimiter keeps per-client windows in process memory
type MemoryLimiter struct {
	mu           sync.Mutex
	clients      map[string]*window
	stopCleanup  chan struct{}
	shutdownOnce sync.Once

	cfg Config
	now func() time.Time
}

type window struct {
	start    time.Time
	requests int
}

// NewMemoryLimiter creates a limiter and starts its stale-entry cleanup
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	l := &MemoryLimiter{
		clients:     make(map[string]*window),
		stopCleanup: make(chan struct{}),
		cfg:         cfg.withDefaults(),
		now:         time.Now,
	}
	go l.startCleanup()
	return l
}

// Allow counts a request for key
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) >= l.cfg.Window {
		w = &window{start: now}
		l.clients[key] = w
	}
	w.requests++

	if w.requests > l.cfg.Requests {
		return Decision{RetryAfter: w.start.Add(l.cfg.Window).Sub(now)}, nil
	}
	return Decision{Allowed: true, Remaining: l.cfg.Requests - w.requests}, nil
}

// startCleanup runs periodic cleanup to remove expired windows
func (l *MemoryLimiter) startCleanup() {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanupStaleEntries()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *MemoryLimiter) cleanupStaleEntries() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.cfg.Window)
	for key, w := range l.clients {
		if w.start.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

// ActiveClients returns the number of currently tracked clients
func (l *MemoryLimiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop shuts down the cleanup goroutine
func (l *MemoryLimiter) Stop() {
	l.shutdownOnce.Do(func() {
		close(l.stopCleanup)
	})
}
