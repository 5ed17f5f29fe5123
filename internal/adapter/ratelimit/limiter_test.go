package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestLimiter(t *testing.T, requests int) (*MemoryLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(Config{Requests: requests, Window: time.Minute, CleanupInterval: time.Hour})
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestMemoryLimiter_AllowsUpToLimit(t *testing.T) {
	l, clock := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i+1)
		assert.Equal(t, 2-i, d.Remaining)
	}

	clock.t = clock.t.Add(20 * time.Second)
	d, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 40*time.Second, d.RetryAfter)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	d, _ := l.Allow(ctx, "a")
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "a")
	assert.False(t, d.Allowed)

	d, _ = l.Allow(ctx, "b")
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, l.ActiveClients())
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	l, clock := newTestLimiter(t, 1)
	ctx := context.Background()

	d, _ := l.Allow(ctx, "a")
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "a")
	assert.False(t, d.Allowed)

	clock.t = clock.t.Add(time.Minute)
	d, _ = l.Allow(ctx, "a")
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_CleanupRemovesStaleEntries(t *testing.T) {
	l, clock := newTestLimiter(t, 5)
	ctx := context.Background()

	_, _ = l.Allow(ctx, "old")
	clock.t = clock.t.Add(90 * time.Second)
	_, _ = l.Allow(ctx, "fresh")

	l.cleanupStaleEntries()
	assert.Equal(t, 1, l.ActiveClients())
}

func TestMemoryLimiter_StopIsIdempotent(t *testing.T) {
	l := NewMemoryLimiter(DefaultConfig())
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultConfig(), cfg)

	cfg = Config{Requests: 5}.withDefaults()
	assert.Equal(t, 5, cfg.Requests)
	assert.Equal(t, time.Minute, cfg.Window)
}
