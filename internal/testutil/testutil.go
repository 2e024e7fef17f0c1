// Package testutil provides shared helpers for tests: a fixed clock,
// fixture builders, and optional Redis setup.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedClock is a controllable clock for deterministic time-based tests.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at the given instant.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

// Now returns the frozen instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to an absolute instant.
func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// GetTestRedisAddr returns the Redis address for integration tests, or
// false when none is configured.
func GetTestRedisAddr() (string, bool) {
	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		return addr, true
	}
	if os.Getenv("CI") != "" {
		return "localhost:6379", true
	}
	return "", false
}

// SetupTestRedis returns a Redis client for testing, skipping the test when
// Redis is not reachable. The client is closed automatically on cleanup.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr, ok := GetTestRedisAddr()
	if !ok {
		t.Skip("Redis not available for testing; set TEST_REDIS_ADDR")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}
