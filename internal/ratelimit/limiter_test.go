package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemorySlidingWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemory(Rule{Name: "test", Limit: 2, Window: time.Minute})
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	require.True(t, limiter.Allow(ctx, "1.2.3.4"))
	require.True(t, limiter.Allow(ctx, "1.2.3.4"))
	require.False(t, limiter.Allow(ctx, "1.2.3.4"))
	require.True(t, limiter.Allow(ctx, "5.6.7.8"))

	now = now.Add(61 * time.Second)
	require.True(t, limiter.Allow(ctx, "1.2.3.4"))
}

func TestMemorySweepDropsIdleKeys(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemory(Rule{Name: "test", Limit: 1, Window: time.Minute})
	limiter.now = func() time.Time { return now }

	limiter.Allow(context.Background(), "a")
	require.Zero(t, limiter.Sweep())

	now = now.Add(2 * time.Minute)
	require.Equal(t, 1, limiter.Sweep())
}

func TestRuleNormalized(t *testing.T) {
	rule := Rule{}.normalized()
	require.Equal(t, 1, rule.Limit)
	require.Equal(t, time.Minute, rule.Window)
}

func TestRedisFixedWindow(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	options, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(options)
	defer client.Close()

	limiter := NewRedis(client, Rule{Name: "test-" + uuid.NewString(), Limit: 2, Window: time.Minute}, nil)
	ctx := context.Background()

	require.True(t, limiter.Allow(ctx, "k"))
	require.True(t, limiter.Allow(ctx, "k"))
	require.False(t, limiter.Allow(ctx, "k"))
}

func TestRedisUnavailableAllows(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	limiter := NewRedis(client, Messages, nil)
	require.True(t, limiter.Allow(context.Background(), "k"))
}
