package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window limiter shared by every API instance using the
// same Redis. When Redis is unreachable requests are allowed.
type Redis struct {
	client redis.Cmdable
	rule   Rule
	prefix string
	now    func() time.Time
	logger *slog.Logger
}

func NewRedis(client redis.Cmdable, rule Rule, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	rule = rule.normalized()
	return &Redis{
		client: client,
		rule:   rule,
		prefix: "portfolio:ratelimit:" + rule.Name,
		now:    time.Now,
		logger: logger,
	}
}

func (limiter *Redis) Allow(ctx context.Context, key string) bool {
	window := limiter.now().UnixNano() / int64(limiter.rule.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", limiter.prefix, key, window)

	var incr *redis.IntCmd
	_, err := limiter.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, limiter.rule.Window)
		return nil
	})
	if err != nil {
		limiter.logger.Warn("rate limit check failed, allowing request", "rule", limiter.rule.Name, "error", err)
		return true
	}

	return incr.Val() <= int64(limiter.rule.Limit)
}
