package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	// Allow consumes one unit for key. remaining is best effort.
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Config() Config
}

// RedisInterface is the slice of the redis client the distributed backend needs.
type RedisInterface interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error)
}

// New builds the limiter selected by cfg.Type. The redis backend needs rdb.
func New(cfg Config, rdb RedisInterface) (Limiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Type {
	case BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis client is required for distributed rate limiter")
		}
		return &redisLimiter{config: cfg, rdb: rdb}, nil
	default:
		return newLocalLimiter(cfg), nil
	}
}

type redisLimiter struct {
	config Config
	rdb    RedisInterface
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	return l.rdb.CheckRateLimit(ctx, l.config.KeyPrefix+key, l.config.Limit, l.config.Window)
}

func (l *redisLimiter) Config() Config {
	return l.config
}
