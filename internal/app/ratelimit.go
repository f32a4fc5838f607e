package app

import (
	"twilio-gateway/internal/common/logging"
	"twilio-gateway/internal/common/ratelimit"
)

// InitializeRateLimiter builds the limiter shared by webhook and admin
// routes: Redis-backed when Redis is available, per instance otherwise. It
// returns nil when rate limiting is disabled.
func (app *App) InitializeRateLimiter() (ratelimit.Limiter, error) {
	if !app.Config.RateLimitEnabled {
		app.Logger.Info("Rate Limiting: Disabled")
		return nil, nil
	}

	limit, window := app.Config.RateLimit()
	cfg := ratelimit.Config{
		Limit:  limit,
		Window: window,
		Type:   ratelimit.BackendLocal,
	}

	var rdb ratelimit.RedisInterface
	if app.RedisClient != nil {
		cfg.Type = ratelimit.BackendRedis
		cfg.KeyPrefix = "twilio-gateway:ratelimit:"
		rdb = app.RedisClient
	}

	limiter, err := ratelimit.New(cfg, rdb)
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Rate Limiting: Enabled",
		logging.Field{Key: "limit", Value: limit},
		logging.Field{Key: "window", Value: window.String()},
		logging.Field{Key: "backend", Value: string(cfg.Type)},
	)
	return limiter, nil
}
