package app

import (
	"twilio-gateway/internal/common/logging"
	"twilio-gateway/internal/redis"
)

func (app *App) initializeRedis() error {
	if app.Config.RedisAddress == "" {
		app.Logger.Info("Redis: Not configured (rate limiting and deduplication are per instance)")
		return nil
	}

	redisConfig := &redis.Config{
		Address:  app.Config.RedisAddress,
		Password: app.Config.RedisPassword,
		DB:       atoiDefault(app.Config.RedisDB, 0),
		PoolSize: atoiDefault(app.Config.RedisPoolSize, 10),
	}

	redisClient, err := redis.NewClient(redisConfig)
	if err != nil {
		return err
	}

	app.RedisClient = redisClient
	app.Logger.Info("Redis: Connected", logging.Field{Key: "address", Value: app.Config.RedisAddress})
	return nil
}
