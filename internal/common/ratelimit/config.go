package ratelimit

import (
	"fmt"
	"time"
)

// BackendType selects the limiter implementation.
type BackendType string

const (
	BackendLocal BackendType = "local"
	BackendRedis BackendType = "redis"
)

// Config describes a budget of Limit requests per Window for each key.
type Config struct {
	Limit     int
	Window    time.Duration
	Type      BackendType
	KeyPrefix string

	// Local backend housekeeping.
	MaxKeys       int
	CleanupPeriod time.Duration
}

// Validate fills defaults and rejects impossible budgets.
func (c *Config) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d", c.Limit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.Window)
	}
	if c.Type == "" {
		c.Type = BackendLocal
	}

	switch c.Type {
	case BackendLocal:
		if c.MaxKeys <= 0 {
			c.MaxKeys = 10000
		}
		if c.CleanupPeriod <= 0 {
			c.CleanupPeriod = 5 * time.Minute
		}
	case BackendRedis:
		if c.KeyPrefix == "" {
			c.KeyPrefix = "ratelimit:"
		}
	default:
		return fmt.Errorf("unsupported rate limiter backend type: %s", c.Type)
	}
	return nil
}
