// Package redis wraps go-redis with the operations the gateway shares across
// replicas: sliding-window rate limiting, idempotency reservations and small
// JSON snapshots.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Config holds connection settings.
type Config struct {
	Address  string
	Password string
	DB       int
	PoolSize int
}

// Client is safe for concurrent use.
type Client struct {
	rdb *redis.Client
	now func() time.Time
}

// NewClient connects and pings the server.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil || cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 10
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, now: time.Now}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Health pings the server.
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// slidingWindow admits a request when fewer than limit were admitted in the
// trailing window. Rejected requests are not recorded.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  return {0, 0}
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, limit - count - 1}
`)

// CheckRateLimit records one request for key and reports whether it fits the
// budget, plus how many requests remain.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	now := c.now().UnixMilli()
	member := fmt.Sprintf("%d-%s", now, uuid.NewString())

	res, err := slidingWindow.Run(ctx, c.rdb, []string{key}, now, window.Milliseconds(), limit, member).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("unexpected rate limit reply: %v", res)
	}

	allowed, _ := res[0].(int64)
	remaining, _ := res[1].(int64)
	return allowed == 1, int(remaining), nil
}

// Reserve claims key for ttl. It returns false when the key is already held.
func (c *Client) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, c.now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve %s: %w", key, err)
	}
	return ok, nil
}

// Release drops a reservation made by Reserve.
func (c *Client) Release(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release %s: %w", key, err)
	}
	return nil
}

// SetJSON stores value as JSON under key.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// GetJSON loads key into dest. found is false when the key does not exist.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) (found bool, err error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dest)
}
