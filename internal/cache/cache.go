package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin JSON cache over redis. With no REDIS_URL configured every
// call degrades to a miss, so the API works without redis at the cost of
// extra database reads.
type Cache struct {
	client *redis.Client
	log    *slog.Logger
}

func New(redisURL string, logger *slog.Logger) *Cache {
	c := &Cache{log: logger}
	if redisURL == "" {
		logger.Info("redis not configured, caching disabled")
		return c
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, caching disabled", "error", err)
		return c
	}
	c.client = redis.NewClient(opts)
	return c
}

func (c *Cache) Enabled() bool { return c.client != nil }

// GetJSON loads a cached value into dest. Returns false on miss, disabled
// cache, or any redis error.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.log.Warn("cache get failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "key", key, "error", err)
	}
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache invalidate failed", "keys", keys, "error", err)
	}
}

func (c *Cache) Close() {
	if c.client != nil {
		_ = c.client.Close()
	}
}
