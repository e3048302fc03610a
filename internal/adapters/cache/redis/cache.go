package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"trendflow/internal/core/port"
)

var _ port.CachePort = (*RedisCache)(nil)

// RedisCache backs the time-windowed cache with redis, so multiple service
// instances share one window of upstream fetches. Values are opaque bytes
// stored with SET and a TTL; redis handles the expiry.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, logger *slog.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		logger: logger,
	}
}

// Ping checks the connection to the Redis server.
func (c *RedisCache) Ping(ctx context.Context) string {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Sprintf("down: %v", err)
	}
	return "up"
}

// Get returns the cached value for key. A backend error degrades to a miss;
// the consumer will refetch from upstream.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}

	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}
