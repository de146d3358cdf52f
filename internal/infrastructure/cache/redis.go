package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/recipehelper/backend/internal/domain"
)

// keyPrefix namespaces every key this service writes
const keyPrefix = "recipehelper:"

// RedisCache stores encoded values in Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis instance at redisURL
// (e.g. "redis://localhost:6379/0") and pings it
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	return &RedisCache{client: client}, nil
}

// NewRedisCacheWithClient wraps an existing client
func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves a value from Redis
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, prefixed(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return val, nil
}

// Set stores a value in Redis with TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, prefixed(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Delete removes a value from Redis
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, prefixed(key)).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func prefixed(key string) string {
	return keyPrefix + key
}
