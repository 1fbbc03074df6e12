package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultRunCacheTTL bounds how long a run cache entry may outlive its run.
const defaultRunCacheTTL = 6 * time.Hour

// RedisRunCache implements the run cache on Redis. Suitable for distributed
// deployments where several workers share one export run.
type RedisRunCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRunCache connects to Redis and verifies the connection.
func NewRedisRunCache(cfg RedisConfig) (*RedisRunCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: failed to connect to Redis: %w", err)
	}

	return &RedisRunCache{
		client:    client,
		keyPrefix: "export:runcache:",
		ttl:       defaultRunCacheTTL,
	}, nil
}

// NewRedisRunCacheWithClient wraps an existing client. Useful for tests and
// for sharing one client across components.
func NewRedisRunCacheWithClient(client *redis.Client, keyPrefix string) *RedisRunCache {
	if keyPrefix == "" {
		keyPrefix = "export:runcache:"
	}
	return &RedisRunCache{client: client, keyPrefix: keyPrefix, ttl: defaultRunCacheTTL}
}

// Get returns the cached value and whether it was present.
func (c *RedisRunCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: get failed: %w", err)
	}
	return value, true, nil
}

// Set stores the value with the cache TTL.
func (c *RedisRunCache) Set(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set failed: %w", err)
	}
	return nil
}

// Delete removes the key.
func (c *RedisRunCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("cache: delete failed: %w", err)
	}
	return nil
}

// Clear removes every entry under the cache prefix. The TTL only bounds how
// long an orphaned entry can survive a crashed process; Clear is what makes
// the cache run-scoped.
func (c *RedisRunCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 0).Iterator()
	keys := make([]string, 0, 128)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == cap(keys) {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache: clear failed: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache: clear scan failed: %w", err)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("cache: clear failed: %w", err)
		}
	}
	return nil
}
