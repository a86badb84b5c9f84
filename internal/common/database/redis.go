// internal/common/database/redis.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bizplan-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client.
type RedisClient struct {
	Client redis.Cmdable
	closer func() error
}

// NewRedis creates a new Redis client. No connection is made until first use.
func NewRedis(cfg config.RedisConfig) *RedisClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return &RedisClient{Client: rdb, closer: rdb.Close}
}

// NewRedisFromCmdable wraps an existing client, for example a redismock one.
func NewRedisFromCmdable(c redis.Cmdable) *RedisClient {
	return &RedisClient{Client: c}
}

// Ping tests the Redis connection.
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisClient) Close() error {
	if c.closer != nil {
		return c.closer()
	}
	return nil
}

// ResponseCache stores raw remote section payloads under a key prefix.
type ResponseCache struct {
	client *RedisClient
	prefix string
	ttl    time.Duration
}

// NewResponseCache returns a cache whose entries expire after ttl.
func NewResponseCache(client *RedisClient, prefix string, ttl time.Duration) *ResponseCache {
	return &ResponseCache{client: client, prefix: prefix, ttl: ttl}
}

func (r *ResponseCache) key(endpoint string) string {
	return r.prefix + endpoint
}

// Get returns the cached payload. ok is false on a miss; err is set only for
// Redis failures.
func (r *ResponseCache) Get(ctx context.Context, endpoint string) ([]byte, bool, error) {
	b, err := r.client.Client.Get(ctx, r.key(endpoint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", endpoint, err)
	}
	return b, true, nil
}

// Set stores payload for endpoint.
func (r *ResponseCache) Set(ctx context.Context, endpoint string, payload []byte) error {
	if err := r.client.Client.Set(ctx, r.key(endpoint), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", endpoint, err)
	}
	return nil
}

// Invalidate removes cached payloads for the given endpoints.
func (r *ResponseCache) Invalidate(ctx context.Context, endpoints ...string) error {
	if len(endpoints) == 0 {
		return nil
	}
	keys := make([]string, len(endpoints))
	for i, e := range endpoints {
		keys[i] = r.key(e)
	}
	return r.client.Client.Del(ctx, keys...).Err()
}
