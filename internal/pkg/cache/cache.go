// Package cache holds the Redis-backed snapshot cache for derived dashboard
// statistics. Counters are cheap to recompute but are hit on every dashboard
// render, so they are cached briefly and invalidated on writes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbaylon/interntrack/internal/pkg/logger"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// StatsCache caches JSON-encoded values with a fixed TTL
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a stats cache. A nil client disables caching.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Get loads a cached value into dest, reporting whether it was present
func (c *StatsCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// A malformed entry is treated as a miss and dropped
		logger.Warn().Err(err).Str("key", key).Msg("Dropping malformed cache entry")
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

// Set stores a value under the cache TTL
func (c *StatsCache) Set(ctx context.Context, key string, value interface{}) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Invalidate removes keys after a write so the next read recomputes
func (c *StatsCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn().Err(err).Strs("keys", keys).Msg("Failed to invalidate cache keys")
	}
}
