// Package cache is a thin JSON-over-Redis cache.
//
// The client degrades gracefully: if Redis is unreachable at boot, Get
// reports a miss and Set/Del no-op, so callers never need nil checks.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/forkful/forkful/config"
)

var RDB *redis.Client

// Connect initialises the Redis client and verifies the connection with a ping.
func Connect(ctx context.Context) error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := RDB.Ping(ctx).Err(); err != nil {
		RDB = nil // mark as unavailable so Get/Set/Del no-op safely
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or error.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(ctx, key).Result()
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value in Redis under key for the given TTL.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RDB.Set(ctx, key, data, ttl).Err()
}

// Del removes one or more keys.
func Del(ctx context.Context, keys ...string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// Incr increments key and, when the counter is fresh, applies ttl as its
// expiry. Used by the fixed-window rate limiter. Returns the new count.
func Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if RDB == nil {
		return 0, redis.ErrClosed
	}

	n, err := RDB.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		_ = RDB.Expire(ctx, key, ttl).Err()
	}
	return n, nil
}
