// Package auth implements the API-key collaborator consulted before any
// resolution work: key registry checks plus per-key daily usage accounting.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// keyRegistry is the Redis hash mapping API keys to their state.
	keyRegistry = "api_keys"

	// keyStateDisabled marks a key that exists but may not be used.
	keyStateDisabled = "disabled"

	// usageKeyTTL keeps per-day usage counters around long enough to span
	// the date rollover in any timezone drift, then lets Redis reclaim them.
	usageKeyTTL = 48 * time.Hour
)

// Result is the outcome of verifying an API key.
type Result struct {
	OK     bool
	Reason string
}

// Verifier validates API keys and accounts their usage.
type Verifier interface {
	// Verify checks the key and, when the key is known and enabled,
	// increments its usage counter for the current day. The counter resets
	// naturally on date rollover. A non-nil error means the verifier
	// itself was unavailable, not that the key was rejected.
	Verify(ctx context.Context, key string) (Result, error)
}

// RedisVerifier implements Verifier using Redis.
// Keys live in a registry hash; usage counters are date-suffixed so each
// day starts at zero without explicit resets.
type RedisVerifier struct {
	client     *redis.Client
	dailyLimit int
	now        func() time.Time
}

// Compile-time verification that RedisVerifier implements Verifier.
var _ Verifier = (*RedisVerifier)(nil)

// NewRedisVerifier creates a Redis-backed verifier with the given per-key
// daily request limit.
func NewRedisVerifier(client *redis.Client, dailyLimit int) *RedisVerifier {
	if dailyLimit <= 0 {
		dailyLimit = 1000
	}
	return &RedisVerifier{
		client:     client,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
}

// Verify checks the key against the registry and its daily usage counter.
func (v *RedisVerifier) Verify(ctx context.Context, key string) (Result, error) {
	if key == "" {
		return Result{Reason: "missing api key"}, nil
	}

	state, err := v.client.HGet(ctx, keyRegistry, key).Result()
	if err != nil {
		if err == redis.Nil {
			return Result{Reason: "unknown api key"}, nil
		}
		return Result{}, fmt.Errorf("redis hget: %w", err)
	}

	if state == keyStateDisabled {
		return Result{Reason: "api key disabled"}, nil
	}

	usageKey := v.usageKey(key)
	count, err := v.client.Incr(ctx, usageKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		// First request of the day; bound the counter's lifetime.
		if err := v.client.Expire(ctx, usageKey, usageKeyTTL).Err(); err != nil {
			return Result{}, fmt.Errorf("redis expire: %w", err)
		}
	}

	if count > int64(v.dailyLimit) {
		return Result{Reason: "daily limit exceeded"}, nil
	}

	return Result{OK: true}, nil
}

// usageKey builds the per-key, per-day usage counter key.
func (v *RedisVerifier) usageKey(key string) string {
	return fmt.Sprintf("usage:%s:%s", key, v.now().UTC().Format("20060102"))
}
