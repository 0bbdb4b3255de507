// Package cache is a read-through key/value cache for computed results.
// Values are stored as JSON so the Redis and in-memory backends agree.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
)

// Cache is the minimal backend contract. Get reports a miss with ok=false
// and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Key joins a metric name with its parameters: Key("sales", "2025-01-01", 7)
// -> "analytics:sales:2025-01-01:7".
func Key(metric string, params ...interface{}) string {
	parts := make([]string, 0, len(params)+2)
	parts = append(parts, "analytics", metric)
	for _, p := range params {
		switch v := p.(type) {
		case time.Time:
			parts = append(parts, v.UTC().Format(time.RFC3339))
		case nil:
			parts = append(parts, "-")
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, ":")
}

// Remember returns the cached value for key, computing and storing it on a
// miss. Backend failures are logged and fall through to compute, so a broken
// cache only costs latency. A nil cache always computes.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	if c == nil {
		return compute(ctx)
	}

	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		logger.Warn("Cache read failed, computing", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			logger.Debug("Cache hit", map[string]interface{}{"key": key})
			return cached, nil
		}
		logger.Warn("Discarding undecodable cache entry", map[string]interface{}{"key": key})
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		logger.Error("Failed to encode value for cache", err, map[string]interface{}{"key": key})
		return value, nil
	}
	if err := c.Set(ctx, key, encoded, ttl); err != nil {
		logger.Warn("Cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return value, nil
}
