package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore wraps a redis client. It backs the interstitial frequency gate
// with cross-session last-shown timestamps.
type RedisStore struct {
	Client *redis.Client
}

// InitRedis initializes a Redis client and returns a RedisStore.
func InitRedis(addr string) (*RedisStore, error) {
	rs := &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
	}

	if err := redisotel.InstrumentTracing(rs.Client); err != nil {
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	if err := rs.Client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	zap.L().Info("Connected to Redis", zap.String("addr", addr))
	return rs, nil
}

func lastShownKey(key string) string {
	return "lastshown:" + key
}

// LastShown returns the recorded display timestamp for key. The second
// return value is false when no record exists.
func (r *RedisStore) LastShown(ctx context.Context, key string) (time.Time, bool, error) {
	val, err := r.Client.Get(ctx, lastShownKey(key)).Int64()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return time.Unix(val, 0), true, nil
}

// MarkShown stores t as the display timestamp for key. The record expires
// after window, so a stale record never outlives the cooldown it guards.
func (r *RedisStore) MarkShown(ctx context.Context, key string, t time.Time, window time.Duration) error {
	return r.Client.Set(ctx, lastShownKey(key), t.Unix(), window).Err()
}

// Close shuts down the Redis client.
func (r *RedisStore) Close() {
	if r != nil && r.Client != nil {
		if err := r.Client.Close(); err != nil {
			zap.L().Error("redis close", zap.Error(err))
		}
	}
}
