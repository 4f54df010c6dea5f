package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is a Redis-backed cache satisfying the same port as InMemory.
// Values are stored as JSON. Redis failures degrade to cache misses so
// the board keeps working when Redis is down; the error is logged once
// per operation.
type Redis[T any] struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis creates a Redis cache client.
func NewRedis[T any](addr, password string, db int, ttl time.Duration, logger *zap.Logger) *Redis[T] {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis[T]{client: client, ttl: ttl, logger: logger}
}

// Ping verifies connectivity at startup.
func (r *Redis[T]) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get retrieves a value. Any Redis or decode error counts as a miss.
func (r *Redis[T]) Get(key string) (T, bool) {
	var zero T
	data, err := r.client.Get(context.Background(), key).Bytes()
	if err == redis.Nil {
		return zero, false
	}
	if err != nil {
		r.logger.Warn("redis: get failed", zap.String("key", key), zap.Error(err))
		return zero, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		r.logger.Warn("redis: decode failed", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return value, true
}

// Set stores a value with the configured TTL.
func (r *Redis[T]) Set(key string, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("redis: encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.client.Set(context.Background(), key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("redis: set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes a value.
func (r *Redis[T]) Delete(key string) {
	if err := r.client.Del(context.Background(), key).Err(); err != nil {
		r.logger.Warn("redis: delete failed", zap.String("key", key), zap.Error(err))
	}
}
