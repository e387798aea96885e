package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flori/fittrack/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const scanBatchSize = 100

// RedisCacheRepository implements domain.CacheRepository using Redis
type RedisCacheRepository struct {
	client *redis.Client
}

// NewRedisCacheRepository creates a new Redis cache repository
func NewRedisCacheRepository(client *redis.Client) *RedisCacheRepository {
	return &RedisCacheRepository{
		client: client,
	}
}

func (r *RedisCacheRepository) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("redis").Start(ctx, name, trace.WithAttributes(attrs...))
}

// Get retrieves a JSON value from cache by key with OTel tracing
func (r *RedisCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := r.GetRaw(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}
	return nil
}

// Set stores a JSON value in cache with TTL and OTel tracing
func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return r.SetRaw(ctx, key, data, ttl)
}

// GetRaw retrieves raw bytes; a missing key returns domain.ErrCacheMiss
func (r *RedisCacheRepository) GetRaw(ctx context.Context, key string) ([]byte, error) {
	ctx, span := r.startSpan(ctx, "redis.Get", attribute.String("cache.key", key))
	defer span.End()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.String("cache.result", "miss"))
			return nil, domain.ErrCacheMiss
		}
		span.RecordError(err)
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	span.SetAttributes(attribute.String("cache.result", "hit"))
	return data, nil
}

// SetRaw stores raw bytes with TTL
func (r *RedisCacheRepository) SetRaw(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, span := r.startSpan(ctx, "redis.Set",
		attribute.String("cache.key", key),
		attribute.Int64("cache.ttl_seconds", int64(ttl.Seconds())),
	)
	defer span.End()

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

// Delete removes keys from cache with OTel tracing
func (r *RedisCacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	ctx, span := r.startSpan(ctx, "redis.Delete", attribute.Int("cache.key_count", len(keys)))
	defer span.End()

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis delete error: %w", err)
	}
	return nil
}

// DeleteByPattern removes keys matching a glob pattern. Walks the keyspace with SCAN.
func (r *RedisCacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	ctx, span := r.startSpan(ctx, "redis.DeleteByPattern", attribute.String("cache.pattern", pattern))
	defer span.End()

	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis scan error: %w", err)
	}

	span.SetAttributes(attribute.Int("cache.matched_keys", len(keys)))
	if err := r.Delete(ctx, keys...); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
