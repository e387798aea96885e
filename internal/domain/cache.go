package domain

import (
	"context"
	"time"
)

// CacheRepository is a generic JSON cache. Get returns ErrCacheMiss when the key is absent.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetRaw(ctx context.Context, key string) ([]byte, error)
	SetRaw(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ErrCacheMiss is returned by CacheRepository.Get for absent keys
var ErrCacheMiss = NewError(ErrNotFound, "cache miss")

const idempotencyKeyPrefix = "idempotency:"

// IdempotencyKey is the replay-cache key of one mutating request. The method and path
// are part of the key so a reused correlation id on another endpoint is not replayed.
func IdempotencyKey(userID, method, path, correlationID string) string {
	return idempotencyKeyPrefix + userID + ":" + method + " " + path + ":" + correlationID
}

// IdempotencyPattern matches every replay-cache key of a user
func IdempotencyPattern(userID string) string {
	return idempotencyKeyPrefix + userID + ":*"
}
