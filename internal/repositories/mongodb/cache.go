package mongodb

import (
	"context"
	"time"
)

// CacheService is the slice of the Redis cache the repositories need.
// Satisfied by pkg/cache.RedisCache; nil disables caching.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
