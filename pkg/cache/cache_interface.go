package cache

import (
	"context"
	"time"
)

// Cache is the key/value contract the catalog reads through. Values are JSON encoded.
type Cache interface {
	// Get decodes the value at key into dest. found is false on a miss and dest is untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// Increment atomically adds one to the integer at key, creating it at zero first.
	Increment(ctx context.Context, key string) (int64, error)
	// Counter reads an integer written by Increment. A missing key reads as zero.
	Counter(ctx context.Context, key string) (int64, error)
	Ping(ctx context.Context) error
}
