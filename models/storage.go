package models

import (
	"context"
	"time"
)

type StorageType string

const (
	StorageTypeMemory StorageType = "memory"
	StorageTypeRedis  StorageType = "redis"
)

// KeyValueStore defines the interface every storage backend must implement.
// All persistence in NABULINES goes through these operations.
type KeyValueStore interface {
	// Get retrieves the value associated with the given key.
	// Returns ErrKeyNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) (string, error)
	// Set stores a value with an optional time-to-live (TTL).
	Set(ctx context.Context, key string, value string, ttl *time.Duration) error
	// SetNX stores a value only if the key does not already exist.
	// Returns true if the value was written.
	SetNX(ctx context.Context, key string, value string, ttl *time.Duration) (bool, error)
	// Delete removes the value associated with the given key.
	Delete(ctx context.Context, key string) error
	// Keys returns all keys matching a glob-style pattern (e.g. "address:*").
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Incr increments an integer value associated with the given key.
	// The TTL is only applied when the key is created by the increment.
	Incr(ctx context.Context, key string, ttl *time.Duration) (int, error)
	// TTL retrieves the remaining time-to-live for the given key.
	// Returns nil when the key does not exist or has no expiration.
	TTL(ctx context.Context, key string) (*time.Duration, error)
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	// FlushAll removes every key in the store.
	FlushAll(ctx context.Context) error
	// Close closes the storage and releases any resources.
	Close() error
}
