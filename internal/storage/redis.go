package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alisharafiiii/nabulines-backup/env"
	"github.com/alisharafiiii/nabulines-backup/models"
)

// RedisStoreOptions configures a Redis store instance
type RedisStoreOptions struct {
	URL         string
	MaxRetries  int
	PoolSize    int
	PoolTimeout time.Duration
}

// RedisStore implements models.KeyValueStore using Redis as the backend
type RedisStore struct {
	client *redis.Client
}

var _ models.KeyValueStore = (*RedisStore)(nil)

// NewRedisStore creates a new Redis-backed key-value store
func NewRedisStore(opts RedisStoreOptions) (*RedisStore, error) {
	envURL := os.Getenv(env.EnvRedisURL)
	if envURL != "" {
		opts.URL = envURL
	} else if opts.URL == "" {
		return nil, fmt.Errorf("redis URL must be provided")
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = 10
	}
	if opts.PoolTimeout == 0 {
		opts.PoolTimeout = 30 * time.Second
	}

	opt, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	opt.MaxRetries = opts.MaxRetries
	opt.PoolSize = opts.PoolSize
	opt.PoolTimeout = opts.PoolTimeout
	opt.ReadTimeout = 5 * time.Second
	opt.WriteTimeout = 5 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.URL, err)
	}

	return &RedisStore{
		client: client,
	}, nil
}

// Get retrieves a value from Redis by key
func (rs *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := rs.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", models.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get error: %w", err)
	}
	return val, nil
}

// Set stores a value in Redis with an optional TTL
func (rs *RedisStore) Set(ctx context.Context, key string, value string, ttl *time.Duration) error {
	var expiration time.Duration
	if ttl != nil {
		expiration = *ttl
	}

	if err := rs.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

// SetNX stores a value only if the key does not already exist.
// This is the atomic claim primitive used for username ownership.
func (rs *RedisStore) SetNX(ctx context.Context, key string, value string, ttl *time.Duration) (bool, error) {
	var expiration time.Duration
	if ttl != nil {
		expiration = *ttl
	}

	ok, err := rs.client.SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx error: %w", err)
	}
	return ok, nil
}

// Delete removes a key from Redis
func (rs *RedisStore) Delete(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete error: %w", err)
	}
	return nil
}

// Keys returns all keys matching a glob-style pattern.
// Uses SCAN rather than KEYS so a large keyspace cannot block the server.
func (rs *RedisStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := rs.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan error: %w", err)
	}
	return keys, nil
}

// Incr atomically increments an integer value in Redis by 1
// If a TTL is provided, it is only applied on key creation
func (rs *RedisStore) Incr(ctx context.Context, key string, ttl *time.Duration) (int, error) {
	exists, err := rs.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis exists check error: %w", err)
	}

	val, err := rs.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr error: %w", err)
	}

	if exists == 0 && ttl != nil {
		if err := rs.client.Expire(ctx, key, *ttl).Err(); err != nil {
			return 0, fmt.Errorf("redis expire error: %w", err)
		}
	}

	return int(val), nil
}

// TTL returns the remaining time to live for a key
// Returns nil if the key does not exist or has no expiration
func (rs *RedisStore) TTL(ctx context.Context, key string) (*time.Duration, error) {
	ttl, err := rs.client.TTL(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis ttl error: %w", err)
	}

	// Redis returns -1 if key exists but has no associated expire
	// Redis returns -2 if key does not exist
	if ttl == -1 || ttl == -2 {
		return nil, nil
	}

	return &ttl, nil
}

// Ping verifies the Redis connection is alive
func (rs *RedisStore) Ping(ctx context.Context) error {
	if err := rs.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping error: %w", err)
	}
	return nil
}

// FlushAll removes every key from the current database
func (rs *RedisStore) FlushAll(ctx context.Context) error {
	if err := rs.client.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("redis flush error: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
