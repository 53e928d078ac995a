package storage

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/alisharafiiii/nabulines-backup/models"
)

// storageEntry represents a single entry in the memory store with expiration support.
type storageEntry struct {
	value     string
	expiresAt *time.Time
}

// MemoryStore is an in-memory implementation of models.KeyValueStore,
// used for tests and local development without a Redis instance.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]*storageEntry
	// cleanupInterval controls how often expired entries are cleaned up.
	cleanupInterval time.Duration
	// stopCleanup is used to signal the cleanup goroutine to stop.
	stopCleanup chan struct{}
	// done signals that the cleanup goroutine has stopped.
	done chan struct{}

	closeOnce sync.Once
}

var _ models.KeyValueStore = (*MemoryStore)(nil)

// MemoryStoreOptions tunes the in-memory backend.
type MemoryStoreOptions struct {
	CleanupInterval time.Duration
}

func NewMemoryStore(opts *MemoryStoreOptions) *MemoryStore {
	cleanupInterval := 1 * time.Minute
	if opts != nil && opts.CleanupInterval != 0 {
		cleanupInterval = opts.CleanupInterval
	}

	store := &MemoryStore{
		store:           make(map[string]*storageEntry),
		cleanupInterval: cleanupInterval,
		stopCleanup:     make(chan struct{}),
		done:            make(chan struct{}),
	}

	go store.cleanupExpiredEntries()

	return store
}

// Get retrieves a value from memory by key.
func (ms *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	entry, exists := ms.store[key]
	if !exists {
		return "", models.ErrKeyNotFound
	}

	if entry.expiresAt != nil && time.Now().After(*entry.expiresAt) {
		return "", models.ErrKeyNotFound
	}

	return entry.value, nil
}

// Set stores a value in memory with an optional TTL.
func (ms *MemoryStore) Set(ctx context.Context, key string, value string, ttl *time.Duration) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.store[key] = newEntry(value, ttl)

	return nil
}

// SetNX stores a value only if the key is absent or expired.
func (ms *MemoryStore) SetNX(ctx context.Context, key string, value string, ttl *time.Duration) (bool, error) {
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if entry, exists := ms.store[key]; exists {
		if entry.expiresAt == nil || time.Now().Before(*entry.expiresAt) {
			return false, nil
		}
	}

	ms.store[key] = newEntry(value, ttl)

	return true, nil
}

// Delete removes a key from the store.
func (ms *MemoryStore) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.store, key)

	return nil
}

// Keys returns all live keys matching a glob-style pattern.
func (ms *MemoryStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	now := time.Now()
	var keys []string
	for key, entry := range ms.store {
		if entry.expiresAt != nil && now.After(*entry.expiresAt) {
			continue
		}
		matched, err := path.Match(pattern, key)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if matched {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// Incr increments the integer value stored at key by 1.
// If the key does not exist, it is initialized to 0 and then incremented.
// The TTL is only applied when the increment creates the key.
func (ms *MemoryStore) Incr(ctx context.Context, key string, ttl *time.Duration) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	var count int
	entry, exists := ms.store[key]
	if exists && (entry.expiresAt == nil || time.Now().Before(*entry.expiresAt)) {
		current, err := strconv.Atoi(entry.value)
		if err != nil {
			return 0, fmt.Errorf("value at key %s is not an integer: %w", key, err)
		}
		count = current + 1
		entry.value = strconv.Itoa(count)
		return count, nil
	}

	count = 1
	ms.store[key] = newEntry(strconv.Itoa(count), ttl)

	return count, nil
}

// TTL returns the remaining time to live for a key.
// Returns nil when the key does not exist or has no expiration.
func (ms *MemoryStore) TTL(ctx context.Context, key string) (*time.Duration, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	entry, exists := ms.store[key]
	if !exists || entry.expiresAt == nil {
		return nil, nil
	}

	remaining := time.Until(*entry.expiresAt)
	if remaining <= 0 {
		return nil, nil
	}

	return &remaining, nil
}

// Ping always succeeds for the in-memory backend.
func (ms *MemoryStore) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}
	return nil
}

// FlushAll removes every entry from the store.
func (ms *MemoryStore) FlushAll(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.store = make(map[string]*storageEntry)

	return nil
}

// Close stops the cleanup goroutine.
func (ms *MemoryStore) Close() error {
	ms.closeOnce.Do(func() {
		close(ms.stopCleanup)
		<-ms.done
	})
	return nil
}

func newEntry(value string, ttl *time.Duration) *storageEntry {
	entry := &storageEntry{value: value}
	if ttl != nil {
		expiresAt := time.Now().Add(*ttl)
		entry.expiresAt = &expiresAt
	}
	return entry
}

// cleanupExpiredEntries periodically removes expired entries.
func (ms *MemoryStore) cleanupExpiredEntries() {
	defer close(ms.done)

	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			ms.mu.Lock()
			for key, entry := range ms.store {
				if entry.expiresAt != nil && now.After(*entry.expiresAt) {
					delete(ms.store, key)
				}
			}
			ms.mu.Unlock()
		case <-ms.stopCleanup:
			return
		}
	}
}
