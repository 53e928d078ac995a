package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alisharafiiii/nabulines-backup/internal/util"
	"github.com/alisharafiiii/nabulines-backup/models"
)

// KVSocialRepository implements SocialRepository over a key-value store.
// Stored payloads are validated on both read and write; a record that does
// not parse as a social entry list is rejected, not defaulted.
type KVSocialRepository struct {
	store  models.KeyValueStore
	logger models.Logger
}

var _ SocialRepository = (*KVSocialRepository)(nil)

func NewKVSocialRepository(store models.KeyValueStore, logger models.Logger) *KVSocialRepository {
	return &KVSocialRepository{store: store, logger: logger}
}

func (r *KVSocialRepository) Entries(ctx context.Context, username string) ([]models.SocialEntry, error) {
	raw, err := r.store.Get(ctx, socialKey(username))
	if errors.Is(err, models.ErrKeyNotFound) {
		return []models.SocialEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read social data: %w", err)
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		return nil, fmt.Errorf("social data for %q: %w", username, err)
	}

	return entries, nil
}

func (r *KVSocialRepository) UpsertPlatform(ctx context.Context, username string, entry models.SocialEntry) ([]models.SocialEntry, error) {
	if err := util.ValidateStruct(&entry); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRecord, err)
	}

	entries, err := r.Entries(ctx, username)
	if err != nil {
		return nil, err
	}

	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}

	updated := false
	for i := range entries {
		if entries[i].Platform == entry.Platform {
			entries[i] = entry
			updated = true
			break
		}
	}
	if !updated {
		entries = append(entries, entry)
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode social data: %w", err)
	}

	if err := r.store.Set(ctx, socialKey(username), string(raw), nil); err != nil {
		return nil, fmt.Errorf("store social data: %w", err)
	}

	return entries, nil
}

// PlatformStats walks every social:* key and totals users and followers
// for one platform. Unreadable records are skipped so one corrupt entry
// cannot break the aggregate.
func (r *KVSocialRepository) PlatformStats(ctx context.Context, platform string) (*PlatformStats, error) {
	keys, err := r.store.Keys(ctx, prefixSocial+"*")
	if err != nil {
		return nil, fmt.Errorf("scan social keys: %w", err)
	}

	stats := &PlatformStats{Platform: platform}
	seen := make(map[string]bool, len(keys))

	for _, key := range keys {
		username := strings.TrimPrefix(key, prefixSocial)
		if seen[username] {
			continue
		}
		seen[username] = true

		raw, err := r.store.Get(ctx, key)
		if err != nil {
			r.logger.Warn("skipping unreadable social record", "key", key, "error", err)
			continue
		}

		entries, err := decodeEntries(raw)
		if err != nil {
			r.logger.Warn("skipping malformed social record", "key", key, "error", err)
			continue
		}

		for _, entry := range entries {
			if entry.Platform != platform {
				continue
			}
			stats.TotalUsers++
			stats.TotalFollowers += entry.Followers
			break
		}
	}

	return stats, nil
}

func decodeEntries(raw string) ([]models.SocialEntry, error) {
	var entries []models.SocialEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRecord, err)
	}

	valid := entries[:0]
	for _, entry := range entries {
		if err := util.ValidateStruct(&entry); err != nil {
			continue
		}
		valid = append(valid, entry)
	}

	return valid, nil
}
