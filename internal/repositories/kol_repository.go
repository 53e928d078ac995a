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

// KVKOLRepository implements KOLRepository over a key-value store.
type KVKOLRepository struct {
	store  models.KeyValueStore
	logger models.Logger
}

var _ KOLRepository = (*KVKOLRepository)(nil)

func NewKVKOLRepository(store models.KeyValueStore, logger models.Logger) *KVKOLRepository {
	return &KVKOLRepository{store: store, logger: logger}
}

// Create validates and stores a profile. The kol:username:<name> marker is
// claimed with SetNX first so two onboardings cannot share a username.
func (r *KVKOLRepository) Create(ctx context.Context, profile *models.KOLProfile) error {
	if err := util.ValidateStruct(profile); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidRecord, err)
	}

	if profile.CreatedAt == 0 {
		profile.CreatedAt = time.Now().UnixMilli()
	}

	ok, err := r.store.SetNX(ctx, kolUsernameKey(profile.Username), profile.WalletAddress, nil)
	if err != nil {
		return fmt.Errorf("claim kol username: %w", err)
	}
	if !ok {
		owner, err := r.store.Get(ctx, kolUsernameKey(profile.Username))
		if err != nil || !strings.EqualFold(owner, profile.WalletAddress) {
			return models.ErrUsernameTaken
		}
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode kol profile: %w", err)
	}

	if err := r.store.Set(ctx, kolKey(profile.WalletAddress), string(raw), nil); err != nil {
		return fmt.Errorf("store kol profile: %w", err)
	}

	return nil
}

func (r *KVKOLRepository) ByWallet(ctx context.Context, wallet string) (*models.KOLProfile, error) {
	raw, err := r.store.Get(ctx, kolKey(wallet))
	if errors.Is(err, models.ErrKeyNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read kol profile: %w", err)
	}

	var profile models.KOLProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRecord, err)
	}
	if err := util.ValidateStruct(&profile); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRecord, err)
	}

	return &profile, nil
}

// List scans kol:* (skipping the kol:username: markers) and applies the
// filter. Malformed profiles are skipped.
func (r *KVKOLRepository) List(ctx context.Context, filter models.KOLFilter) ([]models.KOLProfile, error) {
	keys, err := r.store.Keys(ctx, prefixKOL+"*")
	if err != nil {
		return nil, fmt.Errorf("scan kol keys: %w", err)
	}

	profiles := make([]models.KOLProfile, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, prefixKOLUsername) {
			continue
		}

		raw, err := r.store.Get(ctx, key)
		if err != nil {
			r.logger.Warn("skipping unreadable kol record", "key", key, "error", err)
			continue
		}

		var profile models.KOLProfile
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			r.logger.Warn("skipping malformed kol record", "key", key, "error", err)
			continue
		}
		if err := util.ValidateStruct(&profile); err != nil {
			r.logger.Warn("skipping invalid kol record", "key", key, "error", err)
			continue
		}

		if filter.Matches(&profile) {
			profiles = append(profiles, profile)
		}
	}

	return profiles, nil
}
