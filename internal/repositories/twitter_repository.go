package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alisharafiiii/nabulines-backup/internal/util"
	"github.com/alisharafiiii/nabulines-backup/models"
)

// KVTwitterRepository implements TwitterRepository over a key-value store.
type KVTwitterRepository struct {
	store  models.KeyValueStore
	logger models.Logger
}

var _ TwitterRepository = (*KVTwitterRepository)(nil)

func NewKVTwitterRepository(store models.KeyValueStore, logger models.Logger) *KVTwitterRepository {
	return &KVTwitterRepository{store: store, logger: logger}
}

func (r *KVTwitterRepository) SaveTempSecret(ctx context.Context, token, secret string) error {
	ttl := models.TempTokenTTL
	if err := r.store.Set(ctx, twitterTempKey(token), secret, &ttl); err != nil {
		return fmt.Errorf("store temp token secret: %w", err)
	}
	return nil
}

func (r *KVTwitterRepository) TempSecret(ctx context.Context, token string) (string, error) {
	secret, err := r.store.Get(ctx, twitterTempKey(token))
	if errors.Is(err, models.ErrKeyNotFound) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read temp token secret: %w", err)
	}
	return secret, nil
}

func (r *KVTwitterRepository) DeleteTempSecret(ctx context.Context, token string) error {
	if err := r.store.Delete(ctx, twitterTempKey(token)); err != nil {
		return fmt.Errorf("delete temp token secret: %w", err)
	}
	return nil
}

func (r *KVTwitterRepository) SaveUser(ctx context.Context, user *models.TwitterUser) error {
	if err := util.ValidateStruct(user); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidRecord, err)
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode twitter user: %w", err)
	}

	if err := r.store.Set(ctx, twitterUserKey(user.ScreenName), string(raw), nil); err != nil {
		return fmt.Errorf("store twitter user: %w", err)
	}

	return nil
}

func (r *KVTwitterRepository) User(ctx context.Context, screenName string) (*models.TwitterUser, error) {
	raw, err := r.store.Get(ctx, twitterUserKey(screenName))
	if errors.Is(err, models.ErrKeyNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read twitter user: %w", err)
	}

	var user models.TwitterUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRecord, err)
	}
	if err := util.ValidateStruct(&user); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRecord, err)
	}

	return &user, nil
}

// VerifiedUsers lists every persisted profile, one per screen name. When
// two records collide on a screen name the more complete one wins:
// higher follower count first, then the record with more populated fields.
// The result is sorted by follower count descending.
func (r *KVTwitterRepository) VerifiedUsers(ctx context.Context) ([]models.VerifiedTwitterUser, error) {
	keys, err := r.store.Keys(ctx, prefixTwitterUser+"*")
	if err != nil {
		return nil, fmt.Errorf("scan twitter user keys: %w", err)
	}

	byScreenName := make(map[string]models.VerifiedTwitterUser)
	for _, key := range keys {
		raw, err := r.store.Get(ctx, key)
		if err != nil {
			r.logger.Warn("skipping unreadable twitter record", "key", key, "error", err)
			continue
		}

		var user models.TwitterUser
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			r.logger.Warn("skipping malformed twitter record", "key", key, "error", err)
			continue
		}
		if user.ScreenName == "" {
			continue
		}

		candidate := projectVerified(&user)
		name := strings.ToLower(user.ScreenName)
		if existing, ok := byScreenName[name]; !ok || isMoreComplete(candidate, existing) {
			byScreenName[name] = candidate
		}
	}

	verified := make([]models.VerifiedTwitterUser, 0, len(byScreenName))
	for _, user := range byScreenName {
		verified = append(verified, user)
	}

	sort.Slice(verified, func(i, j int) bool {
		return verified[i].FollowersCount > verified[j].FollowersCount
	})

	return verified, nil
}

func projectVerified(user *models.TwitterUser) models.VerifiedTwitterUser {
	out := models.VerifiedTwitterUser{
		ScreenName:      user.ScreenName,
		Name:            user.Name,
		ProfileImageURL: user.ProfileImageURL,
		FollowersCount:  user.FollowersCount,
		FriendsCount:    user.FriendsCount,
		Verified:        user.Verified,
		Description:     user.Description,
		Location:        user.Location,
		URL:             "https://twitter.com/" + user.ScreenName,
		VerifiedAt:      user.VerifiedAt,
		UserID:          user.UserID,
		Timestamp:       user.Timestamp,
	}
	if out.Name == "" {
		out.Name = user.ScreenName
	}
	if out.ProfileImageURL == "" {
		out.ProfileImageURL = fmt.Sprintf("https://twitter.com/%s/profile_image?size=original", user.ScreenName)
	}
	return out
}

// isMoreComplete decides which of two colliding records to keep.
func isMoreComplete(candidate, existing models.VerifiedTwitterUser) bool {
	if candidate.FollowersCount != existing.FollowersCount {
		return candidate.FollowersCount > existing.FollowersCount
	}
	if candidate.ProfileImageURL != "" && existing.ProfileImageURL == "" {
		return true
	}
	return populatedFields(candidate) > populatedFields(existing)
}

func populatedFields(user models.VerifiedTwitterUser) int {
	count := 0
	for _, s := range []string{user.Name, user.ProfileImageURL, user.Description, user.Location, user.URL, user.VerifiedAt, user.UserID} {
		if s != "" {
			count++
		}
	}
	if user.FollowersCount > 0 {
		count++
	}
	if user.FriendsCount > 0 {
		count++
	}
	if user.Verified {
		count++
	}
	return count
}
