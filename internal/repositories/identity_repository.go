package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alisharafiiii/nabulines-backup/models"
)

// KVIdentityRepository implements IdentityRepository over a key-value store.
type KVIdentityRepository struct {
	store  models.KeyValueStore
	logger models.Logger
}

var _ IdentityRepository = (*KVIdentityRepository)(nil)

func NewKVIdentityRepository(store models.KeyValueStore, logger models.Logger) *KVIdentityRepository {
	return &KVIdentityRepository{store: store, logger: logger}
}

// ClaimUsername binds username to address. The username key is written
// first with SetNX so two concurrent claims cannot both win; the address
// inverse is only written by the winner, which keeps the pair from
// splitting across two owners.
func (r *KVIdentityRepository) ClaimUsername(ctx context.Context, address, username string) error {
	ok, err := r.store.SetNX(ctx, usernameKey(username), address, nil)
	if err != nil {
		return fmt.Errorf("claim username: %w", err)
	}

	if !ok {
		owner, err := r.store.Get(ctx, usernameKey(username))
		if err != nil {
			return fmt.Errorf("resolve username owner: %w", err)
		}
		if !strings.EqualFold(owner, address) {
			return models.ErrUsernameTaken
		}
		// Idempotent re-claim by the same address
	}

	if err := r.store.Set(ctx, addressKey(address), username, nil); err != nil {
		return fmt.Errorf("store address mapping: %w", err)
	}

	return nil
}

func (r *KVIdentityRepository) UsernameForAddress(ctx context.Context, address string) (string, error) {
	username, err := r.store.Get(ctx, addressKey(address))
	if errors.Is(err, models.ErrKeyNotFound) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup username for address: %w", err)
	}
	return username, nil
}

func (r *KVIdentityRepository) AddressForUsername(ctx context.Context, username string) (string, error) {
	address, err := r.store.Get(ctx, usernameKey(username))
	if errors.Is(err, models.ErrKeyNotFound) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup address for username: %w", err)
	}
	return address, nil
}

// AllIdentities scans address:* and resolves each pair. A key that fails
// to resolve is skipped so one bad record cannot break the listing.
func (r *KVIdentityRepository) AllIdentities(ctx context.Context) ([]models.Identity, error) {
	keys, err := r.store.Keys(ctx, prefixAddress+"*")
	if err != nil {
		return nil, fmt.Errorf("scan address keys: %w", err)
	}

	identities := make([]models.Identity, 0, len(keys))
	for _, key := range keys {
		username, err := r.store.Get(ctx, key)
		if err != nil {
			r.logger.Warn("skipping unreadable address mapping", "key", key, "error", err)
			continue
		}
		if username == "" {
			continue
		}
		identities = append(identities, models.Identity{
			Address:  strings.TrimPrefix(key, prefixAddress),
			Username: username,
		})
	}

	return identities, nil
}
