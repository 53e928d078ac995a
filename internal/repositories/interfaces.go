package repositories

import (
	"context"

	"github.com/alisharafiiii/nabulines-backup/models"
)

// IdentityRepository manages the two-way wallet address <-> username mapping.
type IdentityRepository interface {
	// ClaimUsername binds a username to an address. The claim is atomic:
	// a username already owned by a different address returns
	// models.ErrUsernameTaken, re-claiming with the same address succeeds.
	ClaimUsername(ctx context.Context, address, username string) error
	// UsernameForAddress resolves address:<wallet>.
	UsernameForAddress(ctx context.Context, address string) (string, error)
	// AddressForUsername resolves username:<name>.
	AddressForUsername(ctx context.Context, username string) (string, error)
	// AllIdentities lists every address->username pair.
	AllIdentities(ctx context.Context) ([]models.Identity, error)
}

// SocialRepository manages per-username social platform entries.
type SocialRepository interface {
	// Entries returns the list stored under social:<username>.
	// A missing key yields an empty list.
	Entries(ctx context.Context, username string) ([]models.SocialEntry, error)
	// UpsertPlatform replaces the entry for the platform or appends a new
	// one, and returns the updated list.
	UpsertPlatform(ctx context.Context, username string, entry models.SocialEntry) ([]models.SocialEntry, error)
	// PlatformStats aggregates user and follower counts for one platform.
	PlatformStats(ctx context.Context, platform string) (*PlatformStats, error)
}

// TwitterRepository manages OAuth handshake secrets and verified profiles.
type TwitterRepository interface {
	// SaveTempSecret caches a request-token secret for the callback step.
	SaveTempSecret(ctx context.Context, token, secret string) error
	// TempSecret retrieves a cached request-token secret.
	TempSecret(ctx context.Context, token string) (string, error)
	// DeleteTempSecret removes a consumed request-token secret.
	DeleteTempSecret(ctx context.Context, token string) error
	// SaveUser persists a verified Twitter user under the canonical
	// twitter:user:<lowercased screen name> key.
	SaveUser(ctx context.Context, user *models.TwitterUser) error
	// User retrieves a verified Twitter user by screen name.
	User(ctx context.Context, screenName string) (*models.TwitterUser, error)
	// VerifiedUsers lists all verified profiles, one per screen name,
	// sorted by follower count descending.
	VerifiedUsers(ctx context.Context) ([]models.VerifiedTwitterUser, error)
}

// KOLRepository manages Key Opinion Leader onboarding profiles.
type KOLRepository interface {
	// Create stores a profile. A username already used by another profile
	// returns models.ErrUsernameTaken.
	Create(ctx context.Context, profile *models.KOLProfile) error
	// ByWallet retrieves a profile by wallet address.
	ByWallet(ctx context.Context, wallet string) (*models.KOLProfile, error)
	// List returns all profiles matching the filter.
	List(ctx context.Context, filter models.KOLFilter) ([]models.KOLProfile, error)
}

// PlatformStats is the aggregate returned by SocialRepository.PlatformStats.
type PlatformStats struct {
	Platform       string `json:"platform"`
	TotalUsers     int    `json:"totalUsers"`
	TotalFollowers int64  `json:"totalFollowers"`
}
