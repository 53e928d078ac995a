// Package services holds the application services that sit between the
// HTTP handlers and the repositories.
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/alisharafiiii/nabulines-backup/models"
)

// PassportTTL is the validity window of an issued NABUPASS.
const PassportTTL = 24 * time.Hour

const passportIssuer = "nabulines"

// Passport is an issued NABUPASS credential: a signed token plus the
// display fields the holder page renders.
type Passport struct {
	ID             string `json:"id"`
	Token          string `json:"token"`
	ScreenName     string `json:"screen_name"`
	Name           string `json:"name"`
	FollowersCount int64  `json:"followers_count"`
	Verified       bool   `json:"verified"`
	IssuedAt       int64  `json:"issued_at"`
	ExpiresAt      int64  `json:"expires_at"`
}

// PassportService issues and verifies NABUPASS credentials for verified
// Twitter users. Tokens are HS256 JWTs signed with the application secret.
type PassportService struct {
	logger models.Logger
	key    jwk.Key
	now    func() time.Time
}

// NewPassportService creates a passport service signing with the given
// secret.
func NewPassportService(logger models.Logger, secret string) (*PassportService, error) {
	if secret == "" {
		return nil, errors.New("passport service requires a signing secret")
	}

	key, err := jwk.Import([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("import signing key: %w", err)
	}

	return &PassportService{
		logger: logger,
		key:    key,
		now:    time.Now,
	}, nil
}

// Issue creates a NABUPASS for a verified Twitter user.
func (s *PassportService) Issue(user *models.TwitterUser) (*Passport, error) {
	if user == nil || user.ScreenName == "" {
		return nil, errors.New("passport requires a verified twitter user")
	}

	now := s.now()
	expiresAt := now.Add(PassportTTL)
	passportID := "NABUPASS-" + uuid.New().String()

	claims := jwt.New()
	claims.Set(jwt.IssuerKey, passportIssuer)
	claims.Set(jwt.SubjectKey, user.UserID)
	claims.Set(jwt.JwtIDKey, passportID)
	claims.Set(jwt.IssuedAtKey, now)
	claims.Set(jwt.ExpirationKey, expiresAt)
	claims.Set("screen_name", user.ScreenName)
	claims.Set("name", user.Name)
	claims.Set("followers_count", user.FollowersCount)
	claims.Set("verified", user.Verified)

	signed, err := jwt.Sign(claims, jwt.WithKey(jwa.HS256(), s.key))
	if err != nil {
		return nil, fmt.Errorf("sign passport: %w", err)
	}

	s.logger.Info("issued passport", "id", passportID, "screen_name", user.ScreenName)

	return &Passport{
		ID:             passportID,
		Token:          string(signed),
		ScreenName:     user.ScreenName,
		Name:           user.Name,
		FollowersCount: user.FollowersCount,
		Verified:       user.Verified,
		IssuedAt:       now.Unix(),
		ExpiresAt:      expiresAt.Unix(),
	}, nil
}

// Verify parses a NABUPASS token and returns its passport ID and screen
// name when the signature and expiry check out.
func (s *PassportService) Verify(token string) (passportID, screenName string, err error) {
	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256(), s.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(passportIssuer),
		jwt.WithClock(jwt.ClockFunc(s.now)),
	)
	if err != nil {
		return "", "", fmt.Errorf("parse passport: %w", err)
	}

	jti, ok := parsed.JwtID()
	if !ok || jti == "" {
		return "", "", errors.New("passport has no id")
	}

	if err := parsed.Get("screen_name", &screenName); err != nil || screenName == "" {
		return "", "", errors.New("passport has no screen name")
	}

	return jti, screenName, nil
}
