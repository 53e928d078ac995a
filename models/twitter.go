package models

import "time"

// TwitterUser is the persisted result of a completed OAuth 1.0a exchange:
// the access credentials plus a profile snapshot taken at verification
// time. Stored under twitter:user:<lowercased screen_name>.
type TwitterUser struct {
	AccessToken       string `json:"accessToken" validate:"required"`
	AccessTokenSecret string `json:"accessTokenSecret" validate:"required"`
	UserID            string `json:"userId" validate:"required"`
	ScreenName        string `json:"screen_name" validate:"required"`
	Name              string `json:"name,omitempty"`
	ProfileImageURL   string `json:"profile_image_url,omitempty"`
	FollowersCount    int64  `json:"followers_count"`
	FriendsCount      int64  `json:"friends_count"`
	Verified          bool   `json:"verified"`
	Description       string `json:"description,omitempty"`
	Location          string `json:"location,omitempty"`
	VerifiedAt        string `json:"verified_at,omitempty"`
	Timestamp         int64  `json:"timestamp"`
}

// VerifiedTwitterUser is the admin-facing projection of a TwitterUser,
// without the access credentials.
type VerifiedTwitterUser struct {
	ScreenName      string `json:"screen_name"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url"`
	FollowersCount  int64  `json:"followers_count"`
	FriendsCount    int64  `json:"friends_count"`
	Verified        bool   `json:"verified"`
	Description     string `json:"description"`
	Location        string `json:"location"`
	URL             string `json:"url"`
	VerifiedAt      string `json:"verified_at"`
	UserID          string `json:"userId"`
	Timestamp       int64  `json:"timestamp"`
}

// TempTokenTTL bounds the lifetime of an OAuth 1.0a request-token secret
// between the request-token and callback steps.
const TempTokenTTL = 5 * time.Minute
