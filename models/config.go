package models

import "time"

// TwitterConfig holds the OAuth 1.0a consumer credentials.
type TwitterConfig struct {
	APIKey      string
	APISecret   string
	CallbackURL string
}

// TikTokConfig holds the OAuth2 client credentials.
type TikTokConfig struct {
	ClientKey    string
	ClientSecret string
	RedirectURL  string
}

// StorageConfig selects and tunes the key-value backend.
type StorageConfig struct {
	Type        StorageType
	RedisURL    string
	MaxRetries  int
	PoolSize    int
	PoolTimeout time.Duration
	// Store overrides the built-in backends when set.
	Store KeyValueStore
}

// RateLimitConfig bounds requests per client IP within a rolling window.
type RateLimitConfig struct {
	Enabled     bool
	Window      time.Duration
	MaxRequests int
}

// EventBusConfig selects the pub/sub transport.
type EventBusConfig struct {
	// Provider is "gochannel" or "redisstream". Empty disables the bus.
	Provider      string
	RedisURL      string
	ConsumerGroup string
}

// Config is the full service configuration assembled by config.NewConfig.
type Config struct {
	AppName     string
	BaseURL     string
	Port        string
	Secret      string
	AdminWallet string

	Storage   StorageConfig
	Twitter   TwitterConfig
	TikTok    TikTokConfig
	RateLimit RateLimitConfig
	EventBus  EventBusConfig

	Logger Logger
}
