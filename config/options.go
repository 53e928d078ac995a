package config

import (
	"fmt"
	"os"
	"time"

	"github.com/alisharafiiii/nabulines-backup/env"
	"github.com/alisharafiiii/nabulines-backup/models"
)

const defaultSecret = "nabulines-dev-secret-0123456789ab"

type ConfigOption func(*models.Config)

// NewConfig builds a Config using functional options with sensible defaults.
// Panics if required secrets are missing in production.
func NewConfig(options ...ConfigOption) *models.Config {
	config := &models.Config{
		AppName:     "NABULINES",
		BaseURL:     "http://localhost:8080",
		Port:        "8080",
		Secret:      defaultSecret,
		AdminWallet: "0x37Ed24e7c7311836FD01702A882937138688c1A9",
		Storage: models.StorageConfig{
			Type:        models.StorageTypeMemory,
			MaxRetries:  3,
			PoolSize:    10,
			PoolTimeout: 30 * time.Second,
		},
		RateLimit: models.RateLimitConfig{
			Enabled:     true,
			Window:      time.Minute,
			MaxRequests: 120,
		},
		EventBus: models.EventBusConfig{
			Provider: "gochannel",
		},
	}

	// Options override defaults only if non-zero/non-empty
	for _, option := range options {
		option(config)
	}

	if os.Getenv(env.EnvGoEnvironment) == "production" {
		if config.Secret == defaultSecret {
			panic(fmt.Errorf("a custom secret must be set in production mode, via configuration or the %s environment variable", env.EnvSecret))
		}
		if config.Storage.Type == models.StorageTypeRedis && config.Storage.RedisURL == "" {
			panic(fmt.Errorf("redis storage requires a URL, via configuration or the %s environment variable", env.EnvRedisURL))
		}
	}

	return config
}

func WithAppName(name string) ConfigOption {
	return func(c *models.Config) {
		if name != "" {
			c.AppName = name
		}
	}
}

func WithBaseURL(url string) ConfigOption {
	return func(c *models.Config) {
		if envValue := os.Getenv(env.EnvBaseURL); envValue != "" {
			c.BaseURL = envValue
		} else if url != "" {
			c.BaseURL = url
		}
	}
}

func WithPort(port string) ConfigOption {
	return func(c *models.Config) {
		if envValue := os.Getenv(env.EnvPort); envValue != "" {
			c.Port = envValue
		} else if port != "" {
			c.Port = port
		}
	}
}

func WithSecret(secret string) ConfigOption {
	return func(c *models.Config) {
		if envValue := os.Getenv(env.EnvSecret); envValue != "" {
			c.Secret = envValue
		} else if secret != "" {
			c.Secret = secret
		}
	}
}

func WithAdminWallet(wallet string) ConfigOption {
	return func(c *models.Config) {
		if envValue := os.Getenv(env.EnvAdminWallet); envValue != "" {
			c.AdminWallet = envValue
		} else if wallet != "" {
			c.AdminWallet = wallet
		}
	}
}

func WithStorage(storage models.StorageConfig) ConfigOption {
	return func(c *models.Config) {
		if envValue := os.Getenv(env.EnvRedisURL); envValue != "" {
			storage.Type = models.StorageTypeRedis
			storage.RedisURL = envValue
		}
		if storage.Type != "" {
			c.Storage.Type = storage.Type
		}
		if storage.RedisURL != "" {
			c.Storage.RedisURL = storage.RedisURL
		}
		if storage.MaxRetries != 0 {
			c.Storage.MaxRetries = storage.MaxRetries
		}
		if storage.PoolSize != 0 {
			c.Storage.PoolSize = storage.PoolSize
		}
		if storage.PoolTimeout != 0 {
			c.Storage.PoolTimeout = storage.PoolTimeout
		}
		if storage.Store != nil {
			c.Storage.Store = storage.Store
		}
	}
}

func WithTwitter(twitter models.TwitterConfig) ConfigOption {
	return func(c *models.Config) {
		if envValue := os.Getenv(env.EnvTwitterAPIKey); envValue != "" {
			twitter.APIKey = envValue
		}
		if envValue := os.Getenv(env.EnvTwitterAPISecret); envValue != "" {
			twitter.APISecret = envValue
		}
		c.Twitter = twitter
	}
}

func WithTikTok(tiktok models.TikTokConfig) ConfigOption {
	return func(c *models.Config) {
		if envValue := os.Getenv(env.EnvTikTokClientKey); envValue != "" {
			tiktok.ClientKey = envValue
		}
		if envValue := os.Getenv(env.EnvTikTokClientSecret); envValue != "" {
			tiktok.ClientSecret = envValue
		}
		c.TikTok = tiktok
	}
}

func WithRateLimit(limit models.RateLimitConfig) ConfigOption {
	return func(c *models.Config) {
		c.RateLimit.Enabled = limit.Enabled
		if limit.Window != 0 {
			c.RateLimit.Window = limit.Window
		}
		if limit.MaxRequests != 0 {
			c.RateLimit.MaxRequests = limit.MaxRequests
		}
	}
}

func WithEventBus(bus models.EventBusConfig) ConfigOption {
	return func(c *models.Config) {
		if envValue := os.Getenv(env.EnvEventBusProvider); envValue != "" {
			bus.Provider = envValue
		}
		if envValue := os.Getenv(env.EnvEventBusConsumerGroup); envValue != "" {
			bus.ConsumerGroup = envValue
		}
		if bus.Provider != "" {
			c.EventBus.Provider = bus.Provider
		}
		if bus.RedisURL != "" {
			c.EventBus.RedisURL = bus.RedisURL
		}
		if bus.ConsumerGroup != "" {
			c.EventBus.ConsumerGroup = bus.ConsumerGroup
		}
	}
}

func WithLogger(logger models.Logger) ConfigOption {
	return func(c *models.Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}
