package env

const (
	// TWITTER

	EnvTwitterAPIKey    = "TWITTER_API_KEY"
	EnvTwitterAPISecret = "TWITTER_API_SECRET"

	// TIKTOK

	EnvTikTokClientKey    = "TIKTOK_CLIENT_ID"
	EnvTikTokClientSecret = "TIKTOK_CLIENT_SECRET"

	// REDIS

	EnvRedisURL = "REDIS_URL"

	// EVENT BUS

	EnvEventBusProvider      = "EVENT_BUS_PROVIDER"
	EnvEventBusConsumerGroup = "EVENT_BUS_CONSUMER_GROUP"

	// NABULINES

	EnvConfigPath  = "NABULINES_CONFIG_PATH"
	EnvBaseURL     = "NABULINES_BASE_URL"
	EnvSecret      = "NABULINES_SECRET"
	EnvAdminWallet = "NABULINES_ADMIN_WALLET"

	// ENVIRONMENT

	EnvGoEnvironment = "GO_ENV"
	EnvPort          = "PORT"
)
