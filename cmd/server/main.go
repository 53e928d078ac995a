package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	nabulines "github.com/alisharafiiii/nabulines-backup"
	"github.com/alisharafiiii/nabulines-backup/config"
	"github.com/alisharafiiii/nabulines-backup/env"
	"github.com/alisharafiiii/nabulines-backup/internal/bootstrap"
	"github.com/alisharafiiii/nabulines-backup/models"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		if os.Getenv(env.EnvGoEnvironment) != "production" {
			slog.Warn("no .env file found", "error", err)
		}
	}

	logger := bootstrap.InitLogger(bootstrap.LoggerOptions{
		Level: getEnv("LOG_LEVEL", "info"),
	})

	fileConfig := loadConfigFromFile()

	cfg := config.NewConfig(
		config.WithAppName(fileConfig.AppName),
		config.WithBaseURL(fileConfig.BaseURL),
		config.WithPort(fileConfig.Port),
		config.WithSecret(fileConfig.Secret),
		config.WithAdminWallet(fileConfig.AdminWallet),
		config.WithStorage(fileConfig.Storage),
		config.WithTwitter(fileConfig.Twitter),
		config.WithTikTok(fileConfig.TikTok),
		config.WithRateLimit(fileConfig.RateLimit),
		config.WithEventBus(fileConfig.EventBus),
		config.WithLogger(logger),
	)

	app, err := nabulines.New(cfg)
	if err != nil {
		slog.Error("failed to assemble service", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.ListenAndServe(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// loadConfigFromFile reads the TOML config when it exists; environment
// variables still win inside the config options.
func loadConfigFromFile() models.Config {
	configPath := getEnv(env.EnvConfigPath, "config.toml")
	var cfg models.Config

	if _, err := os.Stat(configPath); err != nil {
		return cfg
	}

	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		slog.Warn("failed to parse TOML config file, using environment variables and defaults",
			"path", configPath, "error", err)
	}

	return cfg
}
