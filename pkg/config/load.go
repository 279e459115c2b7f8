package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the application configuration from the environment, loading a
// .env file first when one exists.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()

	if len(envFilePath) == 0 {
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found, using system environment variables")
		}
	} else {
		if err := godotenv.Load(envFilePath...); err != nil {
			logger.Warn("Failed to load environment files", "paths", envFilePath, "error", err)
		}
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger.Info("App config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"jwt_secret", maskValue(cfg.Jwt.Secret),
		"fetch_rate_limit_window", cfg.Fetch.RateLimitWindow,
		"fetch_timeout", cfg.Fetch.Timeout,
		"fetch_max_retries", cfg.Fetch.MaxRetries,
		"restore_window", cfg.Reconcile.RestoreWindow,
	)
	return &cfg, nil
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
