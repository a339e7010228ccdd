package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envDevelopment = "development"

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`
	Port   string `envconfig:"PORT" default:"8080"`
	DBPath string `envconfig:"DB_PATH" default:"./costes.db"`

	// RedisAddr enables the report cache when set.
	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	// SeedIngredients fills an empty ingredient list with the base entries.
	SeedIngredients bool `envconfig:"SEED_INGREDIENTS" default:"true"`
}

// Load reads .env (best effort) and the environment into a Config.
func Load() (Config, error) {
	// Production should use real env injection; the file is for local runs.
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env config: %w", err)
	}
	if cfg.RateLimitPerMinute < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be >= 0, got %d", cfg.RateLimitPerMinute)
	}
	return cfg, nil
}

// IsDev reports whether the process runs in the development environment.
func (c Config) IsDev() bool {
	return c.AppEnv == envDevelopment
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// CacheEnabled reports whether a Redis address was configured.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
