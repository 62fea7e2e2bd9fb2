package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all startup configuration. It is parsed once in main and
// passed by reference into the modules that need it.
type Config struct {
	Port      int           `env:"PORT" envDefault:"3000"`
	DBPath    string        `env:"TASK_TRACKER_DB_PATH" envDefault:"task_tracker.db"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"task-tracker"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
}

// Load reads .env (if present) and parses configuration from the
// environment. A missing JWT secret is a fatal misconfiguration: tokens
// signed with an empty secret would be trivially forgeable, so the process
// must not start.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}

	return cfg, nil
}
