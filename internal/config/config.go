// Package config loads runtime configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for optional settings.
const (
	DefaultAddr         = ":8080"
	DefaultDBPath       = "donorhub.db"
	DefaultStaticDir    = "static"
	DefaultPollInterval = 10 * time.Second
)

// Config holds everything the server needs to start.
type Config struct {
	Addr         string        // listen address
	APIBaseURL   string        // coordination API base URL, required
	DBPath       string        // local SQLite database file
	StaticDir    string        // directory served under /static/
	Env          string        // "production" or anything else for dev
	PollInterval time.Duration // live feed poll cadence
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over file values.
// PRE: none
// POST: Returns a Config with defaults applied, or an error when a
// required value is missing or malformed
func Load() (Config, error) {
	// Ignore a missing .env; it is a development convenience only.
	_ = godotenv.Load()

	cfg := Config{
		Addr:         envOrDefault("DONORHUB_ADDR", DefaultAddr),
		APIBaseURL:   os.Getenv("DONORHUB_API_URL"),
		DBPath:       envOrDefault("DONORHUB_DB_PATH", DefaultDBPath),
		StaticDir:    envOrDefault("DONORHUB_STATIC_DIR", DefaultStaticDir),
		Env:          os.Getenv("DONORHUB_ENV"),
		PollInterval: DefaultPollInterval,
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("DONORHUB_API_URL is required")
	}

	if v := os.Getenv("DONORHUB_POLL_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 1 {
			return Config{}, fmt.Errorf("DONORHUB_POLL_SECONDS must be a positive integer, got %q", v)
		}
		cfg.PollInterval = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with production hardening.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
