// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port         string
	FrontendURL  string
	DBPath       string
	AnalyzerAddr string

	// SessionTTL is how long a retry session may sit idle before the
	// sweep worker drops it.
	SessionTTL time.Duration
	// SweepInterval is how often the sweep worker runs.
	SweepInterval time.Duration
	// AnalyzeTimeout bounds a single analyzer call. Past it the fail-open
	// degraded-save path is taken.
	AnalyzeTimeout time.Duration

	RateLimit RateLimitConfig
}

// RateLimitConfig throttles session starts per user.
type RateLimitConfig struct {
	StartsPerWindow int
	Window          time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    getEnv("FRONTEND_URL", ""),
		DBPath:         getEnv("DB_PATH", "./data/coach.db"),
		AnalyzerAddr:   getEnv("ANALYZER_ADDR", ""),
		SessionTTL:     getEnvDuration("SESSION_TTL", 30*time.Minute),
		SweepInterval:  getEnvDuration("SWEEP_INTERVAL", time.Minute),
		AnalyzeTimeout: getEnvDuration("ANALYZE_TIMEOUT", 15*time.Second),
		RateLimit: RateLimitConfig{
			StartsPerWindow: getEnvInt("RATE_LIMIT_STARTS", 10),
			Window:          getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if c.AnalyzeTimeout <= 0 {
		return fmt.Errorf("ANALYZE_TIMEOUT must be > 0")
	}
	if c.RateLimit.StartsPerWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_STARTS must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
