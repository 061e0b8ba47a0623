// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the server configuration from AH_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/airdrops-hunter/internal/catalog"
	"github.com/olegiv/airdrops-hunter/internal/scheduler"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMySQL  = "mysql"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// DefaultAdminPassword is the development bootstrap admin password. Validate
// rejects it outside development.
const DefaultAdminPassword = "admin123"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Store         string `env:"AH_STORE" envDefault:"sqlite"`
	DBPath        string `env:"AH_DB_PATH" envDefault:"./data/airdrops.db"`
	MySQLDSN      string `env:"AH_MYSQL_DSN"`
	SessionSecret string `env:"AH_SESSION_SECRET,required"`
	ServerHost    string `env:"AH_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"AH_SERVER_PORT" envDefault:"5000"`
	Env           string `env:"AH_ENV" envDefault:"development"`
	LogLevel      string `env:"AH_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"AH_REDIS_URL"`                        // Optional Redis URL for a shared cache
	CachePrefix  string `env:"AH_CACHE_PREFIX" envDefault:"ah:"`    // Key prefix
	CacheTTL     int    `env:"AH_CACHE_TTL" envDefault:"300"`       // Collection TTL in seconds
	CacheMaxSize int    `env:"AH_CACHE_MAX_SIZE" envDefault:"1000"` // Max memory cache entries

	// Seeding configuration
	DoSeed        bool   `env:"AH_DO_SEED" envDefault:"true"`
	AdminUsername string `env:"AH_ADMIN_USERNAME" envDefault:"admin"`
	AdminEmail    string `env:"AH_ADMIN_EMAIL" envDefault:"admin@airdrops-hunter.com"`
	AdminPassword string `env:"AH_ADMIN_PASSWORD" envDefault:"admin123"`

	ValueRanking  string `env:"AH_VALUE_RANKING" envDefault:"legacy"`
	SweepSchedule string `env:"AH_SWEEP_SCHEDULE" envDefault:"*/15 * * * *"`

	WebhookURL    string `env:"AH_WEBHOOK_URL"`
	WebhookSecret string `env:"AH_WEBHOOK_SECRET"`

	// Path to GeoLite2-Country.mmdb file
	GeoIPDBPath string `env:"AH_GEOIP_DB"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheDuration returns the collection cache TTL.
func (c Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// WebhooksEnabled returns true if an outbound webhook endpoint is configured.
func (c Config) WebhooksEnabled() bool {
	return c.WebhookURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("AH_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// Validate checks enumerations and cross-field requirements.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("AH_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return fmt.Errorf("AH_SESSION_SECRET is a known default value and must not be used")
		}
	}

	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StoreMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("AH_MYSQL_DSN is required when AH_STORE=mysql")
		}
	default:
		return fmt.Errorf("AH_STORE must be one of memory, sqlite, mysql; got %q", c.Store)
	}

	switch c.Env {
	case "development", "production":
	default:
		return fmt.Errorf("AH_ENV must be development or production; got %q", c.Env)
	}
	if !c.IsDevelopment() && (c.AdminPassword == "" || c.AdminPassword == DefaultAdminPassword) {
		return fmt.Errorf("AH_ADMIN_PASSWORD must be set to a non-default value when AH_ENV=production")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("AH_LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("AH_SERVER_PORT out of range: %d", c.ServerPort)
	}
	if c.CacheTTL < 0 || c.CacheMaxSize < 0 {
		return fmt.Errorf("AH_CACHE_TTL and AH_CACHE_MAX_SIZE must not be negative")
	}

	if _, err := catalog.ParserFor(c.ValueRanking); err != nil {
		return fmt.Errorf("AH_VALUE_RANKING: %w", err)
	}
	// An empty variable falls back to the default, so "off" disables the sweep.
	if strings.EqualFold(c.SweepSchedule, "off") {
		c.SweepSchedule = ""
	}
	if err := scheduler.ValidateSchedule(c.SweepSchedule); err != nil {
		return fmt.Errorf("AH_SWEEP_SCHEDULE: %w", err)
	}

	if c.WebhookSecret != "" && c.WebhookURL == "" {
		return fmt.Errorf("AH_WEBHOOK_SECRET is set but AH_WEBHOOK_URL is empty")
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
