// Copyright (c) 2026 LinkUp. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, auth) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Authentication Modes

const (
	// AuthModePermissive falls back to a synthesized identity when an
	// assertion cannot be verified. This is the default: the product
	// prioritizes availability over strict authentication.
	AuthModePermissive = "permissive"

	// AuthModeStrict rejects requests whose assertion fails verification.
	AuthModeStrict = "strict"
)

// # Configuration Schema

// Config holds all runtime configuration for the LinkUp API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Telegram platform integration.
	//
	// BotToken doubles as the shared secret for verifying identity
	// assertions. It is deliberately NOT required: without it the server
	// runs in degraded (permissive) auth mode with a disabled notifier,
	// rather than refusing to start.
	BotToken  string `env:"TELEGRAM_BOT_TOKEN"`
	WebAppURL string `env:"WEB_APP_URL"`

	// AuthMode selects strict vs permissive verification behavior.
	AuthMode string `env:"AUTH_MODE" envDefault:"permissive"`

	// SessionSecret signs issued access tokens. Optional: an ephemeral
	// secret is generated when absent.
	SessionSecret string `env:"SESSION_SECRET"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.AuthMode != AuthModePermissive && cfg.AuthMode != AuthModeStrict {
		return nil, fmt.Errorf("config: invalid AUTH_MODE %q (must be %q or %q)",
			cfg.AuthMode, AuthModePermissive, AuthModeStrict)
	}

	// Strict verification is impossible without the shared secret. Degrade
	// to permissive rather than crash (the verifier has nothing to check
	// against either way).
	if cfg.BotToken == "" {
		cfg.AuthMode = AuthModePermissive
	}

	return cfg, nil
}

// IsStrictAuth reports whether verification failures must reject the request.
func (c *Config) IsStrictAuth() bool {
	return c.AuthMode == AuthModeStrict
}

// AllowedOrigins returns the explicit CORS origin allowlist assembled from
// the web app URL and any extra comma-separated origins.
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0, 4)
	if c.WebAppURL != "" {
		origins = append(origins, c.WebAppURL)
	}
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
