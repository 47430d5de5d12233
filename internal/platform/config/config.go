// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local .env file,
when present, is loaded first through 'joho/godotenv' and never overrides
variables already set in the process environment.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the Qumran API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis): rendered views and refresh sessions
	RedisURL     string        `env:"REDIS_URL,required"`
	ViewCacheTTL time.Duration `env:"VIEW_CACHE_TTL" envDefault:"10m"`

	// Cryptographic keys for dashboard access tokens
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Object Storage (S3-compatible) holding covers and book files
	S3Endpoint   string        `env:"S3_ENDPOINT"`
	S3AccessKey  string        `env:"S3_ACCESS_KEY"`
	S3SecretKey  string        `env:"S3_SECRET_KEY"`
	S3Bucket     string        `env:"S3_BUCKET"`
	S3Region     string        `env:"S3_REGION" envDefault:"us-east-1"`
	S3UseSSL     bool          `env:"S3_USE_SSL" envDefault:"true"`
	AssetLinkTTL time.Duration `env:"ASSET_LINK_TTL" envDefault:"1h"`

	// Catalog behaviour
	DefaultLocationSlug string `env:"DEFAULT_LOCATION_SLUG" envDefault:"default"`

	// Cross-Origin Resource Sharing (comma-separated)
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load() (*Config, error) {
	cfg := &Config{}
	if err := parse(cfg); err != nil {
		return nil, err
	}

	if cfg.DBMinConns > cfg.DBMaxConns {
		return nil, fmt.Errorf("config: DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", cfg.DBMinConns, cfg.DBMaxConns)
	}

	return cfg, nil
}

// AdminConfig holds the settings of the cmd/admin account tool.
type AdminConfig struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Password is read from the environment so it stays out of shell history.
	Password string `env:"QUMRAN_ADMIN_PASSWORD"`
}

// LoadAdmin reads [AdminConfig] the same way [Load] reads [Config].
func LoadAdmin() (*AdminConfig, error) {
	cfg := &AdminConfig{}
	if err := parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parse loads .env, then fills target from the process environment.
func parse(target any) error {

	// .env is a development convenience; its absence is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: failed to read .env file: %w", err)
	}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return nil
}

// Port returns the HTTP listen port.
func (c *Config) Port() string {
	return c.ServerPort
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Diagnostics reports whether raw error causes may be shown to clients.
func (c *Config) Diagnostics() bool {
	return c.IsDevelopment() && c.Debug
}

// Origins returns the configured CORS origins.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// StorageEnabled reports whether object storage is configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3Bucket != ""
}
