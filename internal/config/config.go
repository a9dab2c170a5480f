// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

// Package config provides application configuration management for
// BackLogus with support for multiple configuration sources.
//
// Configuration is loaded in the following priority order (highest to
// lowest):
//  1. Environment variables (e.g. HTTP_PORT, JWT_SECRET)
//  2. Configuration file (YAML format)
//  3. Default values
//
// The configuration file location can be set via the CONFIG_PATH
// environment variable, otherwise standard locations are searched
// (./config.yaml, /etc/backlogus/config.yaml).
//
// Configuration Categories:
//   - Server: HTTP server binding, timeouts, environment
//   - Database: DuckDB file location and resource limits
//   - Security: authentication mode, JWT signing, rate limits, CORS
//   - ImageCache: cover art blob store location and fetch limits
//   - Events: embedded NATS server for progress event fan-out
//   - Backup: archive build and import limits
//   - Logging: level and output format
//
// Example YAML configuration:
//
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	database:
//	  path: /var/lib/backlogus/backlogus.db
//	security:
//	  auth_mode: jwt
//	  jwt_secret: your-secret-key-at-least-32-chars
//
// Thread Safety: Config values are read-only after Load returns.
// Callers must not mutate the returned Config while the server runs.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Security   SecurityConfig   `koanf:"security"`
	ImageCache ImageCacheConfig `koanf:"image_cache"`
	Events     EventsConfig     `koanf:"events"`
	Backup     BackupConfig     `koanf:"backup"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST: bind address (default: 0.0.0.0)
//   - HTTP_PORT: bind port (default: 8080)
//   - ENVIRONMENT: deployment environment (development, production)
//   - BASE_URL: externally visible base URL, used in log output only
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Environment     string        `koanf:"environment"`
	BaseURL         string        `koanf:"base_url"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds DuckDB settings.
//
// Environment Variables:
//   - DUCKDB_PATH: database file path (default: ./data/backlogus.db)
//   - DUCKDB_MEMORY_LIMIT: max memory, e.g. "2GB"
//   - DUCKDB_THREADS: worker thread count
type DatabaseConfig struct {
	Path        string `koanf:"path"`
	MemoryLimit string `koanf:"memory_limit"`
	Threads     int    `koanf:"threads"`
}

// SecurityConfig holds authentication and request protection settings.
//
// Environment Variables:
//   - AUTH_MODE: "jwt" or "none" (default: jwt)
//   - JWT_SECRET: HMAC signing key, minimum 32 characters
//   - JWT_EXPIRY: token lifetime (default: 168h)
//   - BCRYPT_COST: password hashing cost (default: 12)
//   - RATE_LIMIT_ENABLED: enable per-IP rate limiting (default: true)
//   - CORS_ORIGINS: comma-separated allowed origins
type SecurityConfig struct {
	AuthMode         string        `koanf:"auth_mode"`
	JWTSecret        string        `koanf:"jwt_secret"`
	JWTExpiry        time.Duration `koanf:"jwt_expiry"`
	BcryptCost       int           `koanf:"bcrypt_cost"`
	RateLimitEnabled bool          `koanf:"rate_limit_enabled"`
	CORSOrigins      []string      `koanf:"cors_origins"`
}

// ImageCacheConfig holds cover art cache settings.
//
// The cache stores downloaded cover art, screenshots and avatars so
// backup archives can embed them without refetching from upstream
// providers.
//
// Environment Variables:
//   - IMAGE_CACHE_DIR: badger store directory (default: ./data/images)
//   - IMAGE_FETCH_TIMEOUT: per-download timeout (default: 30s)
//   - IMAGE_MAX_BYTES: per-image size cap (default: 20971520)
type ImageCacheConfig struct {
	Dir          string        `koanf:"dir"`
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
	MaxBytes     int64         `koanf:"max_bytes"`
	GCInterval   time.Duration `koanf:"gc_interval"`
}

// EventsConfig holds embedded NATS server settings for the progress
// event bus.
//
// Environment Variables:
//   - NATS_HOST: bind address (default: 127.0.0.1)
//   - NATS_PORT: bind port (default: 4222)
type EventsConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// BackupConfig holds archive build and import settings.
//
// Environment Variables:
//   - BACKUP_BATCH_SIZE: concurrent image downloads per batch (default: 5)
//   - BACKUP_MAX_UPLOAD_BYTES: import archive size cap (default: 1GB)
type BackupConfig struct {
	BatchSize      int   `koanf:"batch_size"`
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// LoggingConfig holds log output settings.
//
// Environment Variables:
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Addr returns the HTTP listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return joinHostPort(c.Host, c.Port)
}

// NATSAddr returns the embedded NATS listen address in host:port form.
func (c *EventsConfig) NATSAddr() string {
	return joinHostPort(c.Host, c.Port)
}
