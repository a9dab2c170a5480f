// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package config

import (
	"fmt"
	"strings"
)

// validAuthModes lists the accepted AUTH_MODE values.
var validAuthModes = map[string]bool{
	"jwt":  true,
	"none": true,
}

// validLogLevels lists the accepted LOG_LEVEL values.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

const (
	minJWTSecretLength = 32
	minBcryptCost      = 10
	maxBcryptCost      = 31
	minBatchSize       = 1
	maxBatchSize       = 50
)

// Validate checks the configuration for consistency and returns the
// first problem found. Error messages name the environment variable
// that fixes the problem.
func (c *Config) Validate() error {
	sections := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateSecurity,
		c.validateImageCache,
		c.validateEvents,
		c.validateBackup,
		c.validateLogging,
	}
	for _, validate := range sections {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, production or test, got %q", c.Server.Environment)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty")
	}
	if c.Database.Threads < 1 {
		return fmt.Errorf("DUCKDB_THREADS must be at least 1, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !validAuthModes[c.Security.AuthMode] {
		return fmt.Errorf("AUTH_MODE must be jwt or none, got %q", c.Security.AuthMode)
	}
	if c.Security.AuthMode == "none" && c.IsProduction() {
		return fmt.Errorf("AUTH_MODE=none is not allowed in production")
	}
	if c.Security.AuthMode == "jwt" {
		if c.Security.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE=jwt")
		}
		if len(c.Security.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters for security, got %d", minJWTSecretLength, len(c.Security.JWTSecret))
		}
		if containsPlaceholder(c.Security.JWTSecret) {
			return fmt.Errorf("JWT_SECRET appears to be a placeholder value, set a real secret")
		}
		if c.Security.JWTExpiry <= 0 {
			return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.Security.JWTExpiry)
		}
	}
	if c.Security.BcryptCost < minBcryptCost || c.Security.BcryptCost > maxBcryptCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", minBcryptCost, maxBcryptCost, c.Security.BcryptCost)
	}
	if c.IsProduction() && c.Security.AuthMode == "jwt" {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain a wildcard in production with authentication enabled")
			}
		}
	}
	return nil
}

func (c *Config) validateImageCache() error {
	if c.ImageCache.Dir == "" {
		return fmt.Errorf("IMAGE_CACHE_DIR must not be empty")
	}
	if c.ImageCache.FetchTimeout <= 0 {
		return fmt.Errorf("IMAGE_FETCH_TIMEOUT must be positive, got %s", c.ImageCache.FetchTimeout)
	}
	if c.ImageCache.MaxBytes < 1 {
		return fmt.Errorf("IMAGE_MAX_BYTES must be at least 1, got %d", c.ImageCache.MaxBytes)
	}
	return nil
}

func (c *Config) validateEvents() error {
	if c.Events.Port < 1 || c.Events.Port > 65535 {
		return fmt.Errorf("NATS_PORT must be between 1 and 65535, got %d", c.Events.Port)
	}
	return nil
}

func (c *Config) validateBackup() error {
	if c.Backup.BatchSize < minBatchSize || c.Backup.BatchSize > maxBatchSize {
		return fmt.Errorf("BACKUP_BATCH_SIZE must be between %d and %d, got %d", minBatchSize, maxBatchSize, c.Backup.BatchSize)
	}
	if c.Backup.MaxUploadBytes < 1 {
		return fmt.Errorf("BACKUP_MAX_UPLOAD_BYTES must be at least 1, got %d", c.Backup.MaxUploadBytes)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// containsPlaceholder reports whether a secret looks like an unchanged
// template value.
func containsPlaceholder(secret string) bool {
	lower := strings.ToLower(secret)
	for _, marker := range []string{"changeme", "change-me", "your-secret", "placeholder", "example"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
