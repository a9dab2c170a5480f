// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{
	"./config.yaml",
	"./config.yml",
	"/etc/backlogus/config.yaml",
	"/etc/backlogus/config.yml",
}

// envMappings maps environment variable names (lowercased) to koanf
// config paths. Only variables listed here are read; anything else in
// the process environment is ignored so unrelated variables cannot
// leak into the configuration.
var envMappings = map[string]string{
	"http_host":               "server.host",
	"http_port":               "server.port",
	"environment":             "server.environment",
	"base_url":                "server.base_url",
	"http_read_timeout":       "server.read_timeout",
	"http_write_timeout":      "server.write_timeout",
	"shutdown_timeout":        "server.shutdown_timeout",
	"duckdb_path":             "database.path",
	"duckdb_memory_limit":     "database.memory_limit",
	"duckdb_threads":          "database.threads",
	"auth_mode":               "security.auth_mode",
	"jwt_secret":              "security.jwt_secret",
	"jwt_expiry":              "security.jwt_expiry",
	"bcrypt_cost":             "security.bcrypt_cost",
	"rate_limit_enabled":      "security.rate_limit_enabled",
	"cors_origins":            "security.cors_origins",
	"image_cache_dir":         "image_cache.dir",
	"image_fetch_timeout":     "image_cache.fetch_timeout",
	"image_max_bytes":         "image_cache.max_bytes",
	"image_gc_interval":       "image_cache.gc_interval",
	"nats_host":               "events.host",
	"nats_port":               "events.port",
	"backup_batch_size":       "backup.batch_size",
	"backup_max_upload_bytes": "backup.max_upload_bytes",
	"log_level":               "logging.level",
	"log_format":              "logging.format",
	"log_caller":              "logging.caller",
}

// sliceConfigPaths lists config paths whose env values are
// comma-separated lists.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// defaultConfig returns the built-in defaults applied before any file
// or environment overrides.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Environment:     "development",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:        "./data/backlogus.db",
			MemoryLimit: "2GB",
			Threads:     4,
		},
		Security: SecurityConfig{
			AuthMode:         "jwt",
			JWTExpiry:        168 * time.Hour,
			BcryptCost:       12,
			RateLimitEnabled: true,
			CORSOrigins:      []string{"http://localhost:5173"},
		},
		ImageCache: ImageCacheConfig{
			Dir:          "./data/images",
			FetchTimeout: 30 * time.Second,
			MaxBytes:     20 * 1024 * 1024,
			GCInterval:   10 * time.Minute,
		},
		Events: EventsConfig{
			Host: "127.0.0.1",
			Port: 4222,
		},
		Backup: BackupConfig{
			BatchSize:      5,
			MaxUploadBytes: 1 << 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file
// and environment variables, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process list values: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the path of the first readable config file,
// or "" when none exists. CONFIG_PATH takes precedence over the
// default search locations.
func findConfigFile() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps an environment variable name to its koanf config
// path. Returning "" drops the variable.
func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}

// processSliceFields splits comma-separated env values into string
// slices for the paths listed in sliceConfigPaths.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw := k.String(path)
		if raw == "" || strings.Contains(raw, "\n") {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				values = append(values, trimmed)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func joinHostPort(host string, port int) string {
	return host + ":" + strconv.Itoa(port)
}
