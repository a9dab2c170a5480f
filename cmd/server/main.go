// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

// Package main is the entry point for the BackLogus server application.
//
// BackLogus is a self-hosted backlog tracker for games and movies. Each
// account keeps its library in DuckDB, cover art is cached in a BadgerDB
// blob store, and the whole account can be exported to a portable zip
// archive and restored on another instance.
//
// # Application Architecture
//
// The server implements a layered architecture with Suture v4 process
// supervision:
//
//	RootSupervisor ("backlogus")
//	├── DataSupervisor ("data-layer")
//	│   └── Image cache GC (BadgerDB value log reclamation)
//	├── MessagingSupervisor ("messaging-layer")
//	│   ├── Event bus monitor (embedded NATS health)
//	│   ├── Progress relay (NATS -> WebSocket)
//	│   └── WebSocket hub (real-time progress updates)
//	└── APISupervisor ("api-layer")
//	    └── HTTP server (Chi router, REST API)
//
// Component initialization order:
//
//  1. Configuration: Koanf v2 with environment variables and config files
//  2. Logging: zerolog with JSON/console output modes
//  3. Database: DuckDB with the library and account schema
//  4. Image cache: BadgerDB blob store for cover art
//  5. Event bus: embedded NATS server with Watermill publisher and relay
//  6. Authentication: JWT or no-auth mode
//  7. Backup engine: archive builder and restorer
//  8. Supervisor tree: Suture v4 process supervision
//  9. HTTP server: Chi router with middleware stack
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (see .env.example)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// For JWT authentication (default):
//   - JWT_SECRET: 32+ character secret for token signing
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Stops the progress relay and embedded NATS server
//   - Closes the image cache and database
//
// # Example Usage
//
// Local development without authentication:
//
//	export AUTH_MODE=none
//	./backlogus
//
// Production with JWT:
//
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export ENVIRONMENT=production
//	./backlogus
//
// Docker:
//
//	docker run -d \
//	  -e JWT_SECRET=your-secret \
//	  -v backlogus-data:/data \
//	  -p 8080:8080 \
//	  ghcr.io/nelsonportela/backlogus
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "github.com/nelsonportela/BackLogus/docs" // Import generated swagger docs
	"github.com/nelsonportela/BackLogus/internal/api"
	"github.com/nelsonportela/BackLogus/internal/auth"
	"github.com/nelsonportela/BackLogus/internal/backup"
	"github.com/nelsonportela/BackLogus/internal/config"
	"github.com/nelsonportela/BackLogus/internal/database"
	"github.com/nelsonportela/BackLogus/internal/events"
	"github.com/nelsonportela/BackLogus/internal/imagecache"
	"github.com/nelsonportela/BackLogus/internal/logging"
	"github.com/nelsonportela/BackLogus/internal/metrics"
	"github.com/nelsonportela/BackLogus/internal/supervisor"
	"github.com/nelsonportela/BackLogus/internal/supervisor/services"
	ws "github.com/nelsonportela/BackLogus/internal/websocket"
)

// version is reported by the /metrics app_info gauge. Overridden at
// build time via -ldflags "-X main.version=...".
var version = "1.0.0"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting BackLogus with supervisor tree")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("image_cache_dir", cfg.ImageCache.Dir).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Configuration loaded")

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Open the cover art cache. Export embeds cached images in the
	// archive; import restores them from it.
	imageStore, err := imagecache.Open(&cfg.ImageCache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open image cache")
	}
	defer func() {
		if err := imageStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing image cache")
		}
	}()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	// Create supervisor tree
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Create WebSocket hub for real-time updates (before the relay, so
	// progress events have somewhere to go)
	wsHub := ws.NewHub()

	// Start the embedded NATS server. It carries progress events from
	// the backup engine to the relay; nothing else runs over it.
	bus, err := events.NewEmbeddedServer(&cfg.Events)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to start embedded NATS server")
	}

	// Watermill publisher and relay share the bus. A nil logger falls
	// back to Watermill's standard logger inside the constructors.
	publisher, err := events.NewProgressPublisher(bus.ClientURL(), nil)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create progress publisher")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing progress publisher")
		}
	}()

	relay, err := events.NewRelay(bus.ClientURL(), wsHub, nil)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create progress relay")
	}

	if cfg.Security.AuthMode == "none" {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  All endpoints are publicly accessible without authentication!")
		logging.Warn().Msg("  This mode should ONLY be used for local development.")
		logging.Warn().Msg("  NEVER use AUTH_MODE=none in production or on public networks!")
		logging.Warn().Msg("============================================================")
	}

	// AUTH_MODE=none permits an empty JWT secret, but register and
	// login still sign tokens. A random per-process secret keeps them
	// working; issued tokens die with the process.
	secCfg := cfg.Security
	if secCfg.JWTSecret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			logging.Fatal().Err(err).Msg("Failed to generate ephemeral JWT secret")
		}
		secCfg.JWTSecret = hex.EncodeToString(buf)
	}
	jwtManager, err := auth.NewJWTManager(&secCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	if cfg.Security.AuthMode == "jwt" {
		logging.Info().Msg("JWT authentication enabled")
	}

	authService := auth.NewService(db, jwtManager, cfg.Security.BcryptCost)
	authMiddleware := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode)

	if !cfg.Security.RateLimitEnabled {
		logging.Warn().Msg("Rate limiting is DISABLED (RATE_LIMIT_ENABLED=false)")
		logging.Warn().Msg("This should only be used for local development!")
	}

	// Backup engine: the builder walks the library and streams the
	// archive, the restorer replaces the account inside one transaction.
	// Both report progress through the publisher.
	builder := backup.NewBuilder(db, imageStore, publisher)
	builder.SetBatchSize(cfg.Backup.BatchSize)
	restorer := backup.NewRestorer(db, imageStore, publisher)

	handler := api.NewHandler(db, cfg, authService, wsHub)
	handler.SetBackupEngine(builder, restorer, imageStore)
	logging.Info().Int("batch_size", cfg.Backup.BatchSize).Msg("Backup engine initialized")

	router := api.NewRouter(handler, authMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer services
	tree.AddDataService(imagecache.NewGCService(imageStore, cfg.ImageCache.GCInterval))

	// Messaging layer services
	tree.AddMessagingService(services.NewBusService(bus))
	tree.AddMessagingService(relay)
	tree.AddMessagingService(wsHub)
	logging.Info().Msg("Event bus, progress relay and WebSocket hub added to supervisor tree")

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	metrics.SetAppInfo(version, runtime.Version())

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
