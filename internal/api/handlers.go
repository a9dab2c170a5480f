// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package api

import (
	"time"

	"github.com/nelsonportela/BackLogus/internal/auth"
	"github.com/nelsonportela/BackLogus/internal/config"
	"github.com/nelsonportela/BackLogus/internal/database"
	ws "github.com/nelsonportela/BackLogus/internal/websocket"
)

// Handler carries the shared dependencies for all HTTP endpoints.
// One instance serves the whole API; per-request state lives on the
// request context, never on the Handler.
type Handler struct {
	db          *database.DB
	config      *config.Config
	authService *auth.Service
	wsHub       *ws.Hub

	// Backup engine, wired after construction via SetBackupEngine.
	// All three are nil until then and the backup endpoints answer
	// 503 BACKUP_DISABLED.
	builder  ArchiveBuilder
	restorer ArchiveRestorer
	images   ImageStatsProvider

	startTime time.Time
}

// NewHandler creates the API handler. The backup engine is attached
// separately because it depends on the image cache, which may fail to
// open without taking the rest of the API down.
func NewHandler(db *database.DB, cfg *config.Config, authService *auth.Service, wsHub *ws.Hub) *Handler {
	return &Handler{
		db:          db,
		config:      cfg,
		authService: authService,
		wsHub:       wsHub,
		startTime:   time.Now(),
	}
}

// SetBackupEngine attaches the backup engine. Call during startup
// wiring, before the router starts serving; the fields are read
// without synchronization afterwards.
func (h *Handler) SetBackupEngine(builder ArchiveBuilder, restorer ArchiveRestorer, images ImageStatsProvider) {
	h.builder = builder
	h.restorer = restorer
	h.images = images
}

// backupEnabled reports whether the backup engine has been wired.
func (h *Handler) backupEnabled() bool {
	return h.builder != nil && h.restorer != nil
}
