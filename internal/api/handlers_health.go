// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package api

import (
	"net/http"
	"time"

	"github.com/nelsonportela/BackLogus/internal/models"
)

// appVersion is reported by the health endpoint.
const appVersion = "1.0.0"

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns health status with per-dependency checks: database connectivity, backup engine, and WebSocket hub
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	checks := map[string]string{}

	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil
	if dbConnected {
		checks["database"] = "ok"
	} else {
		checks["database"] = "failing"
	}

	if h.backupEnabled() {
		checks["backup"] = "ok"
	} else {
		checks["backup"] = "disabled"
	}

	if h.wsHub != nil {
		checks["websocket"] = "ok"
	} else {
		checks["websocket"] = "disabled"
	}

	// The database is the only hard dependency. Backup and WebSocket
	// degrade individual features, not the service.
	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	respondJSON(w, r, http.StatusOK, models.HealthStatus{
		Status:    status,
		Version:   appVersion,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK only when the service can reach its database, 503 otherwise
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	if h.db == nil || h.db.Ping(r.Context()) != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Database is not reachable", nil)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{"ready": true})
}
