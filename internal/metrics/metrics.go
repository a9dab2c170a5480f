// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Authentication Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"}, // "success", "invalid_credentials", "unknown_user"
	)

	// Image Cache Metrics
	ImageCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_cache_hits_total",
			Help: "Total number of image cache hits",
		},
	)

	ImageCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_cache_misses_total",
			Help: "Total number of image cache misses",
		},
	)

	ImageCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_cache_entries",
			Help: "Current number of cached images",
		},
	)

	ImageCacheBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_cache_bytes",
			Help: "Total size of cached images in bytes",
		},
	)

	ImageDownloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_download_duration_seconds",
			Help:    "Duration of image downloads in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ImageDownloadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_download_failures_total",
			Help: "Total number of failed image downloads",
		},
	)

	// Backup Engine Metrics
	BackupOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_operations_total",
			Help: "Total number of backup operations",
		},
		[]string{"operation", "status"}, // operation: "export", "import"; status: "success", "failure"
	)

	BackupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backup_duration_seconds",
			Help:    "Duration of backup operations in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}, // Exports with many images can take minutes
		},
		[]string{"operation"},
	)

	BackupImageFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_image_failures_total",
			Help: "Total number of image downloads that failed during exports",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of WebSocket messages dropped due to slow or full clients",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordAuthAttempt records a login attempt and its outcome
func RecordAuthAttempt(result string) {
	AuthAttempts.WithLabelValues(result).Inc()
}

// RecordImageCacheHit records an image served from the cache
func RecordImageCacheHit() {
	ImageCacheHits.Inc()
}

// RecordImageCacheMiss records an image that had to be downloaded
func RecordImageCacheMiss() {
	ImageCacheMisses.Inc()
}

// SetImageCacheStats updates the cache size gauges
func SetImageCacheStats(entries int, bytes int64) {
	ImageCacheSize.Set(float64(entries))
	ImageCacheBytes.Set(float64(bytes))
}

// RecordImageDownload records an image download and its outcome
func RecordImageDownload(duration time.Duration, err error) {
	ImageDownloadDuration.Observe(duration.Seconds())
	if err != nil {
		ImageDownloadFailures.Inc()
	}
}

// RecordBackupOperation records a backup export or import operation
func RecordBackupOperation(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	BackupOperations.WithLabelValues(operation, status).Inc()
	BackupDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordBackupImageFailures records images that failed to materialize
// during an export
func RecordBackupImageFailures(count int) {
	if count > 0 {
		BackupImageFailures.Add(float64(count))
	}
}

// TrackWSConnection tracks WebSocket connection counts
func TrackWSConnection(inc bool) {
	if inc {
		WSConnections.Inc()
	} else {
		WSConnections.Dec()
	}
}

// RecordWSMessagesSent records messages delivered to WebSocket clients
func RecordWSMessagesSent(count int) {
	if count > 0 {
		WSMessagesSent.Add(float64(count))
	}
}

// RecordWSMessageDropped records a message dropped because a client or
// the broadcast queue could not keep up
func RecordWSMessageDropped() {
	WSMessagesDropped.Inc()
}

// RecordBreakerTransition records a circuit breaker state change
func RecordBreakerTransition(name, fromState, toState string, state float64) {
	CircuitBreakerTransitions.WithLabelValues(name, fromState, toState).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// SetAppInfo records the running version
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// SetUptime updates the uptime gauge
func SetUptime(d time.Duration) {
	AppUptime.Set(d.Seconds())
}
