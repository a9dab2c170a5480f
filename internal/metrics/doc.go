// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

/*
Package metrics provides Prometheus instrumentation for BackLogus.

All metrics are registered on the default Prometheus registry via
promauto at package initialization, so importing this package is enough
to make every collector available. The HTTP server exposes them at
/metrics through promhttp.

# Metric Families

Database:

	duckdb_query_duration_seconds{operation, table}
	duckdb_query_errors_total{operation, table, error_type}

HTTP API:

	api_requests_total{method, endpoint, status_code}
	api_request_duration_seconds{method, endpoint}
	api_active_requests
	api_rate_limit_hits_total{endpoint}

Authentication:

	auth_attempts_total{result}

Image cache:

	image_cache_hits_total
	image_cache_misses_total
	image_cache_entries
	image_cache_bytes
	image_download_duration_seconds
	image_download_failures_total

Backup engine:

	backup_operations_total{operation, status}
	backup_duration_seconds{operation}
	backup_image_failures_total

WebSocket:

	websocket_connections
	websocket_messages_sent_total
	websocket_messages_dropped_total

Circuit breaker:

	circuit_breaker_state{name}
	circuit_breaker_state_transitions_total{name, from_state, to_state}

Application:

	app_info{version, go_version}
	app_uptime_seconds

# Usage

Callers record through the helper functions rather than touching the
collectors directly:

	metrics.RecordAPIRequest("GET", "/api/v1/games", "200", elapsed)
	metrics.RecordImageDownload(elapsed, err)
	metrics.RecordBackupOperation("export", elapsed, err)

The collectors themselves stay exported so tests and ad hoc callers can
reach them, but the helpers keep label values consistent across the
codebase.
*/
package metrics
