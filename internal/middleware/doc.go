// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for request ID tracking,
gzip compression, and Prometheus metrics integration. These components work
alongside the authentication middleware in internal/auth to form the complete
middleware stack assembled by the chi router in internal/api.

Key Components:

  - RequestID: short request identifiers for log correlation
  - Compression: gzip compression for JSON responses
  - PrometheusMetrics: HTTP request instrumentation with slow-request logging

All middleware uses the func(http.HandlerFunc) http.HandlerFunc shape; the
router bridges it onto chi with a small adapter.

Usage Example:

	import "github.com/nelsonportela/BackLogus/internal/middleware"

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.Compression))

Thread Safety:

All middleware components are thread-safe:
  - Request ID uses context.Context (immutable)
  - Compression uses pooled per-request gzip writers
  - Prometheus metrics use the client library's atomic collectors

See Also:

  - internal/auth: Authentication middleware
  - internal/api: HTTP handlers and router wiring
  - internal/metrics: Prometheus metric definitions
*/
package middleware
