// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

// Package api implements the HTTP interface: REST handlers, routing,
// and the HTTP middleware stack.
//
// # Architecture
//
// The package is organized around a single Handler that carries shared
// dependencies (database, configuration, auth service, WebSocket hub,
// backup engine) and exposes one method per endpoint. Routing is done
// with Chi (chi_router.go) so route groups can carry different
// middleware stacks: auth endpoints get strict rate limits, backup
// endpoints get long-operation limits, health endpoints stay cheap and
// permissive.
//
// Handlers are written as http.HandlerFunc methods and composed with
// func(http.HandlerFunc) http.HandlerFunc middleware. The chiMiddleware
// adapter in chi_router.go bridges that shape onto Chi's
// func(http.Handler) http.Handler.
//
// # Response Envelope
//
// Every JSON endpoint responds with models.APIResponse:
//
//	{
//	  "status": "success" | "error",
//	  "data": ...,
//	  "error": {"code": "...", "message": "..."},
//	  "metadata": {"timestamp": "...", "request_id": "..."}
//	}
//
// The one exception is the backup export endpoint, which streams a zip
// archive directly to the response body.
//
// # Error Codes
//
// Machine-readable error codes are defined in errors.go. Handlers map
// sentinel errors from the database and backup packages onto them so
// clients can branch on code rather than message text.
package api
