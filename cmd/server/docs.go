// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

// Package main provides the BackLogus HTTP server
//
// BackLogus API tracks personal game and movie backlogs and moves whole
// accounts between instances via portable backup archives.
//
// @title BackLogus API
// @version 1.0
// @description Personal media backlog tracker for games and movies with portable backup archives
// @description
// @description ## Features
// @description
// @description - **Game Library**: IGDB-backed game tracking with status, rating, notes, and platform
// @description - **Movie Library**: TMDB-backed movie tracking with status, rating, and notes
// @description - **Backup Export**: one-request zip archive of the whole account, cover art included
// @description - **Backup Import**: transactional restore that replaces the account from an archive
// @description - **Real-time Progress**: WebSocket progress events for long-running backup operations
// @description
// @description ## Authentication
// @description
// @description Most endpoints require JWT authentication via HTTP-only cookie.
// @description Use `/api/v1/auth/login` to obtain a token, which will be automatically included in subsequent requests.
// @description The token is also returned in the response body for clients that prefer the `Authorization: Bearer` header.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description Login is limited to 5 attempts per 5 minutes; backup endpoints to 10 requests per 10 minutes.
// @description Rate limit headers are included in responses: `X-RateLimit-Limit`, `X-RateLimit-Remaining`, `X-RateLimit-Reset`.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-08-25T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/nelsonportela/BackLogus/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in cookie
// @name token
// @description JWT token stored in HTTP-only cookie. Obtain via /api/v1/auth/login endpoint.
//
// @tag.name Health
// @tag.description Liveness, readiness, and dependency health checks
//
// @tag.name Auth
// @tag.description Account registration, login, and session introspection
//
// @tag.name Games
// @tag.description Game library entries scoped to the authenticated account
//
// @tag.name Movies
// @tag.description Movie library entries scoped to the authenticated account
//
// @tag.name User
// @tag.description Profile and media provider credential management
//
// @tag.name Backup
// @tag.description Archive export, import, and library statistics
//
// @tag.name Realtime
// @tag.description WebSocket progress events for long-running operations
package main
