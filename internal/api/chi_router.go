// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/nelsonportela/BackLogus/internal/auth"
	"github.com/nelsonportela/BackLogus/internal/middleware"
)

// Router wires handlers into the Chi route tree.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates the router. The Chi middleware factory is derived
// from the handler's security configuration.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware) *Router {
	return &Router{
		handler:       handler,
		middleware:    authMiddleware,
		chiMiddleware: NewChiMiddlewareFromConfig(&handler.config.Security),
	}
}

// chiMiddleware adapts func(http.HandlerFunc) http.HandlerFunc
// middleware to Chi's func(http.Handler) http.Handler shape.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// chiPathValue copies Chi URL params into the request so handlers can
// read them with r.PathValue, keeping them free of Chi imports.
func chiPathValue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		if rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				if i < len(rctx.URLParams.Values) {
					r.SetPathValue(key, rctx.URLParams.Values[i])
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(chiMiddleware(middleware.RequestID)) // X-Request-ID header plus logging context
	r.Use(chimiddleware.RealIP)                // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)             // Recover from panics
	r.Use(router.chiMiddleware.CORS())         // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting so monitoring tools can poll freely.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Authentication Endpoints
	// ========================
	// Strict rate limiting for credential endpoints (brute force prevention)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.With(router.chiMiddleware.RateLimitAuth()).Post("/register", router.handler.Register)

		// Login has strictest rate limiting (5 attempts per 5 minutes)
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.handler.Login)

		r.With(
			router.chiMiddleware.RateLimit(),
			chiMiddleware(router.middleware.Authenticate),
		).Get("/me", router.handler.Me)
	})

	// ========================
	// User Endpoints
	// ========================
	// Profile and provider credential management.
	r.Route("/api/v1/user", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiPathValue)
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))
		r.Use(chiMiddleware(router.middleware.Authenticate))

		r.Get("/profile", router.handler.GetProfile)
		r.Put("/profile", router.handler.UpdateProfile)
		r.Get("/credentials", router.handler.ListCredentials)
		r.Put("/credentials", router.handler.UpsertCredential)
		r.Delete("/credentials/{provider}", router.handler.DeleteCredential)
	})

	// ========================
	// Library Endpoints
	// ========================
	// All library data is scoped to the authenticated user.
	r.Route("/api/v1/games", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiPathValue)
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))
		r.Use(chiMiddleware(router.middleware.Authenticate))

		r.Get("/", router.handler.ListGames)
		r.Post("/", router.handler.AddGame)
		r.Put("/{id}", router.handler.UpdateGame)
		r.Delete("/{id}", router.handler.RemoveGame)
	})

	r.Route("/api/v1/movies", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiPathValue)
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))
		r.Use(chiMiddleware(router.middleware.Authenticate))

		r.Get("/", router.handler.ListMovies)
		r.Post("/", router.handler.AddMovie)
		r.Put("/{id}", router.handler.UpdateMovie)
		r.Delete("/{id}", router.handler.RemoveMovie)
	})

	// ========================
	// Backup Endpoints
	// ========================
	// Low rate limit: export walks the whole library, import rewrites
	// it. No compression middleware here, archives are already
	// deflate-compressed and JSON responses are small.
	r.Route("/api/v1/backup", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitExport())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(router.middleware.Authenticate))

		r.Get("/export", router.handler.BackupExport)
		r.Post("/import", router.handler.BackupImport)
		r.Get("/stats", router.handler.BackupStats)
	})

	// ========================
	// WebSocket Endpoint
	// ========================
	// Progress events for long-running backup operations.
	r.With(
		router.chiMiddleware.RateLimit(),
		chiMiddleware(router.middleware.Authenticate),
	).Get("/api/v1/ws", router.handler.WebSocket)

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
