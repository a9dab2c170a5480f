// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package auth

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/nelsonportela/BackLogus/internal/logging"
)

// contextKey is a private type for request context keys to avoid
// collisions with keys from other packages.
type contextKey string

// ClaimsContextKey is where Authenticate stores the verified claims.
const ClaimsContextKey contextKey = "auth_claims"

// Middleware guards HTTP routes with JWT authentication.
type Middleware struct {
	jwtManager *JWTManager
	mode       string
	security   *logging.SecurityLogger
}

// NewMiddleware creates authentication middleware. Mode "none" disables
// authentication and injects a fixed development identity; every other
// value requires a valid token on each request.
func NewMiddleware(jwtManager *JWTManager, mode string) *Middleware {
	return &Middleware{
		jwtManager: jwtManager,
		mode:       mode,
		security:   logging.NewSecurityLogger(),
	}
}

// Authenticate wraps a handler so it only runs for authenticated
// requests. The verified claims are placed on the request context under
// ClaimsContextKey for handlers to read via ClaimsFromContext.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.mode == "none" {
			// Development identity for running without a login flow.
			claims := &Claims{UserID: 1, Email: "dev@localhost"}
			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next(w, r.WithContext(ctx))
			return
		}

		tokenString := extractToken(r)
		if tokenString == "" {
			m.security.LogTokenRejected(clientIP(r), r.URL.Path, "no credentials presented")
			writeAuthError(w, "Authentication required")
			return
		}

		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			m.security.LogTokenRejected(clientIP(r), r.URL.Path, "validation failed")
			writeAuthError(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// ClaimsFromContext returns the claims stored by Authenticate. The
// boolean is false when the request did not pass through the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

// extractToken reads the token from the Authorization header or, as a
// fallback for browser clients, from the "token" cookie.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}
	return ""
}

// clientIP extracts the remote address for security logging. It trusts
// X-Forwarded-For only for its first entry; the value is logged, never
// used for authorization decisions.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "error",
		"error": map[string]string{
			"code":    "AUTHENTICATION_ERROR",
			"message": message,
		},
	})
}
