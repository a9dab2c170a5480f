// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityLogger provides secure logging for authentication events.
// It automatically sanitizes sensitive data before logging, so call sites
// never have to remember which fields are secrets.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a new security logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{
		logger: With().Str("component", "auth").Logger(),
	}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// LogLoginSuccess logs a successful login.
func (l *SecurityLogger) LogLoginSuccess(userID int64, email, ip string) {
	l.logger.Info().
		Str("event", "login_success").
		Int64("user_id", userID).
		Str("email", SanitizeEmail(email)).
		Str("ip", ip).
		Msg("User logged in")
}

// LogLoginFailure logs a failed login attempt.
func (l *SecurityLogger) LogLoginFailure(email, ip, reason string) {
	l.logger.Warn().
		Str("event", "login_failure").
		Str("email", SanitizeEmail(email)).
		Str("ip", ip).
		Str("reason", SanitizeError(reason)).
		Msg("Login failed")
}

// LogRegistration logs a new account registration.
func (l *SecurityLogger) LogRegistration(userID int64, email, ip string) {
	l.logger.Info().
		Str("event", "registration").
		Int64("user_id", userID).
		Str("email", SanitizeEmail(email)).
		Str("ip", ip).
		Msg("Account registered")
}

// LogTokenRejected logs a rejected JWT on a protected endpoint.
func (l *SecurityLogger) LogTokenRejected(ip, path, reason string) {
	l.logger.Warn().
		Str("event", "token_rejected").
		Str("ip", ip).
		Str("path", path).
		Str("reason", SanitizeError(reason)).
		Msg("Token rejected")
}

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..." -> "eyJh...kpXV"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeEmail masks an email address.
// Example: "john.doe@example.com" -> "jo***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}

	atIndex := strings.Index(email, "@")
	if atIndex <= 0 {
		return "***"
	}

	localPart := email[:atIndex]
	domain := email[atIndex:]

	if len(localPart) <= 2 {
		return "***" + domain
	}
	return localPart[:2] + "***" + domain
}

// SanitizeError removes potentially sensitive information from error messages.
func SanitizeError(err string) string {
	sensitivePatterns := []string{
		"password",
		"secret",
		"token",
		"key",
		"bearer",
		"authorization",
		"cookie",
	}

	lowerErr := strings.ToLower(err)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lowerErr, pattern) {
			return "authentication error"
		}
	}

	return truncateString(err, 200)
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
