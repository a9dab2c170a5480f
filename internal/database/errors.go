// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package database

import (
	"errors"
	"io"

	"github.com/nelsonportela/BackLogus/internal/logging"
)

// Sentinel errors returned by data access methods. Callers match with
// errors.Is to map them to API error codes.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrGameNotFound       = errors.New("game not found")
	ErrMovieNotFound      = errors.New("movie not found")
	ErrEntryNotFound      = errors.New("library entry not found")
	ErrEntryExists        = errors.New("library entry already exists")
	ErrCredentialNotFound = errors.New("credential not found")
)

// closeWithLog closes a resource and logs any error. Use this for
// cleanup operations where errors should be acknowledged but not fail
// the operation.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
