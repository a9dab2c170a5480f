// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package backup

import "errors"

var (
	// ErrBuildFailed wraps any fatal export error: snapshot loading,
	// cache listing, or zip packaging. Individual image download
	// failures are not fatal and never surface as this error.
	ErrBuildFailed = errors.New("backup build failed")

	// ErrCorruptArchive means the upload is not a readable zip
	// container.
	ErrCorruptArchive = errors.New("corrupt archive")

	// ErrInvalidArchive means the container was readable but its
	// contents are not a usable backup: the document is missing,
	// malformed, or lacks required pieces.
	ErrInvalidArchive = errors.New("invalid archive")

	// ErrRestoreFailed wraps any error during the restore
	// transaction. The database is rolled back to its prior state.
	ErrRestoreFailed = errors.New("restore failed")
)

// MaterializationFailure records one image URL that could not be
// downloaded during export. These are reported, not raised.
type MaterializationFailure struct {
	URL string
	Err error
}
