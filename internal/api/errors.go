// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package api

// Machine-readable error codes returned in the error envelope. Clients
// branch on these, not on message text, so the strings are part of the
// API contract.
const (
	// ErrCodeBadRequest indicates a malformed request (unparseable
	// JSON, bad path parameter, missing multipart field).
	ErrCodeBadRequest = "BAD_REQUEST"

	// ErrCodeValidation indicates a well-formed request that failed
	// field validation. Details carry per-field messages.
	ErrCodeValidation = "VALIDATION_ERROR"

	// ErrCodeUnauthorized indicates missing or invalid credentials.
	ErrCodeUnauthorized = "UNAUTHORIZED"

	// ErrCodeNotFound indicates the requested resource does not exist
	// or does not belong to the authenticated user.
	ErrCodeNotFound = "NOT_FOUND"

	// ErrCodeConflict indicates the resource already exists, such as
	// registering an email twice or re-adding a library entry.
	ErrCodeConflict = "CONFLICT"

	// ErrCodeMethodNotAllowed indicates the HTTP method is not
	// supported on the route.
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"

	// ErrCodePayloadTooLarge indicates an upload exceeded the
	// configured size cap.
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"

	// ErrCodeCorruptArchive indicates an uploaded backup that could
	// not be read as a zip archive or whose JSON document is broken.
	ErrCodeCorruptArchive = "CORRUPT_ARCHIVE"

	// ErrCodeInvalidArchive indicates a readable archive with invalid
	// contents: missing document, unsupported version, bad records.
	ErrCodeInvalidArchive = "INVALID_ARCHIVE"

	// ErrCodeRestoreFailed indicates the restore transaction failed
	// and was rolled back. The library is unchanged.
	ErrCodeRestoreFailed = "RESTORE_FAILED"

	// ErrCodeBackupDisabled indicates the backup engine is not wired,
	// for example when the image cache failed to open at startup.
	ErrCodeBackupDisabled = "BACKUP_DISABLED"

	// ErrCodeInternal indicates an unexpected server-side failure.
	ErrCodeInternal = "INTERNAL_ERROR"

	// ErrCodeServiceUnavailable indicates a dependency (database,
	// WebSocket hub) is not available to serve the request.
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
