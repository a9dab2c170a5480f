// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package models

import (
	"time"
)

// APIResponse represents the standardized response wrapper used by all
// HTTP endpoints.
//
// Status field values:
//   - "success": Request completed, see Data field
//   - "error": Request failed, see Error field
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"id": 3, "name": "Outer Wilds"},
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z"}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "NOT_FOUND",
//	    "message": "library entry not found"
//	  },
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata. Every response carries the
// server timestamp; request IDs appear when the middleware assigned
// one.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError represents structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - AUTHENTICATION_ERROR: Invalid or missing credentials
//   - NOT_FOUND: Resource does not exist
//   - CONFLICT: Uniqueness violation (duplicate email, duplicate entry)
//   - INVALID_ARCHIVE: Uploaded backup is readable but incomplete
//   - CORRUPT_ARCHIVE: Uploaded backup is not a readable archive
//   - RESTORE_FAILED: Restore transaction rolled back
//   - BACKUP_FAILED: Archive build aborted
//   - RATE_LIMIT_EXCEEDED: Too many requests
//   - INTERNAL_ERROR: Unexpected server failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
