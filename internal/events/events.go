// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

// Package events carries backup progress updates from the engine to
// connected clients over an embedded NATS server.
//
// The bus is fire-and-forget: progress is a courtesy to the UI, so
// publish failures are logged and swallowed, nothing is persisted, and
// a slow consumer never applies backpressure to a running export or
// import.
package events

import "time"

// TopicBackupProgress is the subject progress events are published on.
const TopicBackupProgress = "backup.progress"

// Stage names reported while a backup operation runs.
const (
	StageDataFetch       = "data-fetch"
	StageImageCollection = "image-collection"
	StagePackaging       = "packaging"
	StageRestore         = "restore"
	StageImageRestore    = "image-restore"
)

// ProgressEvent is one progress update for a running export or import.
// OperationID ties together every event of a single run. Percent is
// the overall completion estimate from 0 to 100.
type ProgressEvent struct {
	OperationID string    `json:"operation_id"`
	UserID      int64     `json:"user_id"`
	Stage       string    `json:"stage"`
	Percent     int       `json:"percent"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}
