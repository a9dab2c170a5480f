// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

// Package imagecache persists downloaded artwork in an embedded
// BadgerDB store keyed by content-addressed filenames.
//
// Backup export materializes every image URL referenced by a library
// before packaging, and import writes archived images back through
// Restore. A filename is the SHA-256 of the source URL plus the URL's
// image extension, so repeated references to the same artwork share a
// single entry and re-exports reuse earlier downloads instead of
// fetching again.
//
// Downloads go through a rate-limited HTTP fetcher wrapped in a
// circuit breaker. When a remote image host degrades, the breaker
// opens and exports fall back to whatever is already cached rather
// than hammering the host with doomed requests.
package imagecache
