// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package imagecache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"strings"
)

// defaultExtension is used when the URL path carries no recognizable
// image extension. Media providers serve JPEG for bare artwork paths.
const defaultExtension = ".jpg"

var knownExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// CacheFilename derives the stable cache filename for an image URL.
// The name is the hex SHA-256 of the full URL, so the same artwork
// referenced from several entries lands on one cache entry and the
// derivation never collides across providers.
func CacheFilename(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:]) + extensionFor(rawURL)
}

func extensionFor(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return defaultExtension
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	if knownExtensions[ext] {
		return ext
	}
	return defaultExtension
}
