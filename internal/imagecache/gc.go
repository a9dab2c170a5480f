// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package imagecache

import (
	"context"
	"time"

	"github.com/nelsonportela/BackLogus/internal/logging"
)

// GCService periodically reclaims BadgerDB value log space. It runs as
// a child of the supervision tree and stops when its context is
// cancelled.
type GCService struct {
	store    *Store
	interval time.Duration
}

// NewGCService creates the GC loop for a store. The interval comes
// from IMAGE_GC_INTERVAL.
func NewGCService(store *Store, interval time.Duration) *GCService {
	return &GCService{store: store, interval: interval}
}

// Serve runs GC passes until the context is cancelled.
func (s *GCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.store.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("Image cache GC pass failed")
			}
		}
	}
}

// String names the service in supervisor logs.
func (s *GCService) String() string {
	return "imagecache-gc"
}
