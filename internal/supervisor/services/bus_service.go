// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package services

import (
	"context"
	"errors"
	"time"
)

// healthCheckInterval is how often the bus wrapper verifies the server
// is still accepting connections.
const healthCheckInterval = 5 * time.Second

// ErrBusStopped reports that the embedded bus stopped outside a
// requested shutdown.
var ErrBusStopped = errors.New("event bus stopped unexpectedly")

// Bus matches the embedded NATS server lifecycle. The server starts at
// construction, so the wrapper only monitors and shuts down.
//
// Satisfied by *events.EmbeddedServer.
type Bus interface {
	IsRunning() bool
	Shutdown()
}

// BusService supervises the embedded event bus.
//
// The bus does not expose a blocking run loop; it starts inside its
// constructor. Serve therefore watches its health on a ticker and
// treats an unexpected stop as a service failure, which surfaces in
// supervisor logs instead of silently breaking progress events.
type BusService struct {
	bus      Bus
	name     string
	interval time.Duration
}

// NewBusService creates the supervision wrapper for a running bus.
func NewBusService(bus Bus) *BusService {
	return &BusService{
		bus:      bus,
		name:     "event-bus",
		interval: healthCheckInterval,
	}
}

// Serve implements suture.Service.
//
// Returns ErrBusStopped if the server stops on its own. The wrapper
// cannot restart the server, so the error makes the failure loud; the
// supervisor's backoff keeps the retry loop cheap.
func (s *BusService) Serve(ctx context.Context) error {
	if !s.bus.IsRunning() {
		return ErrBusStopped
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.bus.Shutdown()
			return ctx.Err()
		case <-ticker.C:
			if !s.bus.IsRunning() {
				return ErrBusStopped
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *BusService) String() string {
	return s.name
}
