// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// fakeBus is a test double for the Bus interface.
type fakeBus struct {
	running       atomic.Bool
	shutdownCount atomic.Int32
}

func newFakeBus(running bool) *fakeBus {
	f := &fakeBus{}
	f.running.Store(running)
	return f
}

func (f *fakeBus) IsRunning() bool { return f.running.Load() }

func (f *fakeBus) Shutdown() {
	f.shutdownCount.Add(1)
	f.running.Store(false)
}

func TestBusService_Interface(t *testing.T) {
	var _ suture.Service = (*BusService)(nil)
}

func TestNewBusService(t *testing.T) {
	bus := newFakeBus(true)
	svc := NewBusService(bus)

	if svc == nil {
		t.Fatal("NewBusService returned nil")
	}
	if svc.String() != "event-bus" {
		t.Errorf("expected name 'event-bus', got %q", svc.String())
	}
	if svc.interval != healthCheckInterval {
		t.Errorf("expected interval %v, got %v", healthCheckInterval, svc.interval)
	}
}

func TestBusService_Serve(t *testing.T) {
	t.Run("fails immediately when bus is not running", func(t *testing.T) {
		svc := NewBusService(newFakeBus(false))

		err := svc.Serve(context.Background())
		if !errors.Is(err, ErrBusStopped) {
			t.Errorf("expected ErrBusStopped, got %v", err)
		}
	})

	t.Run("shuts bus down on context cancellation", func(t *testing.T) {
		bus := newFakeBus(true)
		svc := NewBusService(bus)

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- svc.Serve(ctx)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("Serve did not return after cancellation")
		}

		if bus.shutdownCount.Load() != 1 {
			t.Errorf("expected 1 Shutdown call, got %d", bus.shutdownCount.Load())
		}
	})

	t.Run("detects a bus that stopped on its own", func(t *testing.T) {
		bus := newFakeBus(true)
		svc := NewBusService(bus)
		svc.interval = 10 * time.Millisecond

		errCh := make(chan error, 1)
		go func() {
			errCh <- svc.Serve(context.Background())
		}()

		// Stop the bus out from under the wrapper
		time.Sleep(20 * time.Millisecond)
		bus.running.Store(false)

		select {
		case err := <-errCh:
			if !errors.Is(err, ErrBusStopped) {
				t.Errorf("expected ErrBusStopped, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("Serve did not notice the stopped bus")
		}
	})
}
