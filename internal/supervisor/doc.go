// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

/*
Package supervisor provides process supervision for BackLogus using suture v4.

This package implements a hierarchical supervisor tree that manages the
lifecycle of all long-running services in the application. It provides
Erlang/OTP-style supervision with automatic restart, failure isolation,
and graceful shutdown.

# Overview

The supervisor tree organizes services into three layers for failure
isolation:

	RootSupervisor ("backlogus")
	├── DataSupervisor ("data-layer")
	│   └── ImageCacheGC (BadgerDB value-log garbage collection)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── EventBusService (embedded NATS server)
	│   ├── ProgressRelay (bus → WebSocket forwarding)
	│   └── WebSocketHub
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that:
  - A crashed progress relay doesn't take down the HTTP API
  - Image cache maintenance failures don't impact WebSocket clients
  - Each layer restarts independently with its own failure budget

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Supervisor events flow through slog via the sutureslog adapter
  - Service starts, stops, failures, and restarts are all logged

# Usage

Basic setup in main.go:

	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(imagecache.NewGCService(store, time.Hour))
	tree.AddMessagingService(wsHub)
	tree.AddMessagingService(relay)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)

Components that already implement Serve(ctx) error plus String() are
added directly; everything else goes through a wrapper in the services
subpackage.
*/
package supervisor
