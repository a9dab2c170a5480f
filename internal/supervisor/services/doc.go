// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

/*
Package services provides suture.Service wrappers for BackLogus
components whose lifecycle does not already match the supervision
model.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

plus fmt.Stringer so supervisor logs name the service. The wrappers
translate a component's native lifecycle (ListenAndServe/Shutdown,
start-at-construction) into suture's context-aware Serve pattern and
propagate errors so the supervisor can make restart decisions.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the blocking ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Event Bus (BusService):
  - Wraps the embedded NATS server, which starts at construction
  - Monitors health and reports an unexpected stop as a failure
  - Shuts the server down when the context is canceled

The WebSocket hub, the progress relay, and the image cache GC loop
implement Serve and String natively and are added to the tree without
a wrapper.
*/
package services
