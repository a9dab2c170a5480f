// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

// Package websocket pushes live updates to connected browser clients.
//
// The Hub fans messages out to every connection; the progress relay in
// internal/events feeds it backup progress, and clients send nothing
// but keepalive pings. Delivery is best effort: a client that cannot
// keep up is disconnected rather than allowed to stall the hub, and a
// full broadcast queue drops the message.
package websocket
