// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package websocket

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/nelsonportela/BackLogus/internal/logging"
	"github.com/nelsonportela/BackLogus/internal/metrics"
)

// Message types pushed to clients.
const (
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
	MessageTypeBackupProgress = "backup_progress"
)

// ErrBroadcastDropped is returned when the broadcast queue is full and
// a message was discarded instead of blocking the caller.
var ErrBroadcastDropped = errors.New("broadcast queue full, message dropped")

// Message is the envelope every WebSocket frame carries.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub tracks connected clients and fans broadcast messages out to
// them. It runs as a child of the supervision tree.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a hub. Serve must be running before clients register.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Serve runs the hub loop until ctx is canceled, then closes every
// connected client and returns ctx.Err().
//
// Each pass drains lifecycle events before touching the broadcast
// queue. Go's select picks randomly among ready channels, so without
// the priority check a burst of broadcasts could starve registration
// and messages would race against the client set they are meant to
// reach.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// String names the hub in supervisor logs.
func (h *Hub) String() string { return "websocket-hub" }

// BroadcastJSON queues a typed message for every connected client.
// The send never blocks; if the queue is full the message is dropped
// and ErrBroadcastDropped reports it. Progress updates are transient,
// so the next event supersedes a dropped one.
func (h *Hub) BroadcastJSON(messageType string, data any) error {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
		return nil
	default:
		metrics.RecordWSMessageDropped()
		logging.Warn().Str("message_type", messageType).Msg("Broadcast queue full, dropping message")
		return ErrBroadcastDropped
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	metrics.TrackWSConnection(true)
	logging.Info().Int("total_clients", total).Msg("WebSocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	removed := false
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		removed = true
	}
	total := len(h.clients)
	h.mu.Unlock()
	if removed {
		metrics.TrackWSConnection(false)
	}
	logging.Info().Int("total_clients", total).Msg("WebSocket client disconnected")
}

// broadcastToClients delivers one message to every client in ID order.
// The stable order keeps delivery reproducible in tests. A client
// whose send buffer is full is dropped on the spot; its write pump has
// stalled and holding the hub for it would stall everyone.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.sortedClientsLocked()

	sent := 0
	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			sent++
		default:
			toRemove = append(toRemove, client)
		}
	}
	metrics.RecordWSMessagesSent(sent)

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.TrackWSConnection(false)
		metrics.RecordWSMessageDropped()
		logging.Warn().Uint64("client_id", client.id).Msg("Dropped stalled WebSocket client")
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := h.sortedClientsLocked()
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	for range clients {
		metrics.TrackWSConnection(false)
	}

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", shutdownReason(ctx)).
		Int("clients_closed", len(clients)).
		Msg("WebSocket hub stopped")
}

func (h *Hub) sortedClientsLocked() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// shutdownReason labels the shutdown trigger for log filtering.
// Cancellation is the normal SIGTERM path, not an error.
func shutdownReason(ctx context.Context) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "context_deadline"
	}
	return "context_canceled"
}
