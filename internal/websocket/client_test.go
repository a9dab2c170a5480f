// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// setupWebSocketServer runs handler against each upgraded connection.
func setupWebSocketServer(t *testing.T, handler func(t *testing.T, conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade connection: %v", err)
			return
		}
		defer conn.Close()
		handler(t, conn)
	}))
}

func dialWebSocket(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	return conn
}

func waitForSignal(t *testing.T, ch <-chan bool, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Errorf("%s: timed out", msg)
	}
}

func TestNewClient(t *testing.T) {
	hub := NewHub()

	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	defer conn.Close()

	first := NewClient(hub, conn)
	second := NewClient(hub, conn)

	if first.hub != hub || first.conn != conn {
		t.Error("client wiring not set")
	}
	if cap(first.send) != 256 {
		t.Errorf("expected send buffer 256, got %d", cap(first.send))
	}
	if second.ID() <= first.ID() {
		t.Errorf("expected increasing IDs, got %d then %d", first.ID(), second.ID())
	}
}

func TestClientWritePumpDeliversMessages(t *testing.T) {
	hub := NewHub()

	received := make(chan bool, 1)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Errorf("Failed to read message: %v", err)
			return
		}
		if msg.Type != MessageTypeBackupProgress {
			t.Errorf("expected type %s, got %s", MessageTypeBackupProgress, msg.Type)
		}
		received <- true
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	defer conn.Close()

	client := NewClient(hub, conn)
	go client.writePump()

	client.send <- Message{Type: MessageTypeBackupProgress, Data: map[string]any{"percent": 60}}

	waitForSignal(t, received, "message not delivered")
}

func TestClientReadPumpAnswersPing(t *testing.T) {
	hub := setupHub(t)

	gotPong := make(chan bool, 1)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
			t.Errorf("Failed to write ping: %v", err)
			return
		}
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Errorf("Failed to read pong: %v", err)
			return
		}
		if msg.Type == MessageTypePong {
			gotPong <- true
		}
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	defer conn.Close()

	client := NewClient(hub, conn)
	client.Start()

	waitForSignal(t, gotPong, "pong not received")
}

func TestClientUnregistersOnConnectionClose(t *testing.T) {
	hub := setupHub(t)

	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		conn.Close()
	})
	defer server.Close()

	conn := dialWebSocket(t, server)

	client := NewClient(hub, conn)
	registerClient(hub, client)
	if hub.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", hub.ClientCount())
	}

	client.Start()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client not unregistered after connection close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestClientWritePumpSendsCloseFrame(t *testing.T) {
	hub := NewHub()

	gotClose := make(chan bool, 1)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
					gotClose <- true
				}
				return
			}
		}
	})
	defer server.Close()

	conn := dialWebSocket(t, server)

	client := NewClient(hub, conn)
	go client.writePump()

	time.Sleep(50 * time.Millisecond)
	close(client.send)

	waitForSignal(t, gotClose, "close frame not received")
}

func TestClientEndToEndBroadcast(t *testing.T) {
	hub := setupHub(t)

	messages := make(chan Message, 10)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		for {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			messages <- msg
		}
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	defer conn.Close()

	client := NewClient(hub, conn)
	registerClient(hub, client)
	client.Start()

	if err := hub.BroadcastJSON(MessageTypeBackupProgress, map[string]any{
		"stage":   "packaging",
		"percent": 80,
	}); err != nil {
		t.Fatalf("expected broadcast to queue, got %v", err)
	}

	select {
	case msg := <-messages:
		if msg.Type != MessageTypeBackupProgress {
			t.Errorf("expected type %s, got %s", MessageTypeBackupProgress, msg.Type)
		}
	case <-time.After(time.Second):
		t.Error("broadcast not delivered to connected client")
	}
}
