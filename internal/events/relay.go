// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/nelsonportela/BackLogus/internal/logging"
)

// Broadcaster pushes typed events to connected WebSocket clients.
type Broadcaster interface {
	BroadcastJSON(eventType string, data any) error
}

// Relay subscribes to the progress topic and forwards each event to
// the WebSocket hub. It runs as a child of the supervision tree.
type Relay struct {
	subscriber  message.Subscriber
	broadcaster Broadcaster
}

// NewRelay connects a Watermill subscriber to the bus at the given
// URL. Pass a nil logger to fall back to Watermill's standard logger.
func NewRelay(url string, broadcaster Broadcaster, logger watermill.LoggerAdapter) (*Relay, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     30 * time.Second,
		NatsOptions:      natsOptions(logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return &Relay{subscriber: sub, broadcaster: broadcaster}, nil
}

// Serve consumes progress events until the context is cancelled.
func (r *Relay) Serve(ctx context.Context) error {
	messages, err := r.subscriber.Subscribe(ctx, TopicBackupProgress)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicBackupProgress, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("progress subscription closed")
			}
			r.handle(msg)
		}
	}
}

func (r *Relay) handle(msg *message.Message) {
	defer msg.Ack()

	var event ProgressEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		logging.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed progress event")
		return
	}

	if err := r.broadcaster.BroadcastJSON("backup_progress", &event); err != nil {
		logging.Warn().
			Err(err).
			Str("operation_id", event.OperationID).
			Msg("Failed to broadcast progress event")
	}
}

// Close shuts down the underlying subscriber.
func (r *Relay) Close() error {
	return r.subscriber.Close()
}

// String names the service in supervisor logs.
func (r *Relay) String() string {
	return "progress-relay"
}
