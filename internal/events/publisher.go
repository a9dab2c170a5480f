// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"

	"github.com/nelsonportela/BackLogus/internal/logging"
)

// ProgressPublisher publishes progress events over Watermill NATS.
type ProgressPublisher struct {
	publisher message.Publisher
	mu        sync.RWMutex
	closed    bool
}

// NewProgressPublisher connects a Watermill publisher to the bus at
// the given URL. Pass a nil logger to fall back to Watermill's
// standard logger.
func NewProgressPublisher(url string, logger watermill.LoggerAdapter) (*ProgressPublisher, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOptions(logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return &ProgressPublisher{publisher: pub}, nil
}

// PublishProgress sends one progress update. Publishing is
// fire-and-forget: failures are logged and swallowed so a flaky bus
// can never abort a running export or import.
func (p *ProgressPublisher) PublishProgress(event *ProgressEvent) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return
	}
	p.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logging.Error().Err(err).Str("operation_id", event.OperationID).Msg("Failed to marshal progress event")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("operation_id", event.OperationID)
	msg.Metadata.Set("stage", event.Stage)

	if err := p.publisher.Publish(TopicBackupProgress, msg); err != nil {
		logging.Warn().
			Err(err).
			Str("operation_id", event.OperationID).
			Str("stage", event.Stage).
			Msg("Failed to publish progress event")
	}
}

// Close shuts down the underlying publisher.
func (p *ProgressPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

// natsOptions builds the shared NATS connection options with
// reconnection handling for both publisher and relay.
func natsOptions(logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}
}
