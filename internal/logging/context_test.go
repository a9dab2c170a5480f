// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateRequestID(t *testing.T) {
	t.Parallel()

	id1 := GenerateRequestID()
	id2 := GenerateRequestID()

	if id1 == "" {
		t.Error("expected non-empty request ID")
	}
	if id1 == id2 {
		t.Error("expected unique request IDs")
	}
	if len(id1) != 36 {
		t.Errorf("expected UUID length 36, got %d", len(id1))
	}
}

func TestGenerateOperationID(t *testing.T) {
	t.Parallel()

	id := GenerateOperationID()

	if len(id) != 8 {
		t.Errorf("expected operation ID length 8, got %d", len(id))
	}
}

func TestRequestIDFromContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}

	ctx = ContextWithRequestID(ctx, "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("expected 'req-123', got %q", got)
	}
}

func TestOperationIDFromContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if got := OperationIDFromContext(ctx); got != "" {
		t.Errorf("expected empty operation ID, got %q", got)
	}

	ctx = ContextWithOperationID(ctx, "op12345")
	if got := OperationIDFromContext(ctx); got != "op12345" {
		t.Errorf("expected 'op12345', got %q", got)
	}
}

func TestCtxAddsContextFields(t *testing.T) {
	var buf bytes.Buffer

	ctx := context.Background()
	ctx = ContextWithLogger(ctx, zerolog.New(&buf))
	ctx = ContextWithRequestID(ctx, "req-abc")
	ctx = ContextWithOperationID(ctx, "op-def")

	Ctx(ctx).Info().Msg("with context")

	output := buf.String()
	if !strings.Contains(output, `"request_id":"req-abc"`) {
		t.Errorf("expected request_id in output, got: %s", output)
	}
	if !strings.Contains(output, `"operation_id":"op-def"`) {
		t.Errorf("expected operation_id in output, got: %s", output)
	}
}

func TestCtxWithoutFields(t *testing.T) {
	var buf bytes.Buffer

	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf))

	Ctx(ctx).Info().Msg("plain")

	output := buf.String()
	if strings.Contains(output, "request_id") {
		t.Errorf("did not expect request_id field, got: %s", output)
	}
}

func TestLoggerFromContextFallsBack(t *testing.T) {
	// No logger stored: must return the global logger, not panic.
	logger := LoggerFromContext(context.Background())
	logger.Debug().Msg("fallback")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	SetLogger(zerolog.New(&buf))
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger := WithComponent("imagecache")
	logger.Info().Msg("component test")

	output := buf.String()
	if !strings.Contains(output, `"component":"imagecache"`) {
		t.Errorf("expected component field, got: %s", output)
	}
}
