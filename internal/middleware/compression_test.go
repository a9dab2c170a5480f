// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompression(t *testing.T) {
	t.Parallel()

	t.Run("compresses when client accepts gzip", func(t *testing.T) {
		t.Parallel()
		body := strings.Repeat(`{"id":1,"name":"Outer Wilds","status":"playing"},`, 100)
		handler := Compression(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		})

		req := httptest.NewRequest("GET", "/api/v1/games", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()

		handler(rec, req)

		if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
			t.Fatalf("Expected gzip encoding, got %q", got)
		}

		gz, err := gzip.NewReader(rec.Body)
		if err != nil {
			t.Fatalf("Failed to open gzip reader: %v", err)
		}
		defer gz.Close()

		decompressed, err := io.ReadAll(gz)
		if err != nil {
			t.Fatalf("Failed to decompress body: %v", err)
		}
		if string(decompressed) != body {
			t.Error("Decompressed body does not match original")
		}
	})

	t.Run("passes through without gzip accept", func(t *testing.T) {
		t.Parallel()
		handler := Compression(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("plain response"))
		})

		req := httptest.NewRequest("GET", "/api/v1/games", nil)
		rec := httptest.NewRecorder()

		handler(rec, req)

		if rec.Header().Get("Content-Encoding") != "" {
			t.Error("Expected no Content-Encoding header")
		}
		if rec.Body.String() != "plain response" {
			t.Errorf("Expected plain body, got %q", rec.Body.String())
		}
	})

	t.Run("skips websocket upgrade requests", func(t *testing.T) {
		t.Parallel()
		handler := Compression(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("upgrade"))
		})

		req := httptest.NewRequest("GET", "/api/v1/ws", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		req.Header.Set("Upgrade", "websocket")
		rec := httptest.NewRecorder()

		handler(rec, req)

		if rec.Header().Get("Content-Encoding") != "" {
			t.Error("Expected no compression for websocket upgrade")
		}
	})

	t.Run("preserves status code", func(t *testing.T) {
		t.Parallel()
		handler := Compression(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status":"error"}`))
		})

		req := httptest.NewRequest("GET", "/api/v1/games/99", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()

		handler(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", rec.Code)
		}
	})

	t.Run("drops Content-Length header", func(t *testing.T) {
		t.Parallel()
		handler := Compression(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("some body"))
		})

		req := httptest.NewRequest("GET", "/api/v1/movies", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()

		handler(rec, req)

		if rec.Header().Get("Content-Length") != "" {
			t.Error("Expected Content-Length to be removed when compressing")
		}
	})
}
