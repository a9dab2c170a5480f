// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nelsonportela/BackLogus/internal/config"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(&config.ImageCacheConfig{
		Dir:          t.TempDir(),
		FetchTimeout: 5 * time.Second,
		MaxBytes:     1 << 20,
		GCInterval:   time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}

func TestMaterializeDownloadsOnceAndServesFromCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	store := setupStore(t)
	url := server.URL + "/cover.jpg"

	first, err := store.Materialize(context.Background(), url)
	if err != nil {
		t.Fatalf("failed to materialize: %v", err)
	}
	if string(first) != "jpeg-bytes" {
		t.Errorf("expected jpeg-bytes, got %q", first)
	}

	second, err := store.Materialize(context.Background(), url)
	if err != nil {
		t.Fatalf("failed to materialize from cache: %v", err)
	}
	if string(second) != "jpeg-bytes" {
		t.Errorf("expected jpeg-bytes from cache, got %q", second)
	}

	if hits.Load() != 1 {
		t.Errorf("expected exactly 1 download, got %d", hits.Load())
	}
}

func TestMaterializeReportsDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	store := setupStore(t)
	if _, err := store.Materialize(context.Background(), server.URL+"/missing.jpg"); err == nil {
		t.Error("expected error for 404 response, got nil")
	}
}

func TestListAllReturnsEveryEntry(t *testing.T) {
	store := setupStore(t)

	images := []Image{
		{Filename: "aaa.jpg", Data: []byte("first")},
		{Filename: "bbb.png", Data: []byte("second-image")},
		{Filename: "ccc.webp", Data: []byte("third")},
	}
	restored, err := store.Restore(context.Background(), images)
	if err != nil {
		t.Fatalf("failed to restore: %v", err)
	}
	if restored != 3 {
		t.Fatalf("expected 3 restored, got %d", restored)
	}

	listed, err := store.ListAll(context.Background())
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 images, got %d", len(listed))
	}

	byName := make(map[string]Image, len(listed))
	for _, img := range listed {
		byName[img.Filename] = img
	}
	second, ok := byName["bbb.png"]
	if !ok {
		t.Fatal("expected bbb.png in listing")
	}
	if string(second.Data) != "second-image" {
		t.Errorf("expected second-image, got %q", second.Data)
	}
	if second.Size != int64(len("second-image")) {
		t.Errorf("expected size %d, got %d", len("second-image"), second.Size)
	}
}

func TestRestoreSkipsBadEntriesAndReportsPartialFailure(t *testing.T) {
	store := setupStore(t)

	images := []Image{
		{Filename: "good.jpg", Data: []byte("ok")},
		{Filename: "", Data: []byte("no name")},
		{Filename: "empty.jpg", Data: nil},
		{Filename: "also-good.png", Data: []byte("fine")},
	}

	restored, err := store.Restore(context.Background(), images)
	if restored != 2 {
		t.Errorf("expected 2 restored, got %d", restored)
	}
	if err == nil {
		t.Error("expected partial failure error, got nil")
	}

	listed, listErr := store.ListAll(context.Background())
	if listErr != nil {
		t.Fatalf("failed to list: %v", listErr)
	}
	if len(listed) != 2 {
		t.Errorf("expected 2 stored images, got %d", len(listed))
	}
}

func TestStatsCountsAndSizes(t *testing.T) {
	store := setupStore(t)

	empty, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("failed to read stats: %v", err)
	}
	if empty.Count != 0 || empty.TotalSize != 0 {
		t.Errorf("expected empty stats, got %+v", empty)
	}

	_, err = store.Restore(context.Background(), []Image{
		{Filename: "one.jpg", Data: []byte("12345")},
		{Filename: "two.jpg", Data: []byte("1234567890")},
	})
	if err != nil {
		t.Fatalf("failed to restore: %v", err)
	}

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("failed to read stats: %v", err)
	}
	if stats.Count != 2 {
		t.Errorf("expected count 2, got %d", stats.Count)
	}
	if stats.TotalSize != 15 {
		t.Errorf("expected total size 15, got %d", stats.TotalSize)
	}
}

func TestRestoreOverwritesExistingEntry(t *testing.T) {
	store := setupStore(t)

	if _, err := store.Restore(context.Background(), []Image{{Filename: "a.jpg", Data: []byte("old")}}); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	if _, err := store.Restore(context.Background(), []Image{{Filename: "a.jpg", Data: []byte("new-bytes")}}); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}

	listed, err := store.ListAll(context.Background())
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 image, got %d", len(listed))
	}
	if string(listed[0].Data) != "new-bytes" {
		t.Errorf("expected new-bytes, got %q", listed[0].Data)
	}
}
