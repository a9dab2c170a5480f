// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package backup

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func archiveBytes(t *testing.T, build func(zw *zip.Writer)) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	build(zw)
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finalize test archive: %v", err)
	}
	return buf.Bytes()
}

func addEntry(t *testing.T, zw *zip.Writer, name string, data []byte) {
	t.Helper()
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("failed to create entry %s: %v", name, err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("failed to write entry %s: %v", name, err)
	}
}

func validDocumentJSON(t *testing.T) []byte {
	t.Helper()
	doc := Document{
		Metadata: Metadata{
			Version:     documentVersion,
			Created:     time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC),
			TotalGames:  1,
			TotalImages: 2,
		},
		User:  UserProfile{ID: 7, Email: "ana@example.com"},
		Games: []GameRecord{{ID: 1, IgdbID: 5001, Name: "Hades"}},
		UserGames: []UserGameRecord{
			{ID: 10, UserID: 7, GameID: 1, Status: "playing"},
		},
	}
	data, err := json.Marshal(&doc)
	if err != nil {
		t.Fatalf("failed to marshal test document: %v", err)
	}
	return data
}

func parseBytes(t *testing.T, data []byte) (*ParsedArchive, error) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("test archive is not a zip: %v", err)
	}
	return Parse(zr)
}

func TestParseValidArchive(t *testing.T) {
	data := archiveBytes(t, func(zw *zip.Writer) {
		addEntry(t, zw, "data.json", validDocumentJSON(t))
		addEntry(t, zw, "manifest.txt", []byte("BackLogus backup archive\n"))
		addEntry(t, zw, "images/abc.jpg", []byte("jpeg bytes"))
		addEntry(t, zw, "images/def.png", []byte("png"))
	})

	parsed, err := parseBytes(t, data)
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}

	if parsed.Metadata.Version != documentVersion {
		t.Errorf("expected version %q, got %q", documentVersion, parsed.Metadata.Version)
	}
	if parsed.User.ID != 7 || parsed.User.Email != "ana@example.com" {
		t.Errorf("expected user 7 ana@example.com, got %d %q", parsed.User.ID, parsed.User.Email)
	}
	if len(parsed.Document.UserGames) != 1 {
		t.Errorf("expected 1 game entry, got %d", len(parsed.Document.UserGames))
	}
	if len(parsed.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(parsed.Images))
	}
	for _, img := range parsed.Images {
		if img.Size != int64(len(img.Data)) {
			t.Errorf("expected size %d for %s, got %d", len(img.Data), img.Filename, img.Size)
		}
	}
	if parsed.Images[0].Filename != "abc.jpg" || parsed.Images[1].Filename != "def.png" {
		t.Errorf("unexpected image filenames: %q, %q",
			parsed.Images[0].Filename, parsed.Images[1].Filename)
	}
}

func TestParseMissingDocument(t *testing.T) {
	data := archiveBytes(t, func(zw *zip.Writer) {
		addEntry(t, zw, "manifest.txt", []byte("no data here"))
		addEntry(t, zw, "images/abc.jpg", []byte("jpeg bytes"))
	})

	_, err := parseBytes(t, data)
	if !errors.Is(err, ErrInvalidArchive) {
		t.Fatalf("expected ErrInvalidArchive, got %v", err)
	}
	if !strings.Contains(err.Error(), "data.json") {
		t.Errorf("expected the error to name data.json, got %q", err.Error())
	}
}

func TestParseMalformedDocument(t *testing.T) {
	data := archiveBytes(t, func(zw *zip.Writer) {
		addEntry(t, zw, "data.json", []byte(`{"metadata": {`))
	})

	_, err := parseBytes(t, data)
	if !errors.Is(err, ErrInvalidArchive) {
		t.Fatalf("expected ErrInvalidArchive, got %v", err)
	}
	if !strings.Contains(err.Error(), "data.json") {
		t.Errorf("expected the error to name the bad entry, got %q", err.Error())
	}
}

func TestParseDocumentMissingSections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no metadata", `{"user":{"id":7,"email":"ana@example.com"}}`},
		{"null metadata", `{"metadata":null,"user":{"id":7,"email":"ana@example.com"}}`},
		{"no user", `{"metadata":{"version":"1.0"}}`},
		{"null user", `{"metadata":{"version":"1.0"},"user":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := archiveBytes(t, func(zw *zip.Writer) {
				addEntry(t, zw, "data.json", []byte(tt.doc))
			})
			if _, err := parseBytes(t, data); !errors.Is(err, ErrInvalidArchive) {
				t.Errorf("expected ErrInvalidArchive, got %v", err)
			}
		})
	}
}

func TestParseSkipsDirectoriesAndUnknownEntries(t *testing.T) {
	data := archiveBytes(t, func(zw *zip.Writer) {
		addEntry(t, zw, "data.json", validDocumentJSON(t))
		if _, err := zw.Create("images/"); err != nil {
			t.Fatalf("failed to create directory entry: %v", err)
		}
		addEntry(t, zw, "images/abc.jpg", []byte("jpeg bytes"))
		addEntry(t, zw, "notes/readme.txt", []byte("unrelated"))
	})

	parsed, err := parseBytes(t, data)
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if len(parsed.Images) != 1 || parsed.Images[0].Filename != "abc.jpg" {
		t.Errorf("expected only abc.jpg, got %v", parsed.Images)
	}
}

// An entry name with directories under images/ keeps only its base
// name, so archive contents cannot address paths in the cache.
func TestParseFlattensNestedImagePaths(t *testing.T) {
	data := archiveBytes(t, func(zw *zip.Writer) {
		addEntry(t, zw, "data.json", validDocumentJSON(t))
		addEntry(t, zw, "images/deep/nested/cover.jpg", []byte("jpeg bytes"))
	})

	parsed, err := parseBytes(t, data)
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if len(parsed.Images) != 1 || parsed.Images[0].Filename != "cover.jpg" {
		t.Errorf("expected flattened name cover.jpg, got %v", parsed.Images)
	}
}

func TestParseFileCorruptContainer(t *testing.T) {
	name := filepath.Join(t.TempDir(), "broken.zip")
	if err := os.WriteFile(name, []byte("this is not a zip archive"), 0o600); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	_, err := ParseFile(name)
	if !errors.Is(err, ErrCorruptArchive) {
		t.Errorf("expected ErrCorruptArchive, got %v", err)
	}
}

func TestParseFileValidArchive(t *testing.T) {
	data := archiveBytes(t, func(zw *zip.Writer) {
		addEntry(t, zw, "data.json", validDocumentJSON(t))
	})
	name := filepath.Join(t.TempDir(), "backup.zip")
	if err := os.WriteFile(name, data, 0o600); err != nil {
		t.Fatalf("failed to write archive: %v", err)
	}

	parsed, err := ParseFile(name)
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if parsed.User.Email != "ana@example.com" {
		t.Errorf("expected ana@example.com, got %q", parsed.User.Email)
	}
}
