// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package backup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nelsonportela/BackLogus/internal/config"
	"github.com/nelsonportela/BackLogus/internal/database"
	"github.com/nelsonportela/BackLogus/internal/imagecache"
	"github.com/nelsonportela/BackLogus/internal/models"
)

// restoreDBSemaphore serializes DuckDB-backed tests; concurrent CGO
// database creation can hang under CI resource pressure.
var restoreDBSemaphore = make(chan struct{}, 1)

func setupRestoreDB(t *testing.T) *database.DB {
	t.Helper()

	restoreDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-restoreDBSemaphore
	})

	db, err := database.New(&config.DatabaseConfig{
		Path:        ":memory:",
		MemoryLimit: "1GB",
		Threads:     2,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return db
}

// seedAccount creates a user with one game entry and one credential,
// the state a restore is expected to replace.
func seedAccount(t *testing.T, db *database.DB) *models.User {
	t.Helper()
	ctx := context.Background()

	user, err := db.CreateUser(ctx, "restore@example.com", "$2a$12$fakehashfortests", nil, nil)
	if err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	_, err = db.AddGameToLibrary(ctx, user.ID, &models.AddGameRequest{
		Game:   models.Game{IgdbID: 111, Name: "Old Game"},
		Status: models.GameStatusCompleted,
	})
	if err != nil {
		t.Fatalf("Failed to seed game entry: %v", err)
	}
	_, err = db.UpsertCredential(ctx, user.ID, &models.UpsertCredentialRequest{
		Provider: models.ProviderIGDB,
		ClientID: "old-client",
	})
	if err != nil {
		t.Fatalf("Failed to seed credential: %v", err)
	}
	return user
}

// testParsedArchive returns an archive for a different account (ID 42)
// holding two games, one movie, three game entries of which one
// references a game absent from the archive, one movie entry, one
// credential, and one cached image.
func testParsedArchive() *ParsedArchive {
	doc := &Document{
		Metadata: Metadata{
			Version:         documentVersion,
			Created:         time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC),
			TotalGames:      2,
			TotalMovies:     1,
			UserGamesCount:  3,
			UserMoviesCount: 1,
			TotalImages:     1,
		},
		User: UserProfile{
			ID:              42,
			Email:           "other@example.com",
			FirstName:       strPtr("Ana"),
			Timezone:        strPtr("Europe/Lisbon"),
			ThemePreference: strPtr("dark"),
		},
		Games: []GameRecord{
			{ID: 101, IgdbID: 5001, Name: "Hades"},
			{ID: 102, IgdbID: 5002, Name: "Celeste"},
		},
		Movies: []MovieRecord{
			{ID: 201, TmdbID: 7001, Title: "Arrival"},
		},
		UserGames: []UserGameRecord{
			{ID: 301, UserID: 42, GameID: 101, Status: models.GameStatusPlaying, PersonalRating: intPtr(9)},
			{ID: 302, UserID: 42, GameID: 999, Status: models.GameStatusCompleted},
			{ID: 303, UserID: 42, GameID: 102, Status: models.GameStatusWantToPlay},
		},
		UserMovies: []UserMovieRecord{
			{ID: 401, UserID: 42, MovieID: 201, Status: models.MovieStatusWatched},
		},
		APICredentials: []CredentialRecord{
			{ID: 501, UserID: 42, Provider: models.ProviderTMDB, ClientID: "new-client", AccessToken: strPtr("tok")},
		},
	}
	return &ParsedArchive{
		Metadata:    &doc.Metadata,
		User:        &doc.User,
		Document:    doc,
		Credentials: doc.APICredentials,
		Images: []imagecache.Image{
			{Filename: "abc123.jpg", Data: []byte("jpeg bytes"), Size: 10},
		},
	}
}

func TestRestoreReplacesAccountData(t *testing.T) {
	db := setupRestoreDB(t)
	ctx := context.Background()
	user := seedAccount(t, db)
	cache := newMockCache()

	report, err := NewRestorer(db, cache, nil).Restore(ctx, user.ID, testParsedArchive())
	if err != nil {
		t.Fatalf("expected restore to succeed, got %v", err)
	}

	if report.Media != 3 {
		t.Errorf("expected 3 media rows, got %d", report.Media)
	}
	// The entry referencing archived game 999 is dropped.
	if report.Entries != 3 {
		t.Errorf("expected 3 entries, got %d", report.Entries)
	}
	if report.Credentials != 1 {
		t.Errorf("expected 1 credential, got %d", report.Credentials)
	}
	if report.Images != 1 {
		t.Errorf("expected 1 image, got %d", report.Images)
	}

	games, err := db.ListUserGames(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to list game entries: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 game entries after restore, got %d", len(games))
	}
	for _, entry := range games {
		if entry.UserID != user.ID {
			t.Errorf("expected entry owned by %d, got %d", user.ID, entry.UserID)
		}
		if entry.Game == nil {
			t.Fatal("expected joined media row on entry")
		}
		if entry.GameID != entry.Game.ID {
			t.Errorf("expected entry to reference the new row %d, got %d", entry.Game.ID, entry.GameID)
		}
		if entry.Game.Name == "Old Game" {
			t.Error("expected the seeded entry to be gone")
		}
		if entry.Game.IgdbID == 5001 {
			if entry.Status != models.GameStatusPlaying || entry.PersonalRating == nil || *entry.PersonalRating != 9 {
				t.Errorf("expected Hades entry playing with rating 9, got %s %v", entry.Status, entry.PersonalRating)
			}
		}
	}

	movies, err := db.ListUserMovies(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to list movie entries: %v", err)
	}
	if len(movies) != 1 || movies[0].Movie == nil || movies[0].Movie.Title != "Arrival" {
		t.Fatalf("expected the Arrival entry, got %v", movies)
	}

	creds, err := db.ListCredentials(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to list credentials: %v", err)
	}
	if len(creds) != 1 || creds[0].Provider != models.ProviderTMDB || creds[0].ClientID != "new-client" {
		t.Fatalf("expected only the archived tmdb credential, got %v", creds)
	}

	profile, err := db.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if profile.Email != "restore@example.com" {
		t.Errorf("expected email to stay restore@example.com, got %q", profile.Email)
	}
	if profile.FirstName == nil || *profile.FirstName != "Ana" {
		t.Errorf("expected first name Ana from the archive, got %v", profile.FirstName)
	}
	if profile.ThemePreference == nil || *profile.ThemePreference != "dark" {
		t.Errorf("expected theme dark from the archive, got %v", profile.ThemePreference)
	}

	if !cache.has("abc123.jpg") {
		t.Error("expected the archived image back in the cache")
	}
}

// A failure inside the transaction must leave the account exactly as
// it was: prior rows intact, archive rows absent.
func TestRestoreIsAtomic(t *testing.T) {
	db := setupRestoreDB(t)
	ctx := context.Background()
	user := seedAccount(t, db)
	cache := newMockCache()

	archive := testParsedArchive()
	// A second credential for the same provider violates the unique
	// constraint partway through the transaction.
	archive.Document.APICredentials = append(archive.Document.APICredentials,
		CredentialRecord{ID: 502, UserID: 42, Provider: models.ProviderTMDB, ClientID: "dup"})

	_, err := NewRestorer(db, cache, nil).Restore(ctx, user.ID, archive)
	if !errors.Is(err, ErrRestoreFailed) {
		t.Fatalf("expected ErrRestoreFailed, got %v", err)
	}

	games, err := db.ListUserGames(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to list game entries: %v", err)
	}
	if len(games) != 1 || games[0].Game == nil || games[0].Game.Name != "Old Game" {
		t.Fatalf("expected the seeded entry to survive the rollback, got %v", games)
	}

	creds, err := db.ListCredentials(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to list credentials: %v", err)
	}
	if len(creds) != 1 || creds[0].Provider != models.ProviderIGDB || creds[0].ClientID != "old-client" {
		t.Fatalf("expected the seeded credential to survive the rollback, got %v", creds)
	}

	if _, err := db.GetGameByIgdbID(ctx, 5001); !errors.Is(err, database.ErrGameNotFound) {
		t.Errorf("expected no archive media after rollback, got %v", err)
	}

	profile, err := db.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if profile.FirstName != nil {
		t.Errorf("expected profile overwrite to roll back, got first name %v", *profile.FirstName)
	}

	if len(cache.stored) != 0 {
		t.Errorf("expected no cache writes after a failed restore, got %d", len(cache.stored))
	}
}

func TestRestoreRejectsArchiveWithoutDocument(t *testing.T) {
	db := setupRestoreDB(t)
	ctx := context.Background()
	user := seedAccount(t, db)

	_, err := NewRestorer(db, newMockCache(), nil).Restore(ctx, user.ID, &ParsedArchive{})
	if !errors.Is(err, ErrInvalidArchive) {
		t.Fatalf("expected ErrInvalidArchive, got %v", err)
	}

	games, err := db.ListUserGames(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to list game entries: %v", err)
	}
	if len(games) != 1 {
		t.Errorf("expected the library untouched, got %d entries", len(games))
	}
}

func TestRestoreMissingTargetAccount(t *testing.T) {
	db := setupRestoreDB(t)

	_, err := NewRestorer(db, newMockCache(), nil).Restore(context.Background(), 9999, testParsedArchive())
	if !errors.Is(err, ErrRestoreFailed) {
		t.Errorf("expected ErrRestoreFailed, got %v", err)
	}
	if !errors.Is(err, database.ErrUserNotFound) {
		t.Errorf("expected the not-found cause to stay visible, got %v", err)
	}
}

// Image cache trouble after the commit is reported in the count, never
// as an error: the relational restore already succeeded.
func TestRestoreImageFailuresAreNotFatal(t *testing.T) {
	db := setupRestoreDB(t)
	ctx := context.Background()
	user := seedAccount(t, db)

	cache := newMockCache()
	cache.fail["abc123.jpg"] = true

	report, err := NewRestorer(db, cache, nil).Restore(ctx, user.ID, testParsedArchive())
	if err != nil {
		t.Fatalf("expected restore to succeed despite image failures, got %v", err)
	}
	if report.Images != 0 {
		t.Errorf("expected 0 restored images, got %d", report.Images)
	}
	if report.Entries != 3 {
		t.Errorf("expected the relational restore to complete, got %d entries", report.Entries)
	}
}
