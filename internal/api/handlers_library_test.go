// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/nelsonportela/BackLogus/internal/models"
)

func addTestGame(t *testing.T, h *Handler, userID int64, igdbID int64, name string) models.UserGame {
	t.Helper()

	rec := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/api/v1/games", jsonBody(t, models.AddGameRequest{
		Game:   models.Game{IgdbID: igdbID, Name: name},
		Status: models.GameStatusWantToPlay,
	}), userID)
	h.AddGame(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("AddGame: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var entry models.UserGame
	if err := json.Unmarshal(env.Data, &entry); err != nil {
		t.Fatalf("Failed to decode entry: %v", err)
	}
	return entry
}

func TestGameLibraryLifecycle(t *testing.T) {
	h := newTestHandler(t)
	user := seedHandlerUser(t, h, "gamer@example.com")

	// Add
	entry := addTestGame(t, h, user.ID, 1942, "Hollow Knight")
	if entry.Status != models.GameStatusWantToPlay {
		t.Errorf("Status = %q", entry.Status)
	}
	if entry.Game == nil || entry.Game.Name != "Hollow Knight" {
		t.Errorf("Joined game missing: %+v", entry.Game)
	}

	// List
	rec := httptest.NewRecorder()
	h.ListGames(rec, authedRequest(http.MethodGet, "/api/v1/games", nil, user.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("ListGames: expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var entries []models.UserGame
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		t.Fatalf("Failed to decode entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	// Update
	status := models.GameStatusCompleted
	rating := 9
	rec = httptest.NewRecorder()
	r := authedRequest(http.MethodPut, fmt.Sprintf("/api/v1/games/%d", entry.ID), jsonBody(t, models.UpdateEntryRequest{
		Status:         &status,
		PersonalRating: &rating,
	}), user.ID)
	r.SetPathValue("id", fmt.Sprintf("%d", entry.ID))
	h.UpdateGame(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("UpdateGame: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	env = decodeEnvelope(t, rec)
	var updated models.UserGame
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("Failed to decode updated entry: %v", err)
	}
	if updated.Status != models.GameStatusCompleted {
		t.Errorf("Updated status = %q", updated.Status)
	}
	if updated.PersonalRating == nil || *updated.PersonalRating != 9 {
		t.Errorf("Updated rating = %v", updated.PersonalRating)
	}

	// Remove
	rec = httptest.NewRecorder()
	r = authedRequest(http.MethodDelete, fmt.Sprintf("/api/v1/games/%d", entry.ID), nil, user.ID)
	r.SetPathValue("id", fmt.Sprintf("%d", entry.ID))
	h.RemoveGame(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("RemoveGame: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ListGames(rec, authedRequest(http.MethodGet, "/api/v1/games", nil, user.ID))
	env = decodeEnvelope(t, rec)
	entries = nil
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		t.Fatalf("Failed to decode entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty library after removal, got %d entries", len(entries))
	}
}

func TestAddGame_Duplicate(t *testing.T) {
	h := newTestHandler(t)
	user := seedHandlerUser(t, h, "dup@example.com")
	addTestGame(t, h, user.ID, 77, "Celeste")

	rec := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/api/v1/games", jsonBody(t, models.AddGameRequest{
		Game:   models.Game{IgdbID: 77, Name: "Celeste"},
		Status: models.GameStatusPlaying,
	}), user.ID)
	h.AddGame(rec, r)

	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for duplicate, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != ErrCodeConflict {
		t.Errorf("Expected %s, got %+v", ErrCodeConflict, env.Error)
	}
}

func TestAddGame_InvalidStatus(t *testing.T) {
	h := newTestHandler(t)
	user := seedHandlerUser(t, h, "badstatus@example.com")

	rec := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/api/v1/games", jsonBody(t, models.AddGameRequest{
		Game:   models.Game{IgdbID: 5, Name: "Bad"},
		Status: "speedrunning",
	}), user.ID)
	h.AddGame(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != ErrCodeValidation {
		t.Errorf("Expected %s, got %+v", ErrCodeValidation, env.Error)
	}
}

func TestUpdateGame_OtherUsersEntry(t *testing.T) {
	h := newTestHandler(t)
	owner := seedHandlerUser(t, h, "owner@example.com")
	intruder := seedHandlerUser(t, h, "intruder@example.com")
	entry := addTestGame(t, h, owner.ID, 88, "Private Game")

	status := models.GameStatusDropped
	rec := httptest.NewRecorder()
	r := authedRequest(http.MethodPut, fmt.Sprintf("/api/v1/games/%d", entry.ID), jsonBody(t, models.UpdateEntryRequest{
		Status: &status,
	}), intruder.ID)
	r.SetPathValue("id", fmt.Sprintf("%d", entry.ID))
	h.UpdateGame(rec, r)

	// Scoping by user makes another user's entry indistinguishable
	// from a missing one.
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for another user's entry, got %d", rec.Code)
	}
}

func TestRemoveGame_InvalidID(t *testing.T) {
	h := newTestHandler(t)
	user := seedHandlerUser(t, h, "badid@example.com")

	rec := httptest.NewRecorder()
	r := authedRequest(http.MethodDelete, "/api/v1/games/abc", nil, user.ID)
	r.SetPathValue("id", "abc")
	h.RemoveGame(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad ID, got %d", rec.Code)
	}
}

func TestGameHandlers_NoClaims(t *testing.T) {
	h := newTestHandler(t)

	endpoints := []struct {
		name string
		call func(w http.ResponseWriter, r *http.Request)
		req  *http.Request
	}{
		{"list", h.ListGames, httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)},
		{"add", h.AddGame, httptest.NewRequest(http.MethodPost, "/api/v1/games", nil)},
	}

	for _, ep := range endpoints {
		t.Run(ep.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ep.call(rec, ep.req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 without claims, got %d", rec.Code)
			}
		})
	}
}

func TestMovieLibraryLifecycle(t *testing.T) {
	h := newTestHandler(t)
	user := seedHandlerUser(t, h, "cinephile@example.com")

	// Add
	rec := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/api/v1/movies", jsonBody(t, models.AddMovieRequest{
		Movie:  models.Movie{TmdbID: 603, Title: "The Matrix"},
		Status: models.MovieStatusWantToWatch,
	}), user.ID)
	h.AddMovie(rec, r)
	if rec.Code != http.StatusCreated {
		t.Fatalf("AddMovie: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	var entry models.UserMovie
	if err := json.Unmarshal(env.Data, &entry); err != nil {
		t.Fatalf("Failed to decode entry: %v", err)
	}
	if entry.Movie == nil || entry.Movie.Title != "The Matrix" {
		t.Errorf("Joined movie missing: %+v", entry.Movie)
	}

	// List
	rec = httptest.NewRecorder()
	h.ListMovies(rec, authedRequest(http.MethodGet, "/api/v1/movies", nil, user.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("ListMovies: expected 200, got %d", rec.Code)
	}
	env = decodeEnvelope(t, rec)
	var entries []models.UserMovie
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		t.Fatalf("Failed to decode entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	// Update
	status := models.MovieStatusWatched
	rec = httptest.NewRecorder()
	r = authedRequest(http.MethodPut, fmt.Sprintf("/api/v1/movies/%d", entry.ID), jsonBody(t, models.UpdateEntryRequest{
		Status: &status,
	}), user.ID)
	r.SetPathValue("id", fmt.Sprintf("%d", entry.ID))
	h.UpdateMovie(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("UpdateMovie: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Remove
	rec = httptest.NewRecorder()
	r = authedRequest(http.MethodDelete, fmt.Sprintf("/api/v1/movies/%d", entry.ID), nil, user.ID)
	r.SetPathValue("id", fmt.Sprintf("%d", entry.ID))
	h.RemoveMovie(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("RemoveMovie: expected 200, got %d", rec.Code)
	}
}

func TestAddMovie_InvalidStatus(t *testing.T) {
	h := newTestHandler(t)
	user := seedHandlerUser(t, h, "moviestatus@example.com")

	rec := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/api/v1/movies", jsonBody(t, models.AddMovieRequest{
		Movie: models.Movie{TmdbID: 1, Title: "X"},
		// Game status on a movie endpoint must be rejected.
		Status: models.GameStatusPlaying,
	}), user.ID)
	h.AddMovie(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for game status on movie, got %d", rec.Code)
	}
}

func TestUpdateMovie_Missing(t *testing.T) {
	h := newTestHandler(t)
	user := seedHandlerUser(t, h, "nomovie@example.com")

	status := models.MovieStatusDropped
	rec := httptest.NewRecorder()
	r := authedRequest(http.MethodPut, "/api/v1/movies/424242", jsonBody(t, models.UpdateEntryRequest{
		Status: &status,
	}), user.ID)
	r.SetPathValue("id", "424242")
	h.UpdateMovie(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing entry, got %d", rec.Code)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	h := newTestHandler(t)
	user := seedHandlerUser(t, h, "profile@example.com")

	// Read initial profile.
	rec := httptest.NewRecorder()
	h.GetProfile(rec, authedRequest(http.MethodGet, "/api/v1/user/profile", nil, user.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("GetProfile: expected 200, got %d", rec.Code)
	}

	// Update a subset of fields.
	first := "Nelson"
	theme := "dark"
	rec = httptest.NewRecorder()
	r := authedRequest(http.MethodPut, "/api/v1/user/profile", jsonBody(t, models.UpdateProfileRequest{
		FirstName:       &first,
		ThemePreference: &theme,
	}), user.ID)
	h.UpdateProfile(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("UpdateProfile: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var updated models.User
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("Failed to decode user: %v", err)
	}
	if updated.FirstName == nil || *updated.FirstName != "Nelson" {
		t.Errorf("FirstName = %v", updated.FirstName)
	}
	if updated.ThemePreference == nil || *updated.ThemePreference != "dark" {
		t.Errorf("ThemePreference = %v", updated.ThemePreference)
	}
}

func TestUpdateProfile_InvalidTheme(t *testing.T) {
	h := newTestHandler(t)
	user := seedHandlerUser(t, h, "theme@example.com")

	theme := "neon"
	rec := httptest.NewRecorder()
	r := authedRequest(http.MethodPut, "/api/v1/user/profile", jsonBody(t, models.UpdateProfileRequest{
		ThemePreference: &theme,
	}), user.ID)
	h.UpdateProfile(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != ErrCodeValidation {
		t.Errorf("Expected %s, got %+v", ErrCodeValidation, env.Error)
	}
}

func TestCredentialLifecycle(t *testing.T) {
	h := newTestHandler(t)
	user := seedHandlerUser(t, h, "creds@example.com")

	// Upsert
	secret := "s3cret"
	rec := httptest.NewRecorder()
	r := authedRequest(http.MethodPut, "/api/v1/user/credentials", jsonBody(t, models.UpsertCredentialRequest{
		Provider:     models.ProviderIGDB,
		ClientID:     "client-1",
		ClientSecret: &secret,
	}), user.ID)
	h.UpsertCredential(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("UpsertCredential: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// List
	rec = httptest.NewRecorder()
	h.ListCredentials(rec, authedRequest(http.MethodGet, "/api/v1/user/credentials", nil, user.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("ListCredentials: expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var creds []models.APICredential
	if err := json.Unmarshal(env.Data, &creds); err != nil {
		t.Fatalf("Failed to decode credentials: %v", err)
	}
	if len(creds) != 1 || creds[0].Provider != models.ProviderIGDB {
		t.Fatalf("Unexpected credentials: %+v", creds)
	}

	// Delete
	rec = httptest.NewRecorder()
	r = authedRequest(http.MethodDelete, "/api/v1/user/credentials/igdb", nil, user.ID)
	r.SetPathValue("provider", "igdb")
	h.DeleteCredential(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("DeleteCredential: expected 200, got %d", rec.Code)
	}

	// Delete again → gone.
	rec = httptest.NewRecorder()
	r = authedRequest(http.MethodDelete, "/api/v1/user/credentials/igdb", nil, user.ID)
	r.SetPathValue("provider", "igdb")
	h.DeleteCredential(rec, r)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for second delete, got %d", rec.Code)
	}
}

func TestDeleteCredential_UnknownProvider(t *testing.T) {
	h := newTestHandler(t)
	user := seedHandlerUser(t, h, "unknownprov@example.com")

	rec := httptest.NewRecorder()
	r := authedRequest(http.MethodDelete, "/api/v1/user/credentials/netflix", nil, user.ID)
	r.SetPathValue("provider", "netflix")
	h.DeleteCredential(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown provider, got %d", rec.Code)
	}
}
