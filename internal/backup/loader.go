// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package backup

import (
	"context"
	"fmt"

	"github.com/nelsonportela/BackLogus/internal/models"
)

// DataStore is the read surface the export path needs from the
// relational store. List methods return entries with their shared
// media rows joined in.
type DataStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUserGames(ctx context.Context, userID int64) ([]models.UserGame, error)
	ListUserMovies(ctx context.Context, userID int64) ([]models.UserMovie, error)
	ListCredentials(ctx context.Context, userID int64) ([]models.APICredential, error)
}

// Snapshot holds everything the store knows about one account: the
// profile, both library lists with joined media, and the provider
// credentials. Rows belonging to other accounts never appear here.
type Snapshot struct {
	User        *models.User
	UserGames   []models.UserGame
	UserMovies  []models.UserMovie
	Credentials []models.APICredential
}

// LoadSnapshot reads one account's full data graph. A store error for
// a missing account passes through unwrapped so callers can map it to
// a not-found response.
func LoadSnapshot(ctx context.Context, store DataStore, userID int64) (*Snapshot, error) {
	user, err := store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	games, err := store.ListUserGames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing game entries: %w", err)
	}

	movies, err := store.ListUserMovies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing movie entries: %w", err)
	}

	creds, err := store.ListCredentials(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing credentials: %w", err)
	}

	return &Snapshot{
		User:        user,
		UserGames:   games,
		UserMovies:  movies,
		Credentials: creds,
	}, nil
}
