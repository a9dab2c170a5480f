// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package models

import (
	"time"
)

// Game library entry statuses.
const (
	GameStatusWantToPlay = "want_to_play"
	GameStatusPlaying    = "playing"
	GameStatusCompleted  = "completed"
	GameStatusDropped    = "dropped"
)

// Movie library entry statuses.
const (
	MovieStatusWantToWatch = "want_to_watch"
	MovieStatusWatching    = "watching"
	MovieStatusWatched     = "watched"
	MovieStatusDropped     = "dropped"
)

var validGameStatuses = map[string]bool{
	GameStatusWantToPlay: true,
	GameStatusPlaying:    true,
	GameStatusCompleted:  true,
	GameStatusDropped:    true,
}

var validMovieStatuses = map[string]bool{
	MovieStatusWantToWatch: true,
	MovieStatusWatching:    true,
	MovieStatusWatched:     true,
	MovieStatusDropped:     true,
}

// IsValidGameStatus reports whether s is a known game entry status.
func IsValidGameStatus(s string) bool { return validGameStatuses[s] }

// IsValidMovieStatus reports whether s is a known movie entry status.
func IsValidMovieStatus(s string) bool { return validMovieStatuses[s] }

// UserGame represents one account's library entry for a game.
//
// The (UserID, GameID) pair is unique: a game appears at most once in
// a user's library. The Game field is populated on reads that join the
// media row and omitted on writes.
type UserGame struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	GameID         int64     `json:"game_id"`
	Status         string    `json:"status"`
	PersonalRating *int      `json:"personal_rating,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	Platform       *string   `json:"platform,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Game *Game `json:"game,omitempty"`
}

// UserMovie represents one account's library entry for a movie.
//
// The (UserID, MovieID) pair is unique. The Movie field is populated
// on reads that join the media row and omitted on writes.
type UserMovie struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	MovieID        int64     `json:"movie_id"`
	Status         string    `json:"status"`
	PersonalRating *int      `json:"personal_rating,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Movie *Movie `json:"movie,omitempty"`
}

// AddGameRequest represents a request to add a game to the caller's
// library. The media fields create or reuse the shared Game row; the
// entry fields seed the library entry.
type AddGameRequest struct {
	Game           Game    `json:"game" validate:"required"`
	Status         string  `json:"status" validate:"required"`
	PersonalRating *int    `json:"personal_rating,omitempty" validate:"omitempty,min=1,max=10"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Platform       *string `json:"platform,omitempty" validate:"omitempty,max=100"`
}

// AddMovieRequest represents a request to add a movie to the caller's
// library.
type AddMovieRequest struct {
	Movie          Movie   `json:"movie" validate:"required"`
	Status         string  `json:"status" validate:"required"`
	PersonalRating *int    `json:"personal_rating,omitempty" validate:"omitempty,min=1,max=10"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// UpdateEntryRequest represents a partial update to a library entry.
// Nil fields are left unchanged.
type UpdateEntryRequest struct {
	Status         *string `json:"status,omitempty"`
	PersonalRating *int    `json:"personal_rating,omitempty" validate:"omitempty,min=1,max=10"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Platform       *string `json:"platform,omitempty" validate:"omitempty,max=100"`
}
