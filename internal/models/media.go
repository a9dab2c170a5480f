// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package models

import (
	"time"
)

// Game represents a game known to the system, as fetched from IGDB.
//
// Media rows are shared across accounts: two users tracking the same
// game reference the same row through their library entries. List
// fields (genres, platforms, screenshots, artworks, game modes) are
// stored as JSON text in DuckDB and unmarshaled on read.
//
// Image URL fields feed the cover art cache and the backup archive:
//   - CoverURL: box art shown in the library grid
//   - BannerURL: wide header image
//   - Screenshots/Artworks: gallery images
type Game struct {
	ID          int64     `json:"id"`
	IgdbID      int64     `json:"igdb_id"`
	Name        string    `json:"name"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	BannerURL   *string   `json:"banner_url,omitempty"`
	Summary     *string   `json:"summary,omitempty"`
	ReleaseDate *string   `json:"release_date,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	Developer   *string   `json:"developer,omitempty"`
	Publisher   *string   `json:"publisher,omitempty"`
	Franchise   *string   `json:"franchise,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
	Platforms   []string  `json:"platforms,omitempty"`
	GameModes   []string  `json:"game_modes,omitempty"`
	Screenshots []string  `json:"screenshots,omitempty"`
	Artworks    []string  `json:"artworks,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Movie represents a movie known to the system, as fetched from TMDB.
//
// Rows are shared across accounts like Game rows. CoverURL holds the
// poster and BackdropURL the wide hero image; both feed the cover art
// cache.
type Movie struct {
	ID            int64     `json:"id"`
	TmdbID        int64     `json:"tmdb_id"`
	Title         string    `json:"title"`
	CoverURL      *string   `json:"cover_url,omitempty"`
	BackdropURL   *string   `json:"backdrop_url,omitempty"`
	Overview      *string   `json:"overview,omitempty"`
	ReleaseDate   *string   `json:"release_date,omitempty"`
	Runtime       *int      `json:"runtime,omitempty"`
	VoteAverage   *float64  `json:"vote_average,omitempty"`
	Director      *string   `json:"director,omitempty"`
	TrailerKey    *string   `json:"trailer_key,omitempty"`
	Certification *string   `json:"certification,omitempty"`
	Genres        []string  `json:"genres,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
