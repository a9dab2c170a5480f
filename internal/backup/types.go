// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package backup

import (
	"time"

	"github.com/nelsonportela/BackLogus/internal/models"
)

// Archive layout constants. Entry names inside the zip container are
// fixed; the parser classifies entries by these names and ignores
// anything it does not recognize.
const (
	documentVersion  = "1.0"
	documentFilename = "data.json"
	manifestFilename = "manifest.txt"
	imagesPrefix     = "images/"
)

// Document is the root of the archive's data.json entry. Key names are
// camelCase for compatibility with archives produced by earlier
// releases, so they differ from the snake_case the live API uses.
//
// Numeric fields marshal as exact integer digits. Readers that decode
// JSON numbers into doubles lose precision above 2^53; identifiers
// here are sequence-assigned and stay far below that in practice.
type Document struct {
	Metadata       Metadata           `json:"metadata"`
	User           UserProfile        `json:"user"`
	Games          []GameRecord       `json:"games"`
	Movies         []MovieRecord      `json:"movies"`
	UserGames      []UserGameRecord   `json:"userGames"`
	UserMovies     []UserMovieRecord  `json:"userMovies"`
	APICredentials []CredentialRecord `json:"apiCredentials"`
}

// Metadata summarizes the archive contents. TotalImages counts every
// image packed into the archive, including cache entries that belong
// to media outside this user's library.
type Metadata struct {
	Version         string    `json:"version"`
	Created         time.Time `json:"created"`
	TotalGames      int       `json:"totalGames"`
	TotalMovies     int       `json:"totalMovies"`
	UserGamesCount  int       `json:"userGamesCount"`
	UserMoviesCount int       `json:"userMoviesCount"`
	TotalImages     int       `json:"totalImages"`
}

// UserProfile is the archived account profile. The password hash is
// deliberately absent: a restore overwrites profile scalars but never
// touches the target account's login credentials.
type UserProfile struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	FirstName       *string   `json:"firstName,omitempty"`
	LastName        *string   `json:"lastName,omitempty"`
	AvatarURL       *string   `json:"avatarUrl,omitempty"`
	Timezone        *string   `json:"timezone,omitempty"`
	ThemePreference *string   `json:"themePreference,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// GameRecord is an archived shared game row.
type GameRecord struct {
	ID          int64     `json:"id"`
	IgdbID      int64     `json:"igdbId"`
	Name        string    `json:"name"`
	CoverURL    *string   `json:"coverUrl,omitempty"`
	BannerURL   *string   `json:"bannerUrl,omitempty"`
	Summary     *string   `json:"summary,omitempty"`
	ReleaseDate *string   `json:"releaseDate,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	Developer   *string   `json:"developer,omitempty"`
	Publisher   *string   `json:"publisher,omitempty"`
	Franchise   *string   `json:"franchise,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
	Platforms   []string  `json:"platforms,omitempty"`
	GameModes   []string  `json:"gameModes,omitempty"`
	Screenshots []string  `json:"screenshots,omitempty"`
	Artworks    []string  `json:"artworks,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MovieRecord is an archived shared movie row.
type MovieRecord struct {
	ID            int64     `json:"id"`
	TmdbID        int64     `json:"tmdbId"`
	Title         string    `json:"title"`
	CoverURL      *string   `json:"coverUrl,omitempty"`
	BackdropURL   *string   `json:"backdropUrl,omitempty"`
	Overview      *string   `json:"overview,omitempty"`
	ReleaseDate   *string   `json:"releaseDate,omitempty"`
	Runtime       *int      `json:"runtime,omitempty"`
	VoteAverage   *float64  `json:"voteAverage,omitempty"`
	Director      *string   `json:"director,omitempty"`
	TrailerKey    *string   `json:"trailerKey,omitempty"`
	Certification *string   `json:"certification,omitempty"`
	Genres        []string  `json:"genres,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UserGameRecord is an archived game library entry. GameID references
// the games list by archived ID; restore translates it to the newly
// inserted row's ID.
type UserGameRecord struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	GameID         int64     `json:"gameId"`
	Status         string    `json:"status"`
	PersonalRating *int      `json:"personalRating,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	Platform       *string   `json:"platform,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserMovieRecord is an archived movie library entry.
type UserMovieRecord struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	MovieID        int64     `json:"movieId"`
	Status         string    `json:"status"`
	PersonalRating *int      `json:"personalRating,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CredentialRecord is an archived provider credential, secrets
// included. Archives therefore carry live API keys; the export
// endpoint serves them only to the authenticated owner.
type CredentialRecord struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Provider     string    `json:"provider"`
	ClientID     string    `json:"clientId"`
	ClientSecret *string   `json:"clientSecret,omitempty"`
	AccessToken  *string   `json:"accessToken,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewDocument assembles the archive document from a loaded snapshot.
// Shared media rows are lifted out of the joined entries and
// deduplicated by ID, so a row referenced by several entries appears
// once. TotalImages is stamped later by the builder, after the image
// collection stage knows the real cache size.
func NewDocument(snap *Snapshot) *Document {
	doc := &Document{
		Metadata: Metadata{
			Version:         documentVersion,
			Created:         time.Now().UTC(),
			UserGamesCount:  len(snap.UserGames),
			UserMoviesCount: len(snap.UserMovies),
		},
		User:           newUserProfile(snap.User),
		Games:          make([]GameRecord, 0, len(snap.UserGames)),
		Movies:         make([]MovieRecord, 0, len(snap.UserMovies)),
		UserGames:      make([]UserGameRecord, 0, len(snap.UserGames)),
		UserMovies:     make([]UserMovieRecord, 0, len(snap.UserMovies)),
		APICredentials: make([]CredentialRecord, 0, len(snap.Credentials)),
	}

	seenGames := make(map[int64]bool)
	for i := range snap.UserGames {
		entry := &snap.UserGames[i]
		if entry.Game != nil && !seenGames[entry.Game.ID] {
			seenGames[entry.Game.ID] = true
			doc.Games = append(doc.Games, newGameRecord(entry.Game))
		}
		doc.UserGames = append(doc.UserGames, newUserGameRecord(entry))
	}

	seenMovies := make(map[int64]bool)
	for i := range snap.UserMovies {
		entry := &snap.UserMovies[i]
		if entry.Movie != nil && !seenMovies[entry.Movie.ID] {
			seenMovies[entry.Movie.ID] = true
			doc.Movies = append(doc.Movies, newMovieRecord(entry.Movie))
		}
		doc.UserMovies = append(doc.UserMovies, newUserMovieRecord(entry))
	}

	for i := range snap.Credentials {
		doc.APICredentials = append(doc.APICredentials, newCredentialRecord(&snap.Credentials[i]))
	}

	doc.Metadata.TotalGames = len(doc.Games)
	doc.Metadata.TotalMovies = len(doc.Movies)
	return doc
}

func newUserProfile(u *models.User) UserProfile {
	return UserProfile{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		AvatarURL:       u.AvatarURL,
		Timezone:        u.Timezone,
		ThemePreference: u.ThemePreference,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func newGameRecord(g *models.Game) GameRecord {
	return GameRecord{
		ID:          g.ID,
		IgdbID:      g.IgdbID,
		Name:        g.Name,
		CoverURL:    g.CoverURL,
		BannerURL:   g.BannerURL,
		Summary:     g.Summary,
		ReleaseDate: g.ReleaseDate,
		Rating:      g.Rating,
		Developer:   g.Developer,
		Publisher:   g.Publisher,
		Franchise:   g.Franchise,
		Genres:      g.Genres,
		Platforms:   g.Platforms,
		GameModes:   g.GameModes,
		Screenshots: g.Screenshots,
		Artworks:    g.Artworks,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func newMovieRecord(m *models.Movie) MovieRecord {
	return MovieRecord{
		ID:            m.ID,
		TmdbID:        m.TmdbID,
		Title:         m.Title,
		CoverURL:      m.CoverURL,
		BackdropURL:   m.BackdropURL,
		Overview:      m.Overview,
		ReleaseDate:   m.ReleaseDate,
		Runtime:       m.Runtime,
		VoteAverage:   m.VoteAverage,
		Director:      m.Director,
		TrailerKey:    m.TrailerKey,
		Certification: m.Certification,
		Genres:        m.Genres,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func newUserGameRecord(e *models.UserGame) UserGameRecord {
	return UserGameRecord{
		ID:             e.ID,
		UserID:         e.UserID,
		GameID:         e.GameID,
		Status:         e.Status,
		PersonalRating: e.PersonalRating,
		Notes:          e.Notes,
		Platform:       e.Platform,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func newUserMovieRecord(e *models.UserMovie) UserMovieRecord {
	return UserMovieRecord{
		ID:             e.ID,
		UserID:         e.UserID,
		MovieID:        e.MovieID,
		Status:         e.Status,
		PersonalRating: e.PersonalRating,
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func newCredentialRecord(c *models.APICredential) CredentialRecord {
	return CredentialRecord{
		ID:           c.ID,
		UserID:       c.UserID,
		Provider:     c.Provider,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		AccessToken:  c.AccessToken,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// The model() converters run during restore and map archive records
// back onto live model structs for insertion. Archived IDs ride along
// so the restorer can build its old-to-new translation tables; the
// insert layer never writes them.

func (p *UserProfile) model() *models.User {
	return &models.User{
		ID:              p.ID,
		Email:           p.Email,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		AvatarURL:       p.AvatarURL,
		Timezone:        p.Timezone,
		ThemePreference: p.ThemePreference,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (r *GameRecord) model() *models.Game {
	return &models.Game{
		ID:          r.ID,
		IgdbID:      r.IgdbID,
		Name:        r.Name,
		CoverURL:    r.CoverURL,
		BannerURL:   r.BannerURL,
		Summary:     r.Summary,
		ReleaseDate: r.ReleaseDate,
		Rating:      r.Rating,
		Developer:   r.Developer,
		Publisher:   r.Publisher,
		Franchise:   r.Franchise,
		Genres:      r.Genres,
		Platforms:   r.Platforms,
		GameModes:   r.GameModes,
		Screenshots: r.Screenshots,
		Artworks:    r.Artworks,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r *MovieRecord) model() *models.Movie {
	return &models.Movie{
		ID:            r.ID,
		TmdbID:        r.TmdbID,
		Title:         r.Title,
		CoverURL:      r.CoverURL,
		BackdropURL:   r.BackdropURL,
		Overview:      r.Overview,
		ReleaseDate:   r.ReleaseDate,
		Runtime:       r.Runtime,
		VoteAverage:   r.VoteAverage,
		Director:      r.Director,
		TrailerKey:    r.TrailerKey,
		Certification: r.Certification,
		Genres:        r.Genres,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r *UserGameRecord) model() *models.UserGame {
	return &models.UserGame{
		ID:             r.ID,
		UserID:         r.UserID,
		GameID:         r.GameID,
		Status:         r.Status,
		PersonalRating: r.PersonalRating,
		Notes:          r.Notes,
		Platform:       r.Platform,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r *UserMovieRecord) model() *models.UserMovie {
	return &models.UserMovie{
		ID:             r.ID,
		UserID:         r.UserID,
		MovieID:        r.MovieID,
		Status:         r.Status,
		PersonalRating: r.PersonalRating,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r *CredentialRecord) model() *models.APICredential {
	return &models.APICredential{
		ID:           r.ID,
		UserID:       r.UserID,
		Provider:     r.Provider,
		ClientID:     r.ClientID,
		ClientSecret: r.ClientSecret,
		AccessToken:  r.AccessToken,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
