// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nelsonportela/BackLogus/internal/metrics"
	"github.com/nelsonportela/BackLogus/internal/models"
)

// GetOrCreateMovie returns the shared movie row for req's TMDB ID,
// inserting it first when the movie is not yet known.
func (db *DB) GetOrCreateMovie(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	existing, err := db.GetMovieByTmdbID(ctx, movie.TmdbID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrMovieNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	query := `INSERT INTO movies (
		tmdb_id, title, cover_url, backdrop_url, overview, release_date,
		runtime, vote_average, director, trailer_key, certification, genres,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

	var id int64
	err = db.conn.QueryRowContext(ctx, query,
		movie.TmdbID, movie.Title, nullableString(movie.CoverURL), nullableString(movie.BackdropURL),
		nullableString(movie.Overview), nullableString(movie.ReleaseDate),
		nullableInt(movie.Runtime), nullableFloat(movie.VoteAverage), nullableString(movie.Director),
		nullableString(movie.TrailerKey), nullableString(movie.Certification), listToJSON(movie.Genres),
		now, now,
	).Scan(&id)
	if err != nil {
		if isUniqueConstraintError(err) {
			return db.GetMovieByTmdbID(ctx, movie.TmdbID)
		}
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	return db.GetMovieByID(ctx, id)
}

// GetMovieByID retrieves a movie by its identifier.
func (db *DB) GetMovieByID(ctx context.Context, id int64) (*models.Movie, error) {
	query := movieSelect + ` WHERE id = ?`
	return scanMovie(db.conn.QueryRowContext(ctx, query, id))
}

// GetMovieByTmdbID retrieves a movie by its TMDB identifier.
func (db *DB) GetMovieByTmdbID(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	query := movieSelect + ` WHERE tmdb_id = ?`
	return scanMovie(db.conn.QueryRowContext(ctx, query, tmdbID))
}

// AddMovieToLibrary creates or reuses the shared movie row and adds a
// library entry for the user. Returns ErrEntryExists when the movie is
// already in the user's library.
func (db *DB) AddMovieToLibrary(ctx context.Context, userID int64, req *models.AddMovieRequest) (*models.UserMovie, error) {
	movie, err := db.GetOrCreateMovie(ctx, &req.Movie)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	query := `INSERT INTO user_movies (
		user_id, movie_id, status, personal_rating, notes, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`

	var id int64
	err = db.conn.QueryRowContext(ctx, query,
		userID, movie.ID, req.Status, nullableInt(req.PersonalRating),
		nullableString(req.Notes), now, now,
	).Scan(&id)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrEntryExists
		}
		return nil, fmt.Errorf("failed to add movie to library: %w", err)
	}

	return db.GetUserMovie(ctx, userID, id)
}

// GetUserMovie retrieves one of the user's movie library entries with
// the joined movie row.
func (db *DB) GetUserMovie(ctx context.Context, userID, entryID int64) (*models.UserMovie, error) {
	query := userMovieSelect + ` WHERE um.id = ? AND um.user_id = ?`

	row := db.conn.QueryRowContext(ctx, query, entryID, userID)
	entry, err := scanUserMovie(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// ListUserMovies retrieves all of the user's movie library entries
// with joined movie rows, newest first.
func (db *DB) ListUserMovies(ctx context.Context, userID int64) ([]models.UserMovie, error) {
	query := userMovieSelect + ` WHERE um.user_id = ? ORDER BY um.created_at DESC, um.id DESC`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, userID)
	metrics.RecordDBQuery("SELECT", "user_movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list user movies: %w", err)
	}
	defer closeWithLog(rows, "user movies rows")

	entries := make([]models.UserMovie, 0)
	for rows.Next() {
		entry, err := scanUserMovie(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user movies: %w", err)
	}

	return entries, nil
}

// UpdateUserMovie applies a partial update to one of the user's movie
// library entries. Nil request fields are left unchanged.
func (db *DB) UpdateUserMovie(ctx context.Context, userID, entryID int64, req *models.UpdateEntryRequest) (*models.UserMovie, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if req.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *req.Status)
	}
	if req.PersonalRating != nil {
		sets = append(sets, "personal_rating = ?")
		args = append(args, *req.PersonalRating)
	}
	if req.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *req.Notes)
	}

	query := `UPDATE user_movies SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND user_id = ?`
	args = append(args, entryID, userID)

	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update movie entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrEntryNotFound
	}

	return db.GetUserMovie(ctx, userID, entryID)
}

// RemoveUserMovie deletes one of the user's movie library entries.
func (db *DB) RemoveUserMovie(ctx context.Context, userID, entryID int64) error {
	query := `DELETE FROM user_movies WHERE id = ? AND user_id = ?`
	result, err := db.conn.ExecContext(ctx, query, entryID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove movie entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

const movieSelect = `SELECT
	id, tmdb_id, title, cover_url, backdrop_url, overview, release_date,
	runtime, vote_average, director, trailer_key, certification, genres,
	created_at, updated_at
FROM movies`

const userMovieSelect = `SELECT
	um.id, um.user_id, um.movie_id, um.status, um.personal_rating, um.notes,
	um.created_at, um.updated_at,
	m.id, m.tmdb_id, m.title, m.cover_url, m.backdrop_url, m.overview, m.release_date,
	m.runtime, m.vote_average, m.director, m.trailer_key, m.certification, m.genres,
	m.created_at, m.updated_at
FROM user_movies um
JOIN movies m ON m.id = um.movie_id`

// scanMovie scans a single row into a Movie struct.
func scanMovie(row *sql.Row) (*models.Movie, error) {
	var movie models.Movie
	var coverURL, backdropURL, overview, releaseDate sql.NullString
	var director, trailerKey, certification sql.NullString
	var runtime sql.NullInt32
	var voteAverage sql.NullFloat64
	var genres sql.NullString

	err := row.Scan(
		&movie.ID, &movie.TmdbID, &movie.Title, &coverURL, &backdropURL, &overview, &releaseDate,
		&runtime, &voteAverage, &director, &trailerKey, &certification, &genres,
		&movie.CreatedAt, &movie.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}

	movie.CoverURL = stringPtr(coverURL)
	movie.BackdropURL = stringPtr(backdropURL)
	movie.Overview = stringPtr(overview)
	movie.ReleaseDate = stringPtr(releaseDate)
	movie.Runtime = intPtr(runtime)
	movie.VoteAverage = floatPtr(voteAverage)
	movie.Director = stringPtr(director)
	movie.TrailerKey = stringPtr(trailerKey)
	movie.Certification = stringPtr(certification)
	movie.Genres = jsonToList(genres)

	return &movie, nil
}

// scanUserMovie scans a joined user_movies+movies row into a UserMovie
// with the Movie field populated.
func scanUserMovie(scan func(dest ...any) error) (*models.UserMovie, error) {
	var entry models.UserMovie
	var movie models.Movie
	var personalRating sql.NullInt32
	var notes sql.NullString
	var coverURL, backdropURL, overview, releaseDate sql.NullString
	var director, trailerKey, certification sql.NullString
	var runtime sql.NullInt32
	var voteAverage sql.NullFloat64
	var genres sql.NullString

	err := scan(
		&entry.ID, &entry.UserID, &entry.MovieID, &entry.Status, &personalRating, &notes,
		&entry.CreatedAt, &entry.UpdatedAt,
		&movie.ID, &movie.TmdbID, &movie.Title, &coverURL, &backdropURL, &overview, &releaseDate,
		&runtime, &voteAverage, &director, &trailerKey, &certification, &genres,
		&movie.CreatedAt, &movie.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user movie: %w", err)
	}

	entry.PersonalRating = intPtr(personalRating)
	entry.Notes = stringPtr(notes)

	movie.CoverURL = stringPtr(coverURL)
	movie.BackdropURL = stringPtr(backdropURL)
	movie.Overview = stringPtr(overview)
	movie.ReleaseDate = stringPtr(releaseDate)
	movie.Runtime = intPtr(runtime)
	movie.VoteAverage = floatPtr(voteAverage)
	movie.Director = stringPtr(director)
	movie.TrailerKey = stringPtr(trailerKey)
	movie.Certification = stringPtr(certification)
	movie.Genres = jsonToList(genres)
	entry.Movie = &movie

	return &entry, nil
}
