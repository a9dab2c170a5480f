// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nelsonportela/BackLogus/internal/metrics"
	"github.com/nelsonportela/BackLogus/internal/models"
)

// RestoreTx wraps a single database transaction holding every write
// of a backup import. Nothing becomes visible until Commit; any error
// leaves the database untouched after Rollback.
//
// The expected call sequence mirrors the import pipeline: delete the
// target account's library and credentials, delete all shared media
// rows, overwrite the profile, insert media rows (collecting the new
// IDs), insert library entries and credentials, then Commit.
type RestoreTx struct {
	tx *sql.Tx
}

// BeginRestore opens the restore transaction.
func (db *DB) BeginRestore(ctx context.Context) (*RestoreTx, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin restore transaction: %w", err)
	}
	return &RestoreTx{tx: tx}, nil
}

// Commit makes all restore writes visible atomically.
func (r *RestoreTx) Commit() error {
	start := time.Now()
	err := r.tx.Commit()
	metrics.RecordDBQuery("COMMIT", "restore", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to commit restore: %w", err)
	}
	return nil
}

// Rollback discards all restore writes. Safe to call after Commit; the
// resulting error is ignored by convention.
func (r *RestoreTx) Rollback() {
	_ = r.tx.Rollback()
}

// DeleteUserData removes the target account's library entries of both
// kinds and its API credentials. Shared media rows are not touched
// here.
func (r *RestoreTx) DeleteUserData(ctx context.Context, userID int64) error {
	statements := []string{
		`DELETE FROM user_games WHERE user_id = ?`,
		`DELETE FROM user_movies WHERE user_id = ?`,
		`DELETE FROM api_credentials WHERE user_id = ?`,
	}
	for _, stmt := range statements {
		if _, err := r.tx.ExecContext(ctx, stmt, userID); err != nil {
			return fmt.Errorf("failed to delete user data: %w", err)
		}
	}
	return nil
}

// DeleteAllMedia removes every shared game and movie row in the
// store, not only those referenced by the target account. Entries of
// other accounts keep their media IDs and dangle until those media
// rows are recreated.
func (r *RestoreTx) DeleteAllMedia(ctx context.Context) error {
	for _, stmt := range []string{`DELETE FROM games`, `DELETE FROM movies`} {
		if _, err := r.tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to delete media rows: %w", err)
		}
	}
	return nil
}

// OverwriteUserProfile replaces the target account's profile scalars
// with values from the archive. Email and password hash stay as they
// are; the archive never changes the login identity.
func (r *RestoreTx) OverwriteUserProfile(ctx context.Context, userID int64, profile *models.User) error {
	query := `UPDATE users SET
		first_name = ?, last_name = ?, avatar_url = ?, timezone = ?, theme_preference = ?, updated_at = ?
	WHERE id = ?`

	result, err := r.tx.ExecContext(ctx, query,
		nullableString(profile.FirstName), nullableString(profile.LastName),
		nullableString(profile.AvatarURL), nullableString(profile.Timezone),
		nullableString(profile.ThemePreference), time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to overwrite user profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// InsertGame inserts a shared game row and returns its new ID.
// Timestamps from the archive are preserved when present.
func (r *RestoreTx) InsertGame(ctx context.Context, game *models.Game) (int64, error) {
	createdAt, updatedAt := restoreTimestamps(game.CreatedAt, game.UpdatedAt)

	query := `INSERT INTO games (
		igdb_id, name, cover_url, banner_url, summary, release_date,
		rating, developer, publisher, franchise,
		genres, platforms, game_modes, screenshots, artworks,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

	var id int64
	err := r.tx.QueryRowContext(ctx, query,
		game.IgdbID, game.Name, nullableString(game.CoverURL), nullableString(game.BannerURL),
		nullableString(game.Summary), nullableString(game.ReleaseDate),
		nullableFloat(game.Rating), nullableString(game.Developer), nullableString(game.Publisher),
		nullableString(game.Franchise),
		listToJSON(game.Genres), listToJSON(game.Platforms), listToJSON(game.GameModes),
		listToJSON(game.Screenshots), listToJSON(game.Artworks),
		createdAt, updatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert game %q: %w", game.Name, err)
	}
	return id, nil
}

// InsertMovie inserts a shared movie row and returns its new ID.
func (r *RestoreTx) InsertMovie(ctx context.Context, movie *models.Movie) (int64, error) {
	createdAt, updatedAt := restoreTimestamps(movie.CreatedAt, movie.UpdatedAt)

	query := `INSERT INTO movies (
		tmdb_id, title, cover_url, backdrop_url, overview, release_date,
		runtime, vote_average, director, trailer_key, certification, genres,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

	var id int64
	err := r.tx.QueryRowContext(ctx, query,
		movie.TmdbID, movie.Title, nullableString(movie.CoverURL), nullableString(movie.BackdropURL),
		nullableString(movie.Overview), nullableString(movie.ReleaseDate),
		nullableInt(movie.Runtime), nullableFloat(movie.VoteAverage), nullableString(movie.Director),
		nullableString(movie.TrailerKey), nullableString(movie.Certification), listToJSON(movie.Genres),
		createdAt, updatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert movie %q: %w", movie.Title, err)
	}
	return id, nil
}

// InsertUserGame inserts a game library entry. The entry's UserID and
// GameID must already be translated to the target account and the new
// media IDs.
func (r *RestoreTx) InsertUserGame(ctx context.Context, entry *models.UserGame) error {
	createdAt, updatedAt := restoreTimestamps(entry.CreatedAt, entry.UpdatedAt)

	query := `INSERT INTO user_games (
		user_id, game_id, status, personal_rating, notes, platform, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.tx.ExecContext(ctx, query,
		entry.UserID, entry.GameID, entry.Status, nullableInt(entry.PersonalRating),
		nullableString(entry.Notes), nullableString(entry.Platform), createdAt, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game entry: %w", err)
	}
	return nil
}

// InsertUserMovie inserts a movie library entry.
func (r *RestoreTx) InsertUserMovie(ctx context.Context, entry *models.UserMovie) error {
	createdAt, updatedAt := restoreTimestamps(entry.CreatedAt, entry.UpdatedAt)

	query := `INSERT INTO user_movies (
		user_id, movie_id, status, personal_rating, notes, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.tx.ExecContext(ctx, query,
		entry.UserID, entry.MovieID, entry.Status, nullableInt(entry.PersonalRating),
		nullableString(entry.Notes), createdAt, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert movie entry: %w", err)
	}
	return nil
}

// InsertCredential inserts an API credential bound to the target
// account.
func (r *RestoreTx) InsertCredential(ctx context.Context, cred *models.APICredential) error {
	createdAt, updatedAt := restoreTimestamps(cred.CreatedAt, cred.UpdatedAt)

	query := `INSERT INTO api_credentials (
		user_id, provider, client_id, client_secret, access_token, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.tx.ExecContext(ctx, query,
		cred.UserID, cred.Provider, cred.ClientID, nullableString(cred.ClientSecret),
		nullableString(cred.AccessToken), createdAt, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert credential: %w", err)
	}
	return nil
}

// restoreTimestamps preserves archive timestamps when present and
// falls back to now for archives that omit them.
func restoreTimestamps(createdAt, updatedAt time.Time) (time.Time, time.Time) {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = now
	}
	return createdAt, updatedAt
}
