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

// GetOrCreateGame returns the shared game row for req's IGDB ID,
// inserting it first when the game is not yet known. Media rows are
// shared across accounts, so a concurrent insert of the same game is
// resolved by re-reading after a unique constraint violation.
func (db *DB) GetOrCreateGame(ctx context.Context, game *models.Game) (*models.Game, error) {
	existing, err := db.GetGameByIgdbID(ctx, game.IgdbID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrGameNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	query := `INSERT INTO games (
		igdb_id, name, cover_url, banner_url, summary, release_date,
		rating, developer, publisher, franchise,
		genres, platforms, game_modes, screenshots, artworks,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

	var id int64
	err = db.conn.QueryRowContext(ctx, query,
		game.IgdbID, game.Name, nullableString(game.CoverURL), nullableString(game.BannerURL),
		nullableString(game.Summary), nullableString(game.ReleaseDate),
		nullableFloat(game.Rating), nullableString(game.Developer), nullableString(game.Publisher),
		nullableString(game.Franchise),
		listToJSON(game.Genres), listToJSON(game.Platforms), listToJSON(game.GameModes),
		listToJSON(game.Screenshots), listToJSON(game.Artworks),
		now, now,
	).Scan(&id)
	if err != nil {
		if isUniqueConstraintError(err) {
			return db.GetGameByIgdbID(ctx, game.IgdbID)
		}
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return db.GetGameByID(ctx, id)
}

// GetGameByID retrieves a game by its identifier.
func (db *DB) GetGameByID(ctx context.Context, id int64) (*models.Game, error) {
	query := gameSelect + ` WHERE id = ?`
	return scanGame(db.conn.QueryRowContext(ctx, query, id))
}

// GetGameByIgdbID retrieves a game by its IGDB identifier.
func (db *DB) GetGameByIgdbID(ctx context.Context, igdbID int64) (*models.Game, error) {
	query := gameSelect + ` WHERE igdb_id = ?`
	return scanGame(db.conn.QueryRowContext(ctx, query, igdbID))
}

// AddGameToLibrary creates or reuses the shared game row and adds a
// library entry for the user. Returns ErrEntryExists when the game is
// already in the user's library.
func (db *DB) AddGameToLibrary(ctx context.Context, userID int64, req *models.AddGameRequest) (*models.UserGame, error) {
	game, err := db.GetOrCreateGame(ctx, &req.Game)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	query := `INSERT INTO user_games (
		user_id, game_id, status, personal_rating, notes, platform, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

	var id int64
	err = db.conn.QueryRowContext(ctx, query,
		userID, game.ID, req.Status, nullableInt(req.PersonalRating),
		nullableString(req.Notes), nullableString(req.Platform), now, now,
	).Scan(&id)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrEntryExists
		}
		return nil, fmt.Errorf("failed to add game to library: %w", err)
	}

	return db.GetUserGame(ctx, userID, id)
}

// GetUserGame retrieves one of the user's game library entries with
// the joined game row.
func (db *DB) GetUserGame(ctx context.Context, userID, entryID int64) (*models.UserGame, error) {
	query := userGameSelect + ` WHERE ug.id = ? AND ug.user_id = ?`

	row := db.conn.QueryRowContext(ctx, query, entryID, userID)
	entry, err := scanUserGame(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// ListUserGames retrieves all of the user's game library entries with
// joined game rows, newest first.
func (db *DB) ListUserGames(ctx context.Context, userID int64) ([]models.UserGame, error) {
	query := userGameSelect + ` WHERE ug.user_id = ? ORDER BY ug.created_at DESC, ug.id DESC`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, userID)
	metrics.RecordDBQuery("SELECT", "user_games", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list user games: %w", err)
	}
	defer closeWithLog(rows, "user games rows")

	entries := make([]models.UserGame, 0)
	for rows.Next() {
		entry, err := scanUserGame(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user games: %w", err)
	}

	return entries, nil
}

// UpdateUserGame applies a partial update to one of the user's game
// library entries. Nil request fields are left unchanged.
func (db *DB) UpdateUserGame(ctx context.Context, userID, entryID int64, req *models.UpdateEntryRequest) (*models.UserGame, error) {
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
	if req.Platform != nil {
		sets = append(sets, "platform = ?")
		args = append(args, *req.Platform)
	}

	query := `UPDATE user_games SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND user_id = ?`
	args = append(args, entryID, userID)

	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update game entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrEntryNotFound
	}

	return db.GetUserGame(ctx, userID, entryID)
}

// RemoveUserGame deletes one of the user's game library entries. The
// shared game row is kept for other accounts.
func (db *DB) RemoveUserGame(ctx context.Context, userID, entryID int64) error {
	query := `DELETE FROM user_games WHERE id = ? AND user_id = ?`
	result, err := db.conn.ExecContext(ctx, query, entryID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove game entry: %w", err)
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

const gameSelect = `SELECT
	id, igdb_id, name, cover_url, banner_url, summary, release_date,
	rating, developer, publisher, franchise,
	genres, platforms, game_modes, screenshots, artworks,
	created_at, updated_at
FROM games`

const userGameSelect = `SELECT
	ug.id, ug.user_id, ug.game_id, ug.status, ug.personal_rating, ug.notes, ug.platform,
	ug.created_at, ug.updated_at,
	g.id, g.igdb_id, g.name, g.cover_url, g.banner_url, g.summary, g.release_date,
	g.rating, g.developer, g.publisher, g.franchise,
	g.genres, g.platforms, g.game_modes, g.screenshots, g.artworks,
	g.created_at, g.updated_at
FROM user_games ug
JOIN games g ON g.id = ug.game_id`

// scanGame scans a single row into a Game struct.
func scanGame(row *sql.Row) (*models.Game, error) {
	var game models.Game
	var coverURL, bannerURL, summary, releaseDate sql.NullString
	var developer, publisher, franchise sql.NullString
	var rating sql.NullFloat64
	var genres, platforms, gameModes, screenshots, artworks sql.NullString

	err := row.Scan(
		&game.ID, &game.IgdbID, &game.Name, &coverURL, &bannerURL, &summary, &releaseDate,
		&rating, &developer, &publisher, &franchise,
		&genres, &platforms, &gameModes, &screenshots, &artworks,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}

	game.CoverURL = stringPtr(coverURL)
	game.BannerURL = stringPtr(bannerURL)
	game.Summary = stringPtr(summary)
	game.ReleaseDate = stringPtr(releaseDate)
	game.Rating = floatPtr(rating)
	game.Developer = stringPtr(developer)
	game.Publisher = stringPtr(publisher)
	game.Franchise = stringPtr(franchise)
	game.Genres = jsonToList(genres)
	game.Platforms = jsonToList(platforms)
	game.GameModes = jsonToList(gameModes)
	game.Screenshots = jsonToList(screenshots)
	game.Artworks = jsonToList(artworks)

	return &game, nil
}

// scanUserGame scans a joined user_games+games row into a UserGame
// with the Game field populated. The scan argument accepts either a
// sql.Row or sql.Rows Scan method.
func scanUserGame(scan func(dest ...any) error) (*models.UserGame, error) {
	var entry models.UserGame
	var game models.Game
	var personalRating sql.NullInt32
	var notes, platform sql.NullString
	var coverURL, bannerURL, summary, releaseDate sql.NullString
	var developer, publisher, franchise sql.NullString
	var rating sql.NullFloat64
	var genres, platforms, gameModes, screenshots, artworks sql.NullString

	err := scan(
		&entry.ID, &entry.UserID, &entry.GameID, &entry.Status, &personalRating, &notes, &platform,
		&entry.CreatedAt, &entry.UpdatedAt,
		&game.ID, &game.IgdbID, &game.Name, &coverURL, &bannerURL, &summary, &releaseDate,
		&rating, &developer, &publisher, &franchise,
		&genres, &platforms, &gameModes, &screenshots, &artworks,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user game: %w", err)
	}

	entry.PersonalRating = intPtr(personalRating)
	entry.Notes = stringPtr(notes)
	entry.Platform = stringPtr(platform)

	game.CoverURL = stringPtr(coverURL)
	game.BannerURL = stringPtr(bannerURL)
	game.Summary = stringPtr(summary)
	game.ReleaseDate = stringPtr(releaseDate)
	game.Rating = floatPtr(rating)
	game.Developer = stringPtr(developer)
	game.Publisher = stringPtr(publisher)
	game.Franchise = stringPtr(franchise)
	game.Genres = jsonToList(genres)
	game.Platforms = jsonToList(platforms)
	game.GameModes = jsonToList(gameModes)
	game.Screenshots = jsonToList(screenshots)
	game.Artworks = jsonToList(artworks)
	entry.Game = &game

	return &entry, nil
}
