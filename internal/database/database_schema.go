// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

/*
database_schema.go - Database Schema Management

This file manages the DuckDB database schema including table creation
and index management.

Tables:
  - users: Registered accounts with profile and preference fields
  - games: Shared game media rows fetched from IGDB
  - movies: Shared movie media rows fetched from TMDB
  - user_games: Per-user game library entries (unique per user+game)
  - user_movies: Per-user movie library entries (unique per user+movie)
  - api_credentials: Per-user upstream provider credentials

Schema Strategy:
All columns are defined in the initial CREATE TABLE statements, giving
a single source of truth for the complete schema. IDs come from
sequences so inserts can use RETURNING id.

user_games and user_movies intentionally carry no foreign key
constraints on game_id/movie_id: a backup restore replaces the shared
media tables wholesale while other accounts' entries remain in place,
and a constraint would reject that operation.
*/

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the sequences and core database tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := db.getTableCreationQueries()

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements.
func (db *DB) getTableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_users_id START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_games_id START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_movies_id START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_user_games_id START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_user_movies_id START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_api_credentials_id START 1`,

		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_users_id'),
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name TEXT,
			last_name TEXT,
			avatar_url TEXT,
			timezone TEXT,
			theme_preference TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		// List columns (genres, platforms, game_modes, screenshots,
		// artworks) hold JSON array text marshaled in Go.
		`CREATE TABLE IF NOT EXISTS games (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_games_id'),
			igdb_id BIGINT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			cover_url TEXT,
			banner_url TEXT,
			summary TEXT,
			release_date TEXT,
			rating DOUBLE,
			developer TEXT,
			publisher TEXT,
			franchise TEXT,
			genres TEXT,
			platforms TEXT,
			game_modes TEXT,
			screenshots TEXT,
			artworks TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS movies (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_movies_id'),
			tmdb_id BIGINT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			cover_url TEXT,
			backdrop_url TEXT,
			overview TEXT,
			release_date TEXT,
			runtime INTEGER,
			vote_average DOUBLE,
			director TEXT,
			trailer_key TEXT,
			certification TEXT,
			genres TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS user_games (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_user_games_id'),
			user_id BIGINT NOT NULL,
			game_id BIGINT NOT NULL,
			status TEXT NOT NULL,
			personal_rating INTEGER,
			notes TEXT,
			platform TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, game_id)
		)`,

		`CREATE TABLE IF NOT EXISTS user_movies (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_user_movies_id'),
			user_id BIGINT NOT NULL,
			movie_id BIGINT NOT NULL,
			status TEXT NOT NULL,
			personal_rating INTEGER,
			notes TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, movie_id)
		)`,

		`CREATE TABLE IF NOT EXISTS api_credentials (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_api_credentials_id'),
			user_id BIGINT NOT NULL,
			provider TEXT NOT NULL,
			client_id TEXT NOT NULL,
			client_secret TEXT,
			access_token TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, provider)
		)`,
	}
}

// createIndexes creates indexes for frequently filtered columns.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_user_games_user_id ON user_games(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_movies_user_id ON user_movies(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_api_credentials_user_id ON api_credentials(user_id)`,
	}

	for _, index := range indexes {
		if _, err := db.conn.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", index, err)
		}
	}

	return nil
}
