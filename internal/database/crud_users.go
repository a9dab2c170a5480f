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

	"github.com/nelsonportela/BackLogus/internal/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, avatar_url,
	timezone, theme_preference, created_at, updated_at`

// CreateUser inserts a new account with the given bcrypt password
// hash and returns the stored row. Returns ErrUserExists when the
// email is already registered.
func (db *DB) CreateUser(ctx context.Context, email, passwordHash string, firstName, lastName *string) (*models.User, error) {
	now := time.Now().UTC()

	query := `INSERT INTO users (
		email, password_hash, first_name, last_name, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`

	var id int64
	err := db.conn.QueryRowContext(ctx, query,
		email, passwordHash, nullableString(firstName), nullableString(lastName), now, now,
	).Scan(&id)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return db.GetUserByID(ctx, id)
}

// GetUserByID retrieves an account by its identifier.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(db.conn.QueryRowContext(ctx, query, id))
}

// GetUserByEmail retrieves an account by email address.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(db.conn.QueryRowContext(ctx, query, email))
}

// UpdateUserProfile applies a partial profile update. Nil request
// fields are left unchanged. Returns the updated row.
func (db *DB) UpdateUserProfile(ctx context.Context, id int64, req *models.UpdateProfileRequest) (*models.User, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if req.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *req.FirstName)
	}
	if req.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *req.LastName)
	}
	if req.AvatarURL != nil {
		sets = append(sets, "avatar_url = ?")
		args = append(args, *req.AvatarURL)
	}
	if req.Timezone != nil {
		sets = append(sets, "timezone = ?")
		args = append(args, *req.Timezone)
	}
	if req.ThemePreference != nil {
		sets = append(sets, "theme_preference = ?")
		args = append(args, *req.ThemePreference)
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)

	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	return db.GetUserByID(ctx, id)
}

// scanUser scans a single row into a User struct.
func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var firstName, lastName, avatarURL, timezone, theme sql.NullString

	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &firstName, &lastName, &avatarURL,
		&timezone, &theme, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.FirstName = stringPtr(firstName)
	user.LastName = stringPtr(lastName)
	user.AvatarURL = stringPtr(avatarURL)
	user.Timezone = stringPtr(timezone)
	user.ThemePreference = stringPtr(theme)

	return &user, nil
}
