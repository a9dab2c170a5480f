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
	"time"

	"github.com/nelsonportela/BackLogus/internal/models"
)

const credentialSelect = `SELECT
	id, user_id, provider, client_id, client_secret, access_token, created_at, updated_at
FROM api_credentials`

// UpsertCredential creates or replaces the user's credential for one
// provider and returns the stored row.
func (db *DB) UpsertCredential(ctx context.Context, userID int64, req *models.UpsertCredentialRequest) (*models.APICredential, error) {
	now := time.Now().UTC()

	update := `UPDATE api_credentials SET
		client_id = ?, client_secret = ?, access_token = ?, updated_at = ?
	WHERE user_id = ? AND provider = ?`

	result, err := db.conn.ExecContext(ctx, update,
		req.ClientID, nullableString(req.ClientSecret), nullableString(req.AccessToken), now,
		userID, req.Provider,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update credential: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		insert := `INSERT INTO api_credentials (
			user_id, provider, client_id, client_secret, access_token, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`
		if _, err := db.conn.ExecContext(ctx, insert,
			userID, req.Provider, req.ClientID, nullableString(req.ClientSecret),
			nullableString(req.AccessToken), now, now,
		); err != nil {
			return nil, fmt.Errorf("failed to create credential: %w", err)
		}
	}

	return db.GetCredential(ctx, userID, req.Provider)
}

// GetCredential retrieves the user's credential for one provider.
func (db *DB) GetCredential(ctx context.Context, userID int64, provider string) (*models.APICredential, error) {
	query := credentialSelect + ` WHERE user_id = ? AND provider = ?`

	row := db.conn.QueryRowContext(ctx, query, userID, provider)
	cred, err := scanCredential(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}
	return cred, nil
}

// ListCredentials retrieves all of the user's provider credentials.
func (db *DB) ListCredentials(ctx context.Context, userID int64) ([]models.APICredential, error) {
	query := credentialSelect + ` WHERE user_id = ? ORDER BY provider`

	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer closeWithLog(rows, "credentials rows")

	creds := make([]models.APICredential, 0)
	for rows.Next() {
		cred, err := scanCredential(rows.Scan)
		if err != nil {
			return nil, err
		}
		creds = append(creds, *cred)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credentials: %w", err)
	}

	return creds, nil
}

// DeleteCredential removes the user's credential for one provider.
func (db *DB) DeleteCredential(ctx context.Context, userID int64, provider string) error {
	query := `DELETE FROM api_credentials WHERE user_id = ? AND provider = ?`
	result, err := db.conn.ExecContext(ctx, query, userID, provider)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCredentialNotFound
	}

	return nil
}

// scanCredential scans a row into an APICredential struct.
func scanCredential(scan func(dest ...any) error) (*models.APICredential, error) {
	var cred models.APICredential
	var clientSecret, accessToken sql.NullString

	err := scan(
		&cred.ID, &cred.UserID, &cred.Provider, &cred.ClientID,
		&clientSecret, &accessToken, &cred.CreatedAt, &cred.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan credential: %w", err)
	}

	cred.ClientSecret = stringPtr(clientSecret)
	cred.AccessToken = stringPtr(accessToken)

	return &cred, nil
}
