// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package models

import (
	"time"
)

// Media data providers accepted in API credentials.
const (
	ProviderIGDB = "igdb"
	ProviderTMDB = "tmdb"
)

var validProviders = map[string]bool{
	ProviderIGDB: true,
	ProviderTMDB: true,
}

// IsValidProvider reports whether p is a known credential provider.
func IsValidProvider(p string) bool { return validProviders[p] }

// APICredential represents per-user credentials for an upstream media
// data provider. Each user holds at most one credential per provider.
//
// ClientSecret and AccessToken are returned by the API only to their
// owner; they are included in backup archives so a restore brings the
// provider integration back without reconfiguration.
type APICredential struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Provider     string    `json:"provider"`
	ClientID     string    `json:"client_id"`
	ClientSecret *string   `json:"client_secret,omitempty"`
	AccessToken  *string   `json:"access_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpsertCredentialRequest represents a request to create or replace
// the caller's credential for one provider.
type UpsertCredentialRequest struct {
	Provider     string  `json:"provider" validate:"required,oneof=igdb tmdb"`
	ClientID     string  `json:"client_id" validate:"required,max=256"`
	ClientSecret *string `json:"client_secret,omitempty" validate:"omitempty,max=256"`
	AccessToken  *string `json:"access_token,omitempty" validate:"omitempty,max=512"`
}
