// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

// Package models defines data structures used throughout the BackLogus
// application. These models represent accounts, media items, library
// entries, API credentials, and API request and response shapes.

package models

import (
	"time"
)

// User represents a registered account.
//
// PasswordHash is never serialized. All other profile fields are
// editable through the profile endpoint; optional fields use pointers
// so a null in the database survives a round-trip through the API.
//
// Fields:
//   - ID: Sequence-assigned identifier
//   - Email: Login identity, unique across the system
//   - FirstName/LastName: Optional display name parts
//   - AvatarURL: Optional profile image URL, cached like cover art
//   - Timezone: IANA zone name, e.g. "Europe/Lisbon"
//   - ThemePreference: UI theme ("light", "dark", "system")
type User struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	FirstName       *string    `json:"first_name,omitempty"`
	LastName        *string    `json:"last_name,omitempty"`
	AvatarURL       *string    `json:"avatar_url,omitempty"`
	Timezone        *string    `json:"timezone,omitempty"`
	ThemePreference *string    `json:"theme_preference,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DisplayName returns the best available human-readable name for the
// user: "First Last", a single name part, or the email local part.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != nil && u.LastName != nil:
		return *u.FirstName + " " + *u.LastName
	case u.FirstName != nil:
		return *u.FirstName
	case u.LastName != nil:
		return *u.LastName
	}
	for i, r := range u.Email {
		if r == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}

// RegisterRequest represents an account creation request.
//
// Password is transmitted in plaintext (HTTPS required) and hashed
// with bcrypt before storage.
type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
}

// LoginRequest represents a login request for JWT authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents a successful registration or login response.
//
// The token is also set as an HTTP-only cookie named "token"; the body
// copy supports clients that prefer the Authorization header.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// UpdateProfileRequest represents a partial profile update. Nil fields
// are left unchanged; empty strings clear the stored value.
type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName        *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	AvatarURL       *string `json:"avatar_url,omitempty" validate:"omitempty,url,max=2048"`
	Timezone        *string `json:"timezone,omitempty" validate:"omitempty,timezone"`
	ThemePreference *string `json:"theme_preference,omitempty" validate:"omitempty,oneof=light dark system"`
}
