// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/nelsonportela/BackLogus/internal/auth"
	"github.com/nelsonportela/BackLogus/internal/database"
	"github.com/nelsonportela/BackLogus/internal/models"
)

// Register handles account creation
//
// @Summary Register a new account
// @Description Creates a user account and returns a JWT token in an HTTP-only cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body models.RegisterRequest true "Account details"
// @Success 201 {object} models.APIResponse{data=models.AuthResponse} "Account created"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 409 {object} models.APIResponse "Email already registered"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	req, ok := h.parseRegisterRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.authService.Register(r.Context(), req, requestIP(r))
	if err != nil {
		if errors.Is(err, database.ErrUserExists) {
			respondError(w, r, http.StatusConflict, ErrCodeConflict, "An account with this email already exists", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to create account", err)
		return
	}

	h.setAuthCookie(w, r, resp.Token, resp.ExpiresAt)
	respondJSON(w, r, http.StatusCreated, resp)
}

// parseRegisterRequest parses and validates the registration body.
func (h *Handler) parseRegisterRequest(w http.ResponseWriter, r *http.Request) (*models.RegisterRequest, bool) {
	var req models.RegisterRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", err)
		return nil, false
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return nil, false
	}

	return &req, true
}

// Login handles user authentication requests
//
// @Summary Authenticate user
// @Description Authenticates with email and password, returns a JWT token in an HTTP-only cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.APIResponse{data=models.AuthResponse} "Authentication successful"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 401 {object} models.APIResponse "Invalid credentials"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	req, ok := h.parseLoginRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.authService.Login(r.Context(), req, requestIP(r))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid email or password", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Authentication failed", err)
		return
	}

	h.setAuthCookie(w, r, resp.Token, resp.ExpiresAt)
	respondJSON(w, r, http.StatusOK, resp)
}

// parseLoginRequest parses and validates the login body.
func (h *Handler) parseLoginRequest(w http.ResponseWriter, r *http.Request) (*models.LoginRequest, bool) {
	var req models.LoginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", err)
		return nil, false
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return nil, false
	}

	return &req, true
}

// setAuthCookie sets the authentication cookie.
func (h *Handler) setAuthCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

// Me returns the authenticated user's account
//
// @Summary Current user
// @Description Returns the account behind the presented token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.User} "Authenticated user"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 404 {object} models.APIResponse "Account no longer exists"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	user, err := h.db.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			// Token outlived the account.
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Account no longer exists", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load account", err)
		return
	}

	respondJSON(w, r, http.StatusOK, user)
}
