// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package api

import (
	"errors"
	"net/http"

	"github.com/nelsonportela/BackLogus/internal/auth"
	"github.com/nelsonportela/BackLogus/internal/database"
	"github.com/nelsonportela/BackLogus/internal/models"
)

// GetProfile returns the authenticated user's profile
//
// @Summary Get profile
// @Description Returns the authenticated user's profile fields
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.User} "Profile"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /user/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
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
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Account no longer exists", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load profile", err)
		return
	}

	respondJSON(w, r, http.StatusOK, user)
}

// UpdateProfile applies a partial profile update
//
// @Summary Update profile
// @Description Updates profile fields. Omitted fields are left unchanged; empty strings clear the stored value.
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body models.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} models.APIResponse{data=models.User} "Updated profile"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /user/profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPut) {
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var req models.UpdateProfileRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	user, err := h.db.UpdateUserProfile(r.Context(), claims.UserID, &req)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Account no longer exists", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to update profile", err)
		return
	}

	respondJSON(w, r, http.StatusOK, user)
}
