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

// ListCredentials returns the caller's provider credentials
//
// @Summary List provider credentials
// @Description Returns all stored upstream provider credentials for the authenticated user
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.APICredential} "Credentials"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /user/credentials [get]
func (h *Handler) ListCredentials(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	creds, err := h.db.ListCredentials(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list credentials", err)
		return
	}

	respondJSON(w, r, http.StatusOK, creds)
}

// UpsertCredential stores or replaces one provider credential
//
// @Summary Store a provider credential
// @Description Creates or replaces the caller's credential for one provider (igdb or tmdb)
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param credential body models.UpsertCredentialRequest true "Credential"
// @Success 200 {object} models.APIResponse{data=models.APICredential} "Stored credential"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /user/credentials [put]
func (h *Handler) UpsertCredential(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPut) {
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var req models.UpsertCredentialRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	cred, err := h.db.UpsertCredential(r.Context(), claims.UserID, &req)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to store credential", err)
		return
	}

	respondJSON(w, r, http.StatusOK, cred)
}

// DeleteCredential removes one provider credential
//
// @Summary Delete a provider credential
// @Description Removes the caller's credential for the named provider
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param provider path string true "Provider name" Enums(igdb, tmdb)
// @Success 200 {object} models.APIResponse "Credential removed"
// @Failure 400 {object} models.APIResponse "Unknown provider"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 404 {object} models.APIResponse "No credential stored for provider"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /user/credentials/{provider} [delete]
func (h *Handler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete) {
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	provider := r.PathValue("provider")
	if !models.IsValidProvider(provider) {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Unknown provider", nil)
		return
	}

	if err := h.db.DeleteCredential(r.Context(), claims.UserID, provider); err != nil {
		if errors.Is(err, database.ErrCredentialNotFound) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "No credential stored for this provider", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete credential", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]string{"provider": provider, "deleted": "true"})
}
