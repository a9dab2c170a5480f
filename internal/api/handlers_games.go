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

// ListGames returns the caller's game library
//
// @Summary List game library
// @Description Returns all game library entries for the authenticated user with joined game details
// @Tags Games
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.UserGame} "Library entries"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /games [get]
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	entries, err := h.db.ListUserGames(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list games", err)
		return
	}

	respondJSON(w, r, http.StatusOK, entries)
}

// AddGame adds a game to the caller's library
//
// @Summary Add a game
// @Description Creates or reuses the shared game row and adds a library entry for the authenticated user
// @Tags Games
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body models.AddGameRequest true "Game and entry details"
// @Success 201 {object} models.APIResponse{data=models.UserGame} "Created entry"
// @Failure 400 {object} models.APIResponse "Invalid request body or status"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 409 {object} models.APIResponse "Game already in library"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /games [post]
func (h *Handler) AddGame(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var req models.AddGameRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	// Status values are domain-specific, not expressible as a struct tag
	// shared between games and movies.
	if !models.IsValidGameStatus(req.Status) {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Unknown game status", nil)
		return
	}

	entry, err := h.db.AddGameToLibrary(r.Context(), claims.UserID, &req)
	if err != nil {
		if errors.Is(err, database.ErrEntryExists) {
			respondError(w, r, http.StatusConflict, ErrCodeConflict, "Game is already in your library", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to add game", err)
		return
	}

	respondJSON(w, r, http.StatusCreated, entry)
}

// UpdateGame applies a partial update to a game library entry
//
// @Summary Update a game entry
// @Description Updates status, rating, notes, or platform on one library entry. Omitted fields are left unchanged.
// @Tags Games
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Library entry ID"
// @Param entry body models.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} models.APIResponse{data=models.UserGame} "Updated entry"
// @Failure 400 {object} models.APIResponse "Invalid request body, ID, or status"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 404 {object} models.APIResponse "Entry not found"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /games/{id} [put]
func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPut) {
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	entryID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid entry ID", err)
		return
	}

	var req models.UpdateEntryRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	if req.Status != nil && !models.IsValidGameStatus(*req.Status) {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Unknown game status", nil)
		return
	}

	entry, err := h.db.UpdateUserGame(r.Context(), claims.UserID, entryID, &req)
	if err != nil {
		if errors.Is(err, database.ErrEntryNotFound) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Library entry not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to update entry", err)
		return
	}

	respondJSON(w, r, http.StatusOK, entry)
}

// RemoveGame deletes a game library entry
//
// @Summary Remove a game entry
// @Description Removes one library entry. The shared game row stays for other users.
// @Tags Games
// @Produce json
// @Security BearerAuth
// @Param id path int true "Library entry ID"
// @Success 200 {object} models.APIResponse "Entry removed"
// @Failure 400 {object} models.APIResponse "Invalid entry ID"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 404 {object} models.APIResponse "Entry not found"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /games/{id} [delete]
func (h *Handler) RemoveGame(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete) {
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	entryID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid entry ID", err)
		return
	}

	if err := h.db.RemoveUserGame(r.Context(), claims.UserID, entryID); err != nil {
		if errors.Is(err, database.ErrEntryNotFound) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Library entry not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to remove entry", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"id": entryID, "deleted": true})
}
