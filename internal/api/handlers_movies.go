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

// ListMovies returns the caller's movie library
//
// @Summary List movie library
// @Description Returns all movie library entries for the authenticated user with joined movie details
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.UserMovie} "Library entries"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /movies [get]
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	entries, err := h.db.ListUserMovies(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list movies", err)
		return
	}

	respondJSON(w, r, http.StatusOK, entries)
}

// AddMovie adds a movie to the caller's library
//
// @Summary Add a movie
// @Description Creates or reuses the shared movie row and adds a library entry for the authenticated user
// @Tags Movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body models.AddMovieRequest true "Movie and entry details"
// @Success 201 {object} models.APIResponse{data=models.UserMovie} "Created entry"
// @Failure 400 {object} models.APIResponse "Invalid request body or status"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 409 {object} models.APIResponse "Movie already in library"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /movies [post]
func (h *Handler) AddMovie(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var req models.AddMovieRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	if !models.IsValidMovieStatus(req.Status) {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Unknown movie status", nil)
		return
	}

	entry, err := h.db.AddMovieToLibrary(r.Context(), claims.UserID, &req)
	if err != nil {
		if errors.Is(err, database.ErrEntryExists) {
			respondError(w, r, http.StatusConflict, ErrCodeConflict, "Movie is already in your library", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to add movie", err)
		return
	}

	respondJSON(w, r, http.StatusCreated, entry)
}

// UpdateMovie applies a partial update to a movie library entry
//
// @Summary Update a movie entry
// @Description Updates status, rating, or notes on one library entry. Omitted fields are left unchanged.
// @Tags Movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Library entry ID"
// @Param entry body models.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} models.APIResponse{data=models.UserMovie} "Updated entry"
// @Failure 400 {object} models.APIResponse "Invalid request body, ID, or status"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 404 {object} models.APIResponse "Entry not found"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /movies/{id} [put]
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
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

	if req.Status != nil && !models.IsValidMovieStatus(*req.Status) {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Unknown movie status", nil)
		return
	}

	entry, err := h.db.UpdateUserMovie(r.Context(), claims.UserID, entryID, &req)
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

// RemoveMovie deletes a movie library entry
//
// @Summary Remove a movie entry
// @Description Removes one library entry. The shared movie row stays for other users.
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Library entry ID"
// @Success 200 {object} models.APIResponse "Entry removed"
// @Failure 400 {object} models.APIResponse "Invalid entry ID"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 404 {object} models.APIResponse "Entry not found"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /movies/{id} [delete]
func (h *Handler) RemoveMovie(w http.ResponseWriter, r *http.Request) {
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

	if err := h.db.RemoveUserMovie(r.Context(), claims.UserID, entryID); err != nil {
		if errors.Is(err, database.ErrEntryNotFound) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Library entry not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to remove entry", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"id": entryID, "deleted": true})
}
