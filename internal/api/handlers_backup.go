// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package api

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nelsonportela/BackLogus/internal/auth"
	"github.com/nelsonportela/BackLogus/internal/backup"
	"github.com/nelsonportela/BackLogus/internal/imagecache"
	"github.com/nelsonportela/BackLogus/internal/logging"
	"github.com/nelsonportela/BackLogus/internal/metrics"
)

// multipartMemoryLimit bounds how much of an uploaded archive is held
// in memory before spilling to a temp file.
const multipartMemoryLimit = 32 << 20

// ArchiveBuilder assembles a backup archive onto a writer.
type ArchiveBuilder interface {
	Build(ctx context.Context, userID int64, w io.Writer) (*backup.BuildResult, error)
}

// ArchiveRestorer replays a parsed archive into the caller's account.
type ArchiveRestorer interface {
	Restore(ctx context.Context, userID int64, archive *backup.ParsedArchive) (*backup.RestoreReport, error)
}

// ImageStatsProvider reports image cache contents for the stats
// endpoint.
type ImageStatsProvider interface {
	Stats(ctx context.Context) (imagecache.Stats, error)
}

// BackupStatsResponse is the payload of the backup stats endpoint.
type BackupStatsResponse struct {
	Games       int              `json:"games"`
	Movies      int              `json:"movies"`
	Credentials int              `json:"credentials"`
	Images      imagecache.Stats `json:"images"`
}

// countingWriter tracks whether any archive bytes reached the client.
// Once the zip stream has started the response status is committed and
// errors can only be logged, not reported.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// BackupExport streams a backup archive of the caller's library
//
// @Summary Export library backup
// @Description Builds a zip archive of the caller's profile, libraries, credentials, and cached images, streamed as a download. Progress events are published on the WebSocket.
// @Tags Backup
// @Produce application/zip
// @Security BearerAuth
// @Success 200 {file} binary "Backup archive"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 500 {object} models.APIResponse "Archive build failed"
// @Failure 503 {object} models.APIResponse "Backup engine not available"
// @Router /backup/export [get]
func (h *Handler) BackupExport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	if !h.backupEnabled() {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeBackupDisabled, "Backup engine is not available", nil)
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	// The operation ID ties progress events on the WebSocket to this
	// request. Clients match on it when several operations overlap.
	opID := logging.GenerateOperationID()
	ctx := logging.ContextWithOperationID(r.Context(), opID)

	filename := backup.ArchiveFilename(time.Now())
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Operation-ID", opID)

	cw := &countingWriter{w: w}
	start := time.Now()

	result, err := h.builder.Build(ctx, claims.UserID, cw)
	metrics.RecordBackupOperation("export", time.Since(start), err)
	if err != nil {
		if cw.n == 0 {
			// Nothing streamed yet, the JSON error still fits.
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to build backup archive", err)
			return
		}
		// Mid-stream failure leaves a truncated zip behind. The client
		// notices when opening it; all we can do is log.
		logging.CtxErr(ctx).Err(err).
			Int64("user_id", claims.UserID).
			Int64("bytes_written", cw.n).
			Msg("Backup export failed mid-stream")
		return
	}

	if result.ImagesFailed > 0 {
		metrics.RecordBackupImageFailures(result.ImagesFailed)
	}

	logging.CtxInfo(ctx).
		Int64("user_id", claims.UserID).
		Str("filename", filename).
		Int64("bytes", cw.n).
		Int("images_cached", result.ImagesCached).
		Int("images_failed", result.ImagesFailed).
		Msg("Backup export complete")
}

// BackupImport restores the caller's library from an uploaded archive
//
// @Summary Import library backup
// @Description Replaces the caller's libraries and credentials with the contents of an uploaded backup archive. The restore is transactional; on failure the library is unchanged.
// @Tags Backup
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param backup formData file true "Backup archive (zip)"
// @Success 200 {object} models.APIResponse{data=backup.RestoreReport} "Restore report"
// @Failure 400 {object} models.APIResponse "Missing, corrupt, or invalid archive"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 413 {object} models.APIResponse "Archive exceeds upload size cap"
// @Failure 500 {object} models.APIResponse "Restore failed and was rolled back"
// @Failure 503 {object} models.APIResponse "Backup engine not available"
// @Router /backup/import [post]
func (h *Handler) BackupImport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	if !h.backupEnabled() {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeBackupDisabled, "Backup engine is not available", nil)
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	archive, ok := h.parseUploadedArchive(w, r)
	if !ok {
		return
	}

	opID := logging.GenerateOperationID()
	ctx := logging.ContextWithOperationID(r.Context(), opID)
	w.Header().Set("X-Operation-ID", opID)

	start := time.Now()
	report, err := h.restorer.Restore(ctx, claims.UserID, archive)
	metrics.RecordBackupOperation("import", time.Since(start), err)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeRestoreFailed,
			"Restore failed; your library is unchanged", err)
		return
	}

	logging.CtxInfo(ctx).
		Int64("user_id", claims.UserID).
		Int("media", report.Media).
		Int("entries", report.Entries).
		Int("credentials", report.Credentials).
		Int("images", report.Images).
		Msg("Backup import complete")

	respondJSON(w, r, http.StatusOK, report)
}

// parseUploadedArchive reads the multipart upload and parses it as a
// backup archive, answering the error response itself on failure.
func (h *Handler) parseUploadedArchive(w http.ResponseWriter, r *http.Request) (*backup.ParsedArchive, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Backup.MaxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge,
				fmt.Sprintf("Archive exceeds the %d byte upload limit", h.config.Backup.MaxUploadBytes), nil)
			return nil, false
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid multipart request", err)
		return nil, false
	}

	file, header, err := r.FormFile("backup")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, `Missing "backup" file field`, err)
		return nil, false
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close uploaded archive")
		}
	}()

	// multipart.File is an io.ReaderAt, so the zip can be read in
	// place without copying the upload again.
	zr, err := zip.NewReader(file, header.Size)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeCorruptArchive, "File is not a readable zip archive", err)
		return nil, false
	}

	archive, err := backup.Parse(zr)
	if err != nil {
		switch {
		case errors.Is(err, backup.ErrCorruptArchive):
			respondError(w, r, http.StatusBadRequest, ErrCodeCorruptArchive, "Archive contents are corrupt", err)
		case errors.Is(err, backup.ErrInvalidArchive):
			respondError(w, r, http.StatusBadRequest, ErrCodeInvalidArchive, "Archive is not a valid backup", err)
		default:
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to parse archive", err)
		}
		return nil, false
	}

	return archive, true
}

// BackupStats summarizes what a backup would contain
//
// @Summary Backup statistics
// @Description Returns library entry counts and image cache totals for the authenticated user
// @Tags Backup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=BackupStatsResponse} "Backup statistics"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Failure 503 {object} models.APIResponse "Backup engine not available"
// @Router /backup/stats [get]
func (h *Handler) BackupStats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	if !h.backupEnabled() {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeBackupDisabled, "Backup engine is not available", nil)
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	games, err := h.db.ListUserGames(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to count games", err)
		return
	}

	movies, err := h.db.ListUserMovies(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to count movies", err)
		return
	}

	creds, err := h.db.ListCredentials(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to count credentials", err)
		return
	}

	stats := BackupStatsResponse{
		Games:       len(games),
		Movies:      len(movies),
		Credentials: len(creds),
	}
	if h.images != nil {
		imgStats, err := h.images.Stats(r.Context())
		if err != nil {
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to read image cache stats", err)
			return
		}
		stats.Images = imgStats
	}

	respondJSON(w, r, http.StatusOK, stats)
}
