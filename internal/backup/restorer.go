// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package backup

import (
	"context"
	"fmt"

	"github.com/nelsonportela/BackLogus/internal/database"
	"github.com/nelsonportela/BackLogus/internal/events"
	"github.com/nelsonportela/BackLogus/internal/logging"
)

// RestoreReport counts what a finished restore wrote.
type RestoreReport struct {
	Media       int `json:"media"`
	Entries     int `json:"entries"`
	Credentials int `json:"credentials"`
	Images      int `json:"images"`
}

// Restorer replays a parsed archive into the store for one account.
type Restorer struct {
	db    *database.DB
	cache ImageCache
	sink  ProgressSink
}

// NewRestorer creates a restore orchestrator. sink may be nil.
func NewRestorer(db *database.DB, cache ImageCache, sink ProgressSink) *Restorer {
	return &Restorer{db: db, cache: cache, sink: sink}
}

// Restore replaces the target account's data with the archive's
// contents inside a single transaction.
//
// The transaction deletes the account's library entries and
// credentials, deletes every shared media row in the store, overwrites
// the profile scalars, then recreates media, entries, and credentials
// from the archive. Archived IDs are translated to the freshly
// assigned ones through in-memory maps that die with this call; an
// entry whose media row is missing from the archive is dropped rather
// than inserted dangling. Any failure rolls the whole transaction
// back, leaving the account exactly as it was.
//
// Media deletion is store-wide: with a single-user deployment every
// media row belongs to this library anyway, and rows for other
// accounts would be orphaned by the wipe of shared state the archive
// format assumes. A multi-account deployment must not expose this
// operation to more than one user.
//
// Images are restored after the commit and reported, never escalated:
// the relational restore is the contract, cached artwork is warm-up.
func (r *Restorer) Restore(ctx context.Context, userID int64, archive *ParsedArchive) (*RestoreReport, error) {
	if archive == nil || archive.Document == nil {
		return nil, fmt.Errorf("%w: no document to restore", ErrInvalidArchive)
	}
	doc := archive.Document

	r.report(ctx, userID, events.StageRestore, 0, "starting restore")

	tx, err := r.db.BeginRestore(ctx)
	if err != nil {
		return nil, restoreErr("opening transaction", err)
	}
	defer tx.Rollback()

	if err := tx.DeleteUserData(ctx, userID); err != nil {
		return nil, restoreErr("clearing account data", err)
	}
	if err := tx.DeleteAllMedia(ctx); err != nil {
		return nil, restoreErr("clearing media", err)
	}
	if err := tx.OverwriteUserProfile(ctx, userID, archive.User.model()); err != nil {
		return nil, restoreErr("overwriting profile", err)
	}
	r.report(ctx, userID, events.StageRestore, 20, "cleared existing data")

	report := &RestoreReport{}

	gameIDs := make(map[int64]int64, len(doc.Games))
	for i := range doc.Games {
		rec := &doc.Games[i]
		newID, err := tx.InsertGame(ctx, rec.model())
		if err != nil {
			return nil, restoreErr(fmt.Sprintf("inserting game %q", rec.Name), err)
		}
		gameIDs[rec.ID] = newID
		report.Media++
	}

	movieIDs := make(map[int64]int64, len(doc.Movies))
	for i := range doc.Movies {
		rec := &doc.Movies[i]
		newID, err := tx.InsertMovie(ctx, rec.model())
		if err != nil {
			return nil, restoreErr(fmt.Sprintf("inserting movie %q", rec.Title), err)
		}
		movieIDs[rec.ID] = newID
		report.Media++
	}
	r.report(ctx, userID, events.StageRestore, 40,
		fmt.Sprintf("restored %d media rows", report.Media))

	dangling := 0
	for i := range doc.UserGames {
		rec := &doc.UserGames[i]
		newGameID, ok := gameIDs[rec.GameID]
		if !ok {
			dangling++
			continue
		}
		entry := rec.model()
		entry.UserID = userID
		entry.GameID = newGameID
		if err := tx.InsertUserGame(ctx, entry); err != nil {
			return nil, restoreErr("inserting game entry", err)
		}
		report.Entries++
	}
	for i := range doc.UserMovies {
		rec := &doc.UserMovies[i]
		newMovieID, ok := movieIDs[rec.MovieID]
		if !ok {
			dangling++
			continue
		}
		entry := rec.model()
		entry.UserID = userID
		entry.MovieID = newMovieID
		if err := tx.InsertUserMovie(ctx, entry); err != nil {
			return nil, restoreErr("inserting movie entry", err)
		}
		report.Entries++
	}
	r.report(ctx, userID, events.StageRestore, 60,
		fmt.Sprintf("restored %d library entries", report.Entries))

	for i := range doc.APICredentials {
		rec := &doc.APICredentials[i]
		cred := rec.model()
		cred.UserID = userID
		if err := tx.InsertCredential(ctx, cred); err != nil {
			return nil, restoreErr(fmt.Sprintf("inserting %s credential", rec.Provider), err)
		}
		report.Credentials++
	}

	if err := tx.Commit(); err != nil {
		return nil, restoreErr("committing", err)
	}
	r.report(ctx, userID, events.StageRestore, 80, "database restore committed")

	if dangling > 0 {
		logging.Ctx(ctx).Warn().
			Int("dropped", dangling).
			Msg("Dropped entries referencing media absent from the archive")
	}

	if len(archive.Images) > 0 {
		restored, err := r.cache.Restore(ctx, archive.Images)
		report.Images = restored
		if err != nil {
			logging.CtxErr(ctx, err).
				Int("restored", restored).
				Int("total", len(archive.Images)).
				Msg("Image cache restore was incomplete")
		}
	}
	r.report(ctx, userID, events.StageImageRestore, 100, "restore complete")

	logging.Ctx(ctx).Info().
		Int64("user_id", userID).
		Int("media", report.Media).
		Int("entries", report.Entries).
		Int("credentials", report.Credentials).
		Int("images", report.Images).
		Msg("Backup restored")

	return report, nil
}

func (r *Restorer) report(ctx context.Context, userID int64, stage string, percent int, message string) {
	if r.sink == nil {
		return
	}
	r.sink.PublishProgress(&events.ProgressEvent{
		OperationID: logging.OperationIDFromContext(ctx),
		UserID:      userID,
		Stage:       stage,
		Percent:     percent,
		Message:     message,
	})
}

func restoreErr(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRestoreFailed, step, err)
}
