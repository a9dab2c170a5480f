// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package backup

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/nelsonportela/BackLogus/internal/events"
	"github.com/nelsonportela/BackLogus/internal/imagecache"
	"github.com/nelsonportela/BackLogus/internal/logging"
)

// defaultBatchSize is how many images are downloaded concurrently
// during the image collection stage. Batches run strictly one after
// another, so this is also the upper bound on in-flight downloads.
const defaultBatchSize = 5

// Stage boundaries on the overall 0-100 progress scale. Data fetch
// owns the first slice, image collection the middle, packaging the
// rest.
const (
	dataFetchDone       = 10
	imageCollectionDone = 60
	packagingDone       = 100
)

// ImageCache is the cover art store surface the backup engine needs.
// *imagecache.Store satisfies it; tests substitute in-memory fakes.
type ImageCache interface {
	Materialize(ctx context.Context, url string) ([]byte, error)
	ListAll(ctx context.Context) ([]imagecache.Image, error)
	Restore(ctx context.Context, images []imagecache.Image) (int, error)
	Stats(ctx context.Context) (imagecache.Stats, error)
}

// ProgressSink receives progress updates from a running operation.
// *events.ProgressPublisher satisfies it. Delivery is best effort; the
// engine never blocks on or fails because of the sink.
type ProgressSink interface {
	PublishProgress(event *events.ProgressEvent)
}

// BuildResult reports what went into a finished archive.
type BuildResult struct {
	Metadata     Metadata
	ImagesCached int
	ImagesFailed int
	Failures     []MaterializationFailure
}

// Builder assembles backup archives. One Builder is shared across
// requests; Build itself carries no state between calls.
type Builder struct {
	store     DataStore
	cache     ImageCache
	sink      ProgressSink
	batchSize int
}

// NewBuilder creates an archive builder. sink may be nil, in which
// case progress reporting is skipped.
func NewBuilder(store DataStore, cache ImageCache, sink ProgressSink) *Builder {
	return &Builder{
		store:     store,
		cache:     cache,
		sink:      sink,
		batchSize: defaultBatchSize,
	}
}

// SetBatchSize overrides the image materialization batch size.
// Values below 1 keep the default. Call before the first Build;
// the builder does not synchronize this field.
func (b *Builder) SetBatchSize(n int) {
	if n >= 1 {
		b.batchSize = n
	}
}

// ArchiveFilename returns the download filename for an archive built
// on the given day, e.g. "backlogus-backup-2026-08-25.zip".
func ArchiveFilename(now time.Time) string {
	return fmt.Sprintf("backlogus-backup-%s.zip", now.Format("2006-01-02"))
}

// Build exports one account into a zip archive written to w.
//
// The run has three stages. Data fetch loads the account's snapshot
// from the relational store. Image collection materializes every
// referenced image into the cache, five at a time; a failed download
// is recorded and skipped, never fatal. Packaging streams the
// document, a manifest, and the full image cache into the zip.
//
// Any store, cache listing, or packaging failure aborts the build
// with an error wrapping ErrBuildFailed. The cause stays in the chain,
// so errors.Is recognizes a missing account through the wrapper.
func (b *Builder) Build(ctx context.Context, userID int64, w io.Writer) (*BuildResult, error) {
	opID := logging.OperationIDFromContext(ctx)
	start := time.Now()

	b.report(ctx, userID, events.StageDataFetch, 0, "loading account data")

	snap, err := LoadSnapshot(ctx, b.store, userID)
	if err != nil {
		return nil, buildErr("loading account data", err)
	}
	doc := NewDocument(snap)
	b.report(ctx, userID, events.StageDataFetch, dataFetchDone,
		fmt.Sprintf("loaded %d game and %d movie entries",
			doc.Metadata.UserGamesCount, doc.Metadata.UserMoviesCount))

	urls := CollectImageURLs(snap)
	cached, failures, err := b.materializeImages(ctx, userID, urls)
	if err != nil {
		return nil, buildErr("collecting images", err)
	}

	images, err := b.cache.ListAll(ctx)
	if err != nil {
		return nil, buildErr("listing image cache", err)
	}
	doc.Metadata.TotalImages = len(images)

	if err := b.writeArchive(ctx, userID, w, doc, images); err != nil {
		return nil, err
	}
	b.report(ctx, userID, events.StagePackaging, packagingDone, "archive complete")

	logging.Ctx(ctx).Info().
		Int64("user_id", userID).
		Str("operation_id", opID).
		Int("images", len(images)).
		Int("image_failures", len(failures)).
		Dur("elapsed", time.Since(start)).
		Msg("Backup archive built")

	return &BuildResult{
		Metadata:     doc.Metadata,
		ImagesCached: cached,
		ImagesFailed: len(failures),
		Failures:     failures,
	}, nil
}

// materializeImages downloads every URL into the cache in fixed-size
// batches. A batch's downloads run concurrently; the next batch does
// not start until every download in the current one has returned.
// Individual failures are collected, not raised: one dead CDN link
// must not sink the whole export.
func (b *Builder) materializeImages(ctx context.Context, userID int64, urls []string) (int, []MaterializationFailure, error) {
	total := len(urls)
	if total == 0 {
		b.report(ctx, userID, events.StageImageCollection, imageCollectionDone, "no images referenced")
		return 0, nil, nil
	}

	cached := 0
	var failures []MaterializationFailure

	for batchStart := 0; batchStart < total; batchStart += b.batchSize {
		if err := ctx.Err(); err != nil {
			return cached, failures, err
		}

		end := min(batchStart+b.batchSize, total)
		batch := urls[batchStart:end]
		errs := make([]error, len(batch))

		var wg sync.WaitGroup
		for i, url := range batch {
			wg.Add(1)
			go func(i int, url string) {
				defer wg.Done()
				_, err := b.cache.Materialize(ctx, url)
				errs[i] = err
			}(i, url)
		}
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				failures = append(failures, MaterializationFailure{URL: batch[i], Err: err})
				logging.Ctx(ctx).Warn().
					Str("url", batch[i]).
					Err(err).
					Msg("Image download failed, continuing")
				continue
			}
			cached++
		}

		span := imageCollectionDone - dataFetchDone
		percent := dataFetchDone + span*end/total
		b.report(ctx, userID, events.StageImageCollection, percent,
			fmt.Sprintf("%d/%d images cached", cached, total))
	}

	return cached, failures, nil
}

// writeArchive streams the document, manifest, and images into w as a
// zip. Entries are written in a fixed order so identical inputs
// produce byte-comparable archives apart from timestamps.
func (b *Builder) writeArchive(ctx context.Context, userID int64, w io.Writer, doc *Document, images []imagecache.Image) error {
	zw := zip.NewWriter(w)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return buildErr("encoding document", err)
	}
	if err := writeZipEntry(zw, documentFilename, data); err != nil {
		return buildErr("writing document", err)
	}
	if err := writeZipEntry(zw, manifestFilename, buildManifest(doc)); err != nil {
		return buildErr("writing manifest", err)
	}

	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return buildErr("packaging images", err)
		}
		if err := writeZipEntry(zw, imagesPrefix+img.Filename, img.Data); err != nil {
			return buildErr(fmt.Sprintf("writing image %s", img.Filename), err)
		}

		span := packagingDone - imageCollectionDone
		percent := imageCollectionDone + span*(i+1)/len(images)
		b.report(ctx, userID, events.StagePackaging, percent,
			fmt.Sprintf("%d/%d images packaged", i+1, len(images)))
	}

	if err := zw.Close(); err != nil {
		return buildErr("finalizing archive", err)
	}
	return nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	entry, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = entry.Write(data)
	return err
}

// buildManifest renders the human-readable summary packed next to the
// document. Nothing parses it back; it exists so someone unzipping an
// archive by hand can see what they have.
func buildManifest(doc *Document) []byte {
	return fmt.Appendf(nil,
		"BackLogus backup archive\n"+
			"version: %s\n"+
			"created: %s\n"+
			"account: %s\n"+
			"games: %d shared, %d library entries\n"+
			"movies: %d shared, %d library entries\n"+
			"credentials: %d\n"+
			"images: %d\n",
		doc.Metadata.Version,
		doc.Metadata.Created.Format(time.RFC3339),
		doc.User.Email,
		doc.Metadata.TotalGames, doc.Metadata.UserGamesCount,
		doc.Metadata.TotalMovies, doc.Metadata.UserMoviesCount,
		len(doc.APICredentials),
		doc.Metadata.TotalImages)
}

// report publishes one progress event. The operation ID rides in on
// the context, stamped by the API handler that started the run.
func (b *Builder) report(ctx context.Context, userID int64, stage string, percent int, message string) {
	if b.sink == nil {
		return
	}
	b.sink.PublishProgress(&events.ProgressEvent{
		OperationID: logging.OperationIDFromContext(ctx),
		UserID:      userID,
		Stage:       stage,
		Percent:     percent,
		Message:     message,
	})
}

func buildErr(stage string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBuildFailed, stage, err)
}
