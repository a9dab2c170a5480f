// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/nelsonportela/BackLogus/internal/database"
	"github.com/nelsonportela/BackLogus/internal/events"
	"github.com/nelsonportela/BackLogus/internal/imagecache"
	"github.com/nelsonportela/BackLogus/internal/models"
)

// mockStore serves a canned snapshot.
type mockStore struct {
	snap    *Snapshot
	loadErr error
}

func (m *mockStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.snap.User, nil
}

func (m *mockStore) ListUserGames(ctx context.Context, userID int64) ([]models.UserGame, error) {
	return m.snap.UserGames, nil
}

func (m *mockStore) ListUserMovies(ctx context.Context, userID int64) ([]models.UserMovie, error) {
	return m.snap.UserMovies, nil
}

func (m *mockStore) ListCredentials(ctx context.Context, userID int64) ([]models.APICredential, error) {
	return m.snap.Credentials, nil
}

// fetchRecord captures when one Materialize call ran.
type fetchRecord struct {
	url   string
	start time.Time
	end   time.Time
}

// mockCache is an in-memory ImageCache that records call timing so
// tests can prove how downloads were scheduled.
type mockCache struct {
	mu          sync.Mutex
	stored      []imagecache.Image
	index       map[string]int
	fetches     []fetchRecord
	inFlight    int
	maxInFlight int
	fail        map[string]bool
	delay       time.Duration
	listErr     error
}

func newMockCache() *mockCache {
	return &mockCache{
		index: make(map[string]int),
		fail:  make(map[string]bool),
	}
}

func (c *mockCache) Materialize(ctx context.Context, url string) ([]byte, error) {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.maxInFlight {
		c.maxInFlight = c.inFlight
	}
	start := time.Now()
	c.mu.Unlock()

	if c.delay > 0 {
		time.Sleep(c.delay)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
	c.fetches = append(c.fetches, fetchRecord{url: url, start: start, end: time.Now()})

	if c.fail[url] {
		return nil, fmt.Errorf("fetch %s: unexpected status 404", url)
	}
	data := []byte("img:" + url)
	c.putLocked(imagecache.CacheFilename(url), data)
	return data, nil
}

func (c *mockCache) ListAll(ctx context.Context) ([]imagecache.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	out := make([]imagecache.Image, len(c.stored))
	copy(out, c.stored)
	return out, nil
}

func (c *mockCache) Restore(ctx context.Context, images []imagecache.Image) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	restored := 0
	var failures []error
	for _, img := range images {
		if c.fail[img.Filename] {
			failures = append(failures, fmt.Errorf("restore %s: write failed", img.Filename))
			continue
		}
		c.putLocked(img.Filename, img.Data)
		restored++
	}
	return restored, errors.Join(failures...)
}

func (c *mockCache) Stats(ctx context.Context) (imagecache.Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := imagecache.Stats{Count: len(c.stored)}
	for _, img := range c.stored {
		stats.TotalSize += img.Size
	}
	return stats, nil
}

func (c *mockCache) putLocked(filename string, data []byte) {
	img := imagecache.Image{Filename: filename, Data: data, Size: int64(len(data))}
	if i, ok := c.index[filename]; ok {
		c.stored[i] = img
		return
	}
	c.index[filename] = len(c.stored)
	c.stored = append(c.stored, img)
}

func (c *mockCache) has(filename string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.index[filename]
	return ok
}

// recordingSink captures progress events in order.
type recordingSink struct {
	mu     sync.Mutex
	events []events.ProgressEvent
}

func (s *recordingSink) PublishProgress(e *events.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *e)
}

func (s *recordingSink) all() []events.ProgressEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.ProgressEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *recordingSink) byStage(stage string) []events.ProgressEvent {
	var out []events.ProgressEvent
	for _, e := range s.all() {
		if e.Stage == stage {
			out = append(out, e)
		}
	}
	return out
}

func artURLs(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://images.example.com/art/%02d.jpg", i)
	}
	return urls
}

// snapshotWithImages builds a snapshot whose referenced image URLs are
// exactly urls, in order.
func snapshotWithImages(urls []string) *Snapshot {
	return &Snapshot{
		User: &models.User{ID: 1, Email: "ana@example.com"},
		UserGames: []models.UserGame{
			{ID: 1, UserID: 1, GameID: 1, Status: models.GameStatusPlaying,
				Game: &models.Game{ID: 1, IgdbID: 5001, Name: "Celeste", Screenshots: urls}},
		},
	}
}

func readArchive(t *testing.T, data []byte) (*Document, []string) {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("failed to open built archive: %v", err)
	}

	var doc *Document
	var imageNames []string
	for _, f := range zr.File {
		switch {
		case f.Name == "data.json":
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("failed to open data.json: %v", err)
			}
			raw, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				t.Fatalf("failed to read data.json: %v", err)
			}
			doc = &Document{}
			if err := json.Unmarshal(raw, doc); err != nil {
				t.Fatalf("failed to parse data.json: %v", err)
			}
		case strings.HasPrefix(f.Name, "images/"):
			imageNames = append(imageNames, f.Name)
		}
	}
	if doc == nil {
		t.Fatal("built archive has no data.json")
	}
	return doc, imageNames
}

// Twelve URLs with a five-wide batch must produce three batches of
// 5, 5, and 2 downloads, and a batch must not start until the previous
// one has fully finished.
func TestBuildDownloadsImagesInSequentialBatches(t *testing.T) {
	urls := artURLs(12)
	cache := newMockCache()
	cache.delay = 15 * time.Millisecond
	sink := &recordingSink{}
	builder := NewBuilder(&mockStore{snap: snapshotWithImages(urls)}, cache, sink)

	var buf bytes.Buffer
	result, err := builder.Build(context.Background(), 1, &buf)
	if err != nil {
		t.Fatalf("expected build to succeed, got %v", err)
	}
	if result.ImagesCached != 12 || result.ImagesFailed != 0 {
		t.Errorf("expected 12 cached and 0 failed, got %d and %d",
			result.ImagesCached, result.ImagesFailed)
	}
	if len(cache.fetches) != 12 {
		t.Fatalf("expected 12 downloads, got %d", len(cache.fetches))
	}
	if cache.maxInFlight > 5 {
		t.Errorf("expected at most 5 concurrent downloads, saw %d", cache.maxInFlight)
	}

	// URL index encodes the expected batch: 0-4, 5-9, 10-11.
	batchOf := func(url string) int {
		var i int
		if _, err := fmt.Sscanf(url, "https://images.example.com/art/%02d.jpg", &i); err != nil {
			t.Fatalf("unexpected URL %q: %v", url, err)
		}
		return i / 5
	}

	counts := make(map[int]int)
	firstStart := make(map[int]time.Time)
	lastEnd := make(map[int]time.Time)
	for _, f := range cache.fetches {
		b := batchOf(f.url)
		counts[b]++
		if s, ok := firstStart[b]; !ok || f.start.Before(s) {
			firstStart[b] = f.start
		}
		if e, ok := lastEnd[b]; !ok || f.end.After(e) {
			lastEnd[b] = f.end
		}
	}

	for b, want := range map[int]int{0: 5, 1: 5, 2: 2} {
		if counts[b] != want {
			t.Errorf("expected batch %d to hold %d downloads, got %d", b, want, counts[b])
		}
	}
	for b := 1; b <= 2; b++ {
		if firstStart[b].Before(lastEnd[b-1]) {
			t.Errorf("batch %d started at %v before batch %d finished at %v",
				b, firstStart[b], b-1, lastEnd[b-1])
		}
	}

	progress := sink.byStage(events.StageImageCollection)
	if len(progress) != 3 {
		t.Fatalf("expected 3 image-collection updates, got %d", len(progress))
	}
	for i, wantMsg := range []string{"5/12 images cached", "10/12 images cached", "12/12 images cached"} {
		if progress[i].Message != wantMsg {
			t.Errorf("expected update %d to say %q, got %q", i, wantMsg, progress[i].Message)
		}
	}
}

// Two dead links out of seven must cost exactly those two images and
// nothing else.
func TestBuildRecordsFailuresAndPackagesTheRest(t *testing.T) {
	urls := artURLs(7)
	cache := newMockCache()
	cache.fail[urls[2]] = true
	cache.fail[urls[5]] = true
	builder := NewBuilder(&mockStore{snap: snapshotWithImages(urls)}, cache, nil)

	var buf bytes.Buffer
	result, err := builder.Build(context.Background(), 1, &buf)
	if err != nil {
		t.Fatalf("expected build to survive download failures, got %v", err)
	}

	if result.ImagesCached != 5 || result.ImagesFailed != 2 {
		t.Errorf("expected 5 cached and 2 failed, got %d and %d",
			result.ImagesCached, result.ImagesFailed)
	}
	failedURLs := make(map[string]bool)
	for _, f := range result.Failures {
		failedURLs[f.URL] = true
	}
	if !failedURLs[urls[2]] || !failedURLs[urls[5]] {
		t.Errorf("expected failures for urls 2 and 5, got %v", result.Failures)
	}

	doc, imageNames := readArchive(t, buf.Bytes())
	if len(imageNames) != 5 {
		t.Errorf("expected exactly 5 packaged images, got %d: %v", len(imageNames), imageNames)
	}
	if doc.Metadata.TotalImages != 5 {
		t.Errorf("expected metadata to count 5 images, got %d", doc.Metadata.TotalImages)
	}
}

func TestBuildIncludesPreviouslyCachedImages(t *testing.T) {
	cache := newMockCache()
	cache.putLocked("leftover-from-last-run.jpg", []byte("old bytes"))
	builder := NewBuilder(&mockStore{snap: snapshotWithImages(nil)}, cache, nil)

	var buf bytes.Buffer
	result, err := builder.Build(context.Background(), 1, &buf)
	if err != nil {
		t.Fatalf("expected build to succeed, got %v", err)
	}
	if result.ImagesCached != 0 {
		t.Errorf("expected no new downloads, got %d", result.ImagesCached)
	}

	doc, imageNames := readArchive(t, buf.Bytes())
	if len(imageNames) != 1 || imageNames[0] != "images/leftover-from-last-run.jpg" {
		t.Errorf("expected the previously cached image to be packaged, got %v", imageNames)
	}
	if doc.Metadata.TotalImages != 1 {
		t.Errorf("expected metadata to count 1 image, got %d", doc.Metadata.TotalImages)
	}
}

func TestBuildRoundTripsThroughParse(t *testing.T) {
	urls := artURLs(3)
	snap := snapshotWithImages(urls)
	snap.UserMovies = []models.UserMovie{
		{ID: 2, UserID: 1, MovieID: 9, Status: models.MovieStatusWatched,
			Movie: &models.Movie{ID: 9, TmdbID: 7001, Title: "Arrival"}},
	}
	snap.Credentials = []models.APICredential{
		{ID: 3, UserID: 1, Provider: models.ProviderIGDB, ClientID: "cid", ClientSecret: strPtr("secret")},
	}

	builder := NewBuilder(&mockStore{snap: snap}, newMockCache(), nil)
	var buf bytes.Buffer
	if _, err := builder.Build(context.Background(), 1, &buf); err != nil {
		t.Fatalf("expected build to succeed, got %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("failed to reopen archive: %v", err)
	}
	parsed, err := Parse(zr)
	if err != nil {
		t.Fatalf("expected built archive to parse, got %v", err)
	}

	if parsed.User.Email != "ana@example.com" {
		t.Errorf("expected archived email ana@example.com, got %q", parsed.User.Email)
	}
	if len(parsed.Document.UserGames) != 1 || len(parsed.Document.UserMovies) != 1 {
		t.Errorf("expected 1 game and 1 movie entry, got %d and %d",
			len(parsed.Document.UserGames), len(parsed.Document.UserMovies))
	}
	if len(parsed.Credentials) != 1 || parsed.Credentials[0].ClientID != "cid" {
		t.Errorf("expected the credential to round-trip, got %v", parsed.Credentials)
	}
	if len(parsed.Images) != 3 {
		t.Errorf("expected 3 images, got %d", len(parsed.Images))
	}
	if parsed.Metadata.TotalImages != 3 {
		t.Errorf("expected metadata image count 3, got %d", parsed.Metadata.TotalImages)
	}
}

func TestBuildMissingAccount(t *testing.T) {
	builder := NewBuilder(&mockStore{loadErr: database.ErrUserNotFound}, newMockCache(), nil)

	_, err := builder.Build(context.Background(), 404, io.Discard)
	if !errors.Is(err, ErrBuildFailed) {
		t.Errorf("expected ErrBuildFailed, got %v", err)
	}
	if !errors.Is(err, database.ErrUserNotFound) {
		t.Errorf("expected the not-found cause to stay visible, got %v", err)
	}
}

func TestBuildCacheListFailure(t *testing.T) {
	cache := newMockCache()
	cache.listErr = errors.New("value log unreadable")
	builder := NewBuilder(&mockStore{snap: snapshotWithImages(nil)}, cache, nil)

	_, err := builder.Build(context.Background(), 1, io.Discard)
	if !errors.Is(err, ErrBuildFailed) {
		t.Errorf("expected ErrBuildFailed, got %v", err)
	}
}

func TestBuildProgressIsMonotonicAndFinishesAtHundred(t *testing.T) {
	sink := &recordingSink{}
	builder := NewBuilder(&mockStore{snap: snapshotWithImages(artURLs(4))}, newMockCache(), sink)

	var buf bytes.Buffer
	if _, err := builder.Build(context.Background(), 1, &buf); err != nil {
		t.Fatalf("expected build to succeed, got %v", err)
	}

	all := sink.all()
	if len(all) == 0 {
		t.Fatal("expected progress events")
	}
	if first := all[0]; first.Stage != events.StageDataFetch || first.Percent != 0 {
		t.Errorf("expected first event data-fetch at 0, got %s at %d", first.Stage, first.Percent)
	}
	for i := 1; i < len(all); i++ {
		if all[i].Percent < all[i-1].Percent {
			t.Errorf("percent went backwards at event %d: %d after %d",
				i, all[i].Percent, all[i-1].Percent)
		}
	}
	if last := all[len(all)-1]; last.Stage != events.StagePackaging || last.Percent != 100 {
		t.Errorf("expected final event packaging at 100, got %s at %d", last.Stage, last.Percent)
	}
	for _, e := range all {
		if e.UserID != 1 {
			t.Errorf("expected events for user 1, got %d", e.UserID)
		}
	}
}

func TestArchiveFilename(t *testing.T) {
	day := time.Date(2026, time.August, 25, 14, 30, 0, 0, time.UTC)
	if got := ArchiveFilename(day); got != "backlogus-backup-2026-08-25.zip" {
		t.Errorf("expected backlogus-backup-2026-08-25.zip, got %q", got)
	}
}
