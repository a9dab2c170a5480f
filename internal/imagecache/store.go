// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package imagecache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/nelsonportela/BackLogus/internal/config"
	"github.com/nelsonportela/BackLogus/internal/logging"
	"github.com/nelsonportela/BackLogus/internal/metrics"
)

// keyPrefix namespaces image entries inside the BadgerDB keyspace.
const keyPrefix = "img:"

// Image is one cached artwork entry.
type Image struct {
	Filename string
	Data     []byte
	Size     int64
}

// Stats summarizes the cache contents.
type Stats struct {
	Count     int   `json:"count"`
	TotalSize int64 `json:"total_size"`
}

// Store is the BadgerDB-backed image cache.
type Store struct {
	db      *badger.DB
	fetcher *Fetcher
}

// Open creates or opens the cache at the configured directory.
func Open(cfg *config.ImageCacheConfig) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open image cache at %s: %w", cfg.Dir, err)
	}

	logging.Info().Str("dir", cfg.Dir).Msg("Image cache opened")
	return &Store{db: db, fetcher: NewFetcher(cfg)}, nil
}

// Close releases the underlying BadgerDB handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Materialize returns the cached bytes for a URL, downloading and
// persisting them first on a cache miss. The write happens before the
// bytes are returned, so a successful call always leaves the image on
// disk for a later ListAll.
func (s *Store) Materialize(ctx context.Context, rawURL string) ([]byte, error) {
	filename := CacheFilename(rawURL)

	data, err := s.get(filename)
	if err == nil {
		metrics.RecordImageCacheHit()
		return data, nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("read cached %s: %w", filename, err)
	}
	metrics.RecordImageCacheMiss()

	data, err = s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if err := s.put(filename, data); err != nil {
		return nil, fmt.Errorf("store %s: %w", filename, err)
	}
	return data, nil
}

// ListAll returns every cached image with its bytes. Export packaging
// calls this after materialization so archives include artwork cached
// by earlier runs as well as this run's downloads.
func (s *Store) ListAll(ctx context.Context) ([]Image, error) {
	var images []Image

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			item := it.Item()
			filename := strings.TrimPrefix(string(item.Key()), keyPrefix)
			data, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read %s: %w", filename, err)
			}
			images = append(images, Image{Filename: filename, Data: data, Size: int64(len(data))})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// Restore writes archived images back into the cache. A bad entry is
// skipped rather than aborting the rest; the returned count says how
// many landed and the joined error carries the per-file failures.
func (s *Store) Restore(ctx context.Context, images []Image) (int, error) {
	restored := 0
	var failures []error

	for _, img := range images {
		select {
		case <-ctx.Done():
			return restored, ctx.Err()
		default:
		}

		if img.Filename == "" || len(img.Data) == 0 {
			failures = append(failures, fmt.Errorf("skip %q: empty filename or data", img.Filename))
			continue
		}
		if err := s.put(img.Filename, img.Data); err != nil {
			failures = append(failures, fmt.Errorf("restore %s: %w", img.Filename, err))
			continue
		}
		restored++
	}
	return restored, errors.Join(failures...)
}

// Stats counts cached images and sums their stored sizes.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			stats.Count++
			stats.TotalSize += it.Item().ValueSize()
		}
		return nil
	})
	if err == nil {
		metrics.SetImageCacheStats(stats.Count, stats.TotalSize)
	}
	return stats, err
}

// RunGC reclaims BadgerDB value log space until a pass rewrites
// nothing. Safe to call while reads and writes are in flight.
func (s *Store) RunGC() error {
	for {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
	return nil
}

func (s *Store) get(filename string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + filename))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	return data, err
}

func (s *Store) put(filename string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+filename), data)
	})
}
