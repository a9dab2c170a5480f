// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/nelsonportela/BackLogus/internal/imagecache"
)

// ParsedArchive is the result of reading a backup archive. Metadata
// and User point into the parsed document; they are split out because
// validation and restore consult them constantly.
type ParsedArchive struct {
	Metadata    *Metadata
	User        *UserProfile
	Document    *Document
	Credentials []CredentialRecord
	Images      []imagecache.Image
}

// ParseFile opens an archive on disk and parses it. A container that
// cannot be opened as a zip is reported as ErrCorruptArchive.
func ParseFile(name string) (*ParsedArchive, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	defer zr.Close()
	return Parse(&zr.Reader)
}

// Parse walks the archive's entries and classifies each by name:
// data.json becomes the document, entries under images/ become cache
// images, and everything else, the manifest included, is ignored.
// Entries are decompressed one at a time; at most one read stream is
// open at any point.
//
// After the walk the archive must have produced a document with
// metadata and a user profile, otherwise ErrInvalidArchive is
// returned. Validation happens here, before the restore path touches
// the database, so a bad upload is rejected without a single write.
func Parse(zr *zip.Reader) (*ParsedArchive, error) {
	parsed := &ParsedArchive{}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch {
		case f.Name == documentFilename:
			if err := parsed.readDocument(f); err != nil {
				return nil, err
			}
		case strings.HasPrefix(f.Name, imagesPrefix):
			if err := parsed.readImage(f); err != nil {
				return nil, err
			}
		}
	}

	if err := parsed.validate(); err != nil {
		return nil, err
	}
	return parsed, nil
}

func (p *ParsedArchive) readDocument(f *zip.File) error {
	data, err := readEntry(f)
	if err != nil {
		return err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidArchive, f.Name, err)
	}

	p.Document = &doc
	p.Metadata = &doc.Metadata
	p.User = &doc.User
	p.Credentials = doc.APICredentials
	return nil
}

func (p *ParsedArchive) readImage(f *zip.File) error {
	data, err := readEntry(f)
	if err != nil {
		return err
	}

	// Base strips any directory component, so a crafted entry name
	// cannot smuggle a path into the cache keyspace.
	filename := path.Base(f.Name)
	if filename == "." || filename == "/" {
		return nil
	}

	p.Images = append(p.Images, imagecache.Image{
		Filename: filename,
		Data:     data,
		Size:     int64(len(data)),
	})
	return nil
}

// readEntry decompresses one entry. The stream is closed before
// returning, keeping the one-open-stream guarantee. A decompression
// failure means the container itself is damaged.
func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrCorruptArchive, f.Name, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCorruptArchive, f.Name, err)
	}
	return data, nil
}

func (p *ParsedArchive) validate() error {
	if p.Document == nil {
		return fmt.Errorf("%w: missing %s", ErrInvalidArchive, documentFilename)
	}
	if p.Metadata == nil || p.Metadata.Version == "" {
		return fmt.Errorf("%w: document has no metadata", ErrInvalidArchive)
	}
	if p.User == nil || p.User.ID == 0 {
		return fmt.Errorf("%w: document has no user profile", ErrInvalidArchive)
	}
	return nil
}
