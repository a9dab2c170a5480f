// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

/*
Package backup implements library export and import as zip archives.

Archive Structure:

	backlogus-backup-2026-08-25.zip
	├── data.json       (library document: metadata, profile, media, entries, credentials)
	├── manifest.txt    (human-readable summary)
	└── images/
	    ├── 3f2a...e1.jpg
	    └── 9bc4...07.png

Export Process:
 1. Load the account's snapshot: profile, library entries with their
    joined media rows, and API credentials
 2. Collect every image URL the snapshot references and materialize
    them into the image cache in small concurrent batches
 3. Package the document, manifest, and every cached image into the
    zip stream

Import Process:
 1. Parse the archive in one pass, classifying entries by path
 2. Validate the parsed pieces before touching the database
 3. Replace the account's data in a single transaction, remapping
    media IDs as new rows are inserted
 4. Write archived images back to the cache after commit, best effort

A failed image download never fails an export; the archive simply
carries fewer images. A failed import leaves the database exactly as
it was.
*/
package backup
