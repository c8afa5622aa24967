// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package catalog

import (
	"context"
	"fmt"
)

// ListDuplicateRecordingMBIDs groups recordings by recording_mbid having
// more than one row, returning each group's file paths. Duplicates are a
// first-class concept: they are reported, never collapsed.
func (c *Catalog) ListDuplicateRecordingMBIDs(ctx context.Context) ([]DuplicateGroup, error) {
	rows, err := c.db.Conn().QueryContext(ctx, `
		SELECT recording_mbid FROM recordings
		WHERE recording_mbid IS NOT NULL
		GROUP BY recording_mbid
		HAVING COUNT(*) > 1
		ORDER BY recording_mbid`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list duplicate mbids: %w", err)
	}

	var mbids []string
	for rows.Next() {
		var mbid string
		if err := rows.Scan(&mbid); err != nil {
			rows.Close()
			return nil, fmt.Errorf("catalog: scan duplicate mbid: %w", err)
		}
		mbids = append(mbids, mbid)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("catalog: iterate duplicate mbids: %w", err)
	}
	rows.Close()

	groups := make([]DuplicateGroup, 0, len(mbids))
	for _, mbid := range mbids {
		pathRows, err := c.db.Conn().QueryContext(ctx,
			`SELECT file_path FROM recordings WHERE recording_mbid = ? ORDER BY file_path`, mbid)
		if err != nil {
			return nil, fmt.Errorf("catalog: list paths for duplicate %q: %w", mbid, err)
		}

		var paths []string
		for pathRows.Next() {
			var p string
			if err := pathRows.Scan(&p); err != nil {
				pathRows.Close()
				return nil, fmt.Errorf("catalog: scan duplicate path: %w", err)
			}
			paths = append(paths, p)
		}
		if err := pathRows.Err(); err != nil {
			pathRows.Close()
			return nil, fmt.Errorf("catalog: iterate duplicate paths: %w", err)
		}
		pathRows.Close()

		groups = append(groups, DuplicateGroup{RecordingMBID: mbid, FilePaths: paths})
	}

	return groups, nil
}
