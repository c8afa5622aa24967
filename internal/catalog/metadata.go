// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// TagAssociation is one (tag, entity) pair to attach to a recording during
// a metadata enrichment batch.
type TagAssociation struct {
	TagName string
	Entity  TagEntity
}

// ApplyEnrichmentBatch performs the metadata enricher's per-batch write, in
// one transaction: upsert RecordingMetadata, delete all existing
// RecordingTag rows for the batch's recordings, upsert Tag rows, and insert
// the new RecordingTag rows. Tag replacement is always full-delete-then-
// insert, never additive, per the catalog's RecordingTag invariant.
func (c *Catalog) ApplyEnrichmentBatch(ctx context.Context, popularity map[int64]float64, tags map[int64][]TagAssociation) error {
	tx, err := c.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin enrichment batch: %w", err)
	}
	defer tx.Rollback()

	for recordingID, pop := range popularity {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recording_metadata (recording_id, popularity, last_updated)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (recording_id) DO UPDATE SET
				popularity = excluded.popularity, last_updated = CURRENT_TIMESTAMP`,
			recordingID, pop)
		if err != nil {
			return fmt.Errorf("catalog: upsert recording_metadata for %d: %w", recordingID, err)
		}
	}

	for recordingID, assocs := range tags {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recording_tags WHERE recording_id = ?`, recordingID); err != nil {
			return fmt.Errorf("catalog: delete stale recording_tags for %d: %w", recordingID, err)
		}

		for _, a := range assocs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tags (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, a.TagName); err != nil {
				return fmt.Errorf("catalog: upsert tag %q: %w", a.TagName, err)
			}

			_, err := tx.ExecContext(ctx, `
				INSERT INTO recording_tags (recording_id, tag_name, entity, last_updated)
				VALUES (?, ?, ?, CURRENT_TIMESTAMP)
				ON CONFLICT (recording_id, tag_name) DO UPDATE SET
					entity = excluded.entity, last_updated = CURRENT_TIMESTAMP`,
				recordingID, a.TagName, string(a.Entity))
			if err != nil {
				return fmt.Errorf("catalog: insert recording_tag (%d, %q): %w", recordingID, a.TagName, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit enrichment batch: %w", err)
	}
	return nil
}

// GetPopularity returns the stored popularity for a recording, or
// (0, false) if no RecordingMetadata row exists.
func (c *Catalog) GetPopularity(ctx context.Context, recordingID int64) (float64, bool, error) {
	var pop float64
	err := c.db.Conn().QueryRowContext(ctx, `SELECT popularity FROM recording_metadata WHERE recording_id = ?`, recordingID).Scan(&pop)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("catalog: get popularity: %w", err)
	}
	return pop, true, nil
}

// TopTags reports the n most-used tags across the catalog by distinct
// recording count.
func (c *Catalog) TopTags(ctx context.Context, n int) ([]TagCount, error) {
	rows, err := c.db.Conn().QueryContext(ctx, `
		SELECT tag_name, COUNT(DISTINCT recording_id) AS recording_count
		FROM recording_tags
		GROUP BY tag_name
		ORDER BY recording_count DESC, tag_name ASC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("catalog: top tags: %w", err)
	}
	defer rows.Close()

	var out []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Name, &tc.RecordingCount); err != nil {
			return nil, fmt.Errorf("catalog: scan top tag: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// TagCount is a tag name paired with how many distinct recordings carry it.
type TagCount struct {
	Name           string
	RecordingCount int64
}
