// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package catalog

import (
	"context"
	"fmt"
)

// SubsonicMapping is one local-recording-to-remote-song-id pair staged by
// the remote-catalog sync.
type SubsonicMapping struct {
	RecordingID int64
	SubsonicID  string
}

// ApplySubsonicBatch upserts a batch of recording-to-subsonic-id mappings
// in one transaction: insert new rows, update subsonic_id/last_updated for
// rows whose recording_id already exists.
func (c *Catalog) ApplySubsonicBatch(ctx context.Context, mappings []SubsonicMapping) error {
	if len(mappings) == 0 {
		return nil
	}

	tx, err := c.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin subsonic batch: %w", err)
	}
	defer tx.Rollback()

	for _, m := range mappings {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recording_subsonic (recording_id, subsonic_id, last_updated)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (recording_id) DO UPDATE SET
				subsonic_id = excluded.subsonic_id, last_updated = CURRENT_TIMESTAMP`,
			m.RecordingID, m.SubsonicID)
		if err != nil {
			return fmt.Errorf("catalog: upsert recording_subsonic for %d: %w", m.RecordingID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit subsonic batch: %w", err)
	}
	return nil
}
