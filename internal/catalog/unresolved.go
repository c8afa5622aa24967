// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package catalog

import (
	"context"
	"fmt"
)

// AddUnresolved upserts recordingMBID into the unresolved tracker,
// incrementing lookup_count (new rows start at 1). artistName and
// recordingName are stored for display during release-grouped reporting.
func (c *Catalog) AddUnresolved(ctx context.Context, recordingMBID, artistName, recordingName string) error {
	if recordingMBID == "" {
		return nil
	}
	_, err := c.db.Conn().ExecContext(ctx, `
		INSERT INTO unresolved_recordings (recording_mbid, artist_name, recording_name, lookup_count, last_seen)
		VALUES (?, ?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (recording_mbid) DO UPDATE SET
			lookup_count = unresolved_recordings.lookup_count + 1,
			last_seen = CURRENT_TIMESTAMP`,
		recordingMBID, nullable(artistName), nullable(recordingName))
	if err != nil {
		return fmt.Errorf("catalog: add unresolved %q: %w", recordingMBID, err)
	}
	return nil
}

// ClearUnresolved removes recordingMBID from the tracker, called when a
// newly scanned recording resolves an identifier that was previously
// unresolved.
func (c *Catalog) ClearUnresolved(ctx context.Context, recordingMBID string) error {
	if recordingMBID == "" {
		return nil
	}
	_, err := c.db.Conn().ExecContext(ctx, `DELETE FROM unresolved_recordings WHERE recording_mbid = ?`, recordingMBID)
	if err != nil {
		return fmt.Errorf("catalog: clear unresolved %q: %w", recordingMBID, err)
	}
	return nil
}

// ListUnresolved returns all unresolved recordings ordered by lookup_count
// descending, for the reporting operation to group by release.
func (c *Catalog) ListUnresolved(ctx context.Context) ([]UnresolvedRecording, error) {
	rows, err := c.db.Conn().QueryContext(ctx, `
		SELECT recording_mbid, artist_name, recording_name, lookup_count, last_seen
		FROM unresolved_recordings ORDER BY lookup_count DESC`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list unresolved: %w", err)
	}
	defer rows.Close()

	var out []UnresolvedRecording
	for rows.Next() {
		var u UnresolvedRecording
		var artist, recording *string
		if err := rows.Scan(&u.RecordingMBID, &artist, &recording, &u.LookupCount, &u.LastSeen); err != nil {
			return nil, fmt.Errorf("catalog: scan unresolved: %w", err)
		}
		if artist != nil {
			u.ArtistName = *artist
		}
		if recording != nil {
			u.RecordingName = *recording
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
