// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// nullable turns an empty string into a SQL NULL, matching the catalog's
// convention that unparsed/absent identifiers are stored as NULL, not "".
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func strOrEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// UpsertRecording inserts a new Recording or updates the existing row for
// FilePath, keeping FilePath unique as the catalog's identity key.
func (c *Catalog) UpsertRecording(ctx context.Context, r *Recording) (int64, error) {
	var id int64
	err := c.db.Conn().QueryRowContext(ctx, `
		INSERT INTO recordings (
			file_path, file_mtime, artist_name, release_name, recording_name,
			artist_mbid, release_mbid, recording_mbid, duration_ms, track_num, disc_num, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (file_path) DO UPDATE SET
			file_mtime = excluded.file_mtime,
			artist_name = excluded.artist_name,
			release_name = excluded.release_name,
			recording_name = excluded.recording_name,
			artist_mbid = excluded.artist_mbid,
			release_mbid = excluded.release_mbid,
			recording_mbid = excluded.recording_mbid,
			duration_ms = excluded.duration_ms,
			track_num = excluded.track_num,
			disc_num = excluded.disc_num,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id`,
		r.FilePath, r.FileMtime, r.ArtistName, nullable(r.ReleaseName), r.RecordingName,
		nullable(r.ArtistMBID), nullable(r.ReleaseMBID), nullable(r.RecordingMBID),
		nullZero(r.DurationMS), r.TrackNum, discNumOrDefault(r.DiscNum),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("catalog: upsert recording %q: %w", r.FilePath, err)
	}
	return id, nil
}

// UpsertRecordingsBatch upserts every Recording in rs within a single
// transaction, returning each one's id and whether it was a new row, in
// the same order as rs. A single file's row constraints failing fails
// the whole batch; scanner.Scanner is expected to have already filtered
// out files whose tags could not be read before calling this.
func (c *Catalog) UpsertRecordingsBatch(ctx context.Context, rs []*Recording) (ids []int64, isNew []bool, err error) {
	if len(rs) == 0 {
		return nil, nil, nil
	}

	tx, err := c.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog: begin recordings batch: %w", err)
	}
	defer tx.Rollback()

	ids = make([]int64, len(rs))
	isNew = make([]bool, len(rs))

	for i, r := range rs {
		var existed bool
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM recordings WHERE file_path = ?`, r.FilePath).Scan(new(int)); err == nil {
			existed = true
		} else if err != sql.ErrNoRows {
			return nil, nil, fmt.Errorf("catalog: check existing recording %q: %w", r.FilePath, err)
		}

		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO recordings (
				file_path, file_mtime, artist_name, release_name, recording_name,
				artist_mbid, release_mbid, recording_mbid, duration_ms, track_num, disc_num, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (file_path) DO UPDATE SET
				file_mtime = excluded.file_mtime,
				artist_name = excluded.artist_name,
				release_name = excluded.release_name,
				recording_name = excluded.recording_name,
				artist_mbid = excluded.artist_mbid,
				release_mbid = excluded.release_mbid,
				recording_mbid = excluded.recording_mbid,
				duration_ms = excluded.duration_ms,
				track_num = excluded.track_num,
				disc_num = excluded.disc_num,
				updated_at = CURRENT_TIMESTAMP
			RETURNING id`,
			r.FilePath, r.FileMtime, r.ArtistName, nullable(r.ReleaseName), r.RecordingName,
			nullable(r.ArtistMBID), nullable(r.ReleaseMBID), nullable(r.RecordingMBID),
			nullZero(r.DurationMS), r.TrackNum, discNumOrDefault(r.DiscNum),
		).Scan(&id)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog: upsert recording %q: %w", r.FilePath, err)
		}

		ids[i] = id
		isNew[i] = !existed
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("catalog: commit recordings batch: %w", err)
	}
	return ids, isNew, nil
}

func nullZero(v int) interface{} {
	if v <= 0 {
		return nil
	}
	return v
}

func discNumOrDefault(v int) int {
	if v <= 0 {
		return 1
	}
	return v
}

// GetRecordingByPath returns the Recording for path, or (nil, nil) if no
// row exists: "not found" is a result variant, not an error.
func (c *Catalog) GetRecordingByPath(ctx context.Context, path string) (*Recording, error) {
	return c.scanOneRecording(ctx, `SELECT id, file_path, file_mtime, artist_name, release_name, recording_name,
		artist_mbid, release_mbid, recording_mbid, duration_ms, track_num, disc_num, created_at, updated_at
		FROM recordings WHERE file_path = ?`, path)
}

// GetRecordingByMBID returns the Recording matching recordingMBID, or
// (nil, nil) if none exists. Multiple rows sharing an MBID are a duplicate
// condition (see internal/duplicates); this returns the first encountered.
func (c *Catalog) GetRecordingByMBID(ctx context.Context, recordingMBID string) (*Recording, error) {
	return c.scanOneRecording(ctx, `SELECT id, file_path, file_mtime, artist_name, release_name, recording_name,
		artist_mbid, release_mbid, recording_mbid, duration_ms, track_num, disc_num, created_at, updated_at
		FROM recordings WHERE recording_mbid = ? ORDER BY id LIMIT 1`, recordingMBID)
}

// GetRecordingByID returns the Recording for id, or (nil, nil) if no row
// exists.
func (c *Catalog) GetRecordingByID(ctx context.Context, id int64) (*Recording, error) {
	return c.scanOneRecording(ctx, `SELECT id, file_path, file_mtime, artist_name, release_name, recording_name,
		artist_mbid, release_mbid, recording_mbid, duration_ms, track_num, disc_num, created_at, updated_at
		FROM recordings WHERE id = ?`, id)
}

func (c *Catalog) scanOneRecording(ctx context.Context, query string, arg interface{}) (*Recording, error) {
	row := c.db.Conn().QueryRowContext(ctx, query, arg)
	r, err := scanRecordingRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get recording: %w", err)
	}
	return r, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecordingRow(row rowScanner) (*Recording, error) {
	var r Recording
	var releaseName, artistMBID, releaseMBID, recordingMBID sql.NullString
	var durationMS sql.NullInt64

	err := row.Scan(&r.ID, &r.FilePath, &r.FileMtime, &r.ArtistName, &releaseName, &r.RecordingName,
		&artistMBID, &releaseMBID, &recordingMBID, &durationMS, &r.TrackNum, &r.DiscNum, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	r.ReleaseName = strOrEmpty(releaseName)
	r.ArtistMBID = strOrEmpty(artistMBID)
	r.ReleaseMBID = strOrEmpty(releaseMBID)
	r.RecordingMBID = strOrEmpty(recordingMBID)
	if durationMS.Valid {
		r.DurationMS = int(durationMS.Int64)
	}
	return &r, nil
}

// ListRecordingsWithMBID returns every Recording with a non-null
// recording_mbid, ordered by (artist_name, release_name) for the metadata
// enricher's batch locality.
func (c *Catalog) ListRecordingsWithMBID(ctx context.Context) ([]*Recording, error) {
	rows, err := c.db.Conn().QueryContext(ctx, `SELECT id, file_path, file_mtime, artist_name, release_name, recording_name,
		artist_mbid, release_mbid, recording_mbid, duration_ms, track_num, disc_num, created_at, updated_at
		FROM recordings WHERE recording_mbid IS NOT NULL ORDER BY artist_name, release_name`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list recordings with mbid: %w", err)
	}
	defer rows.Close()

	var out []*Recording
	for rows.Next() {
		r, err := scanRecordingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan recording: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListRecordingsByReleaseMBID returns every Recording for releaseMBID,
// indexed by (track_num, disc_num) by the caller (remote-catalog sync).
func (c *Catalog) ListRecordingsByReleaseMBID(ctx context.Context, releaseMBID string) ([]*Recording, error) {
	rows, err := c.db.Conn().QueryContext(ctx, `SELECT id, file_path, file_mtime, artist_name, release_name, recording_name,
		artist_mbid, release_mbid, recording_mbid, duration_ms, track_num, disc_num, created_at, updated_at
		FROM recordings WHERE release_mbid = ?`, releaseMBID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list recordings by release mbid: %w", err)
	}
	defer rows.Close()

	var out []*Recording
	for rows.Next() {
		r, err := scanRecordingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan recording: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
