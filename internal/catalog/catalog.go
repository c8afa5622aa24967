// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package catalog is the persistent relational store of recordings,
// metadata, tags, subsonic cross-refs, unresolved-lookup counts, and
// directory mtimes. It exclusively owns all catalog persistent state; every
// other component reads or writes through its methods, never through a raw
// connection of its own.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalogerr"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/database"
)

// Catalog wraps the embedded database connection and exposes the domain
// operations every other component is built on.
type Catalog struct {
	db *database.DB
}

// Create initializes the catalog schema at path if absent. Idempotent:
// re-running adds newly-introduced tables without touching existing ones
// (database.New's CREATE TABLE IF NOT EXISTS statements already give
// this guarantee).
func Create(path string) (*Catalog, error) {
	return Open(path)
}

// Open opens an existing (or not-yet-created) catalog store at path.
func Open(path string) (*Catalog, error) {
	db, err := database.New(path)
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindStoreUnavailable, "catalog.Open", err)
	}
	return &Catalog{db: db}, nil
}

// Close releases the catalog's resources.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Conn returns the underlying *sql.DB, for packages that need to run a
// query shape not otherwise exposed as a Catalog method (internal/tagsearch's
// dynamic OR/AND queries).
func (c *Catalog) Conn() *sql.DB {
	return c.db.Conn()
}

// Ping verifies the catalog's connection is alive.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.db.Ping(ctx)
}

// MetadataSanityCheck reports counts of recordings lacking popularity
// metadata and, optionally, lacking a remote cross-reference.
func (c *Catalog) MetadataSanityCheck(ctx context.Context, includeRemote bool) (SanityReport, error) {
	var report SanityReport

	err := c.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM recordings`).Scan(&report.TotalRecordings)
	if err != nil {
		return report, fmt.Errorf("catalog: count recordings: %w", err)
	}

	err = c.db.Conn().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM recordings r
		LEFT JOIN recording_metadata m ON m.recording_id = r.id
		WHERE m.recording_id IS NULL`).Scan(&report.MissingMetadata)
	if err != nil {
		return report, fmt.Errorf("catalog: count missing metadata: %w", err)
	}

	if includeRemote {
		err = c.db.Conn().QueryRowContext(ctx, `
			SELECT COUNT(*) FROM recordings r
			LEFT JOIN recording_subsonic s ON s.recording_id = r.id
			WHERE s.recording_id IS NULL`).Scan(&report.MissingRemoteCrossRef)
		if err != nil {
			return report, fmt.Errorf("catalog: count missing remote cross-refs: %w", err)
		}
	}

	return report, nil
}

// Cleanup enumerates recordings whose file no longer exists and directories
// whose path no longer exists, deleting them (and dependent rows via
// foreign-key cascade semantics, emulated here with explicit child deletes
// since DuckDB's REFERENCES does not itself cascade) unless dryRun.
func (c *Catalog) Cleanup(ctx context.Context, dryRun bool, exists func(path string) bool) (removedRecordings, removedDirectories int, err error) {
	recRows, err := c.db.Conn().QueryContext(ctx, `SELECT id, file_path FROM recordings`)
	if err != nil {
		return 0, 0, fmt.Errorf("catalog: list recordings: %w", err)
	}
	var staleRecordingIDs []int64
	for recRows.Next() {
		var id int64
		var path string
		if scanErr := recRows.Scan(&id, &path); scanErr != nil {
			recRows.Close()
			return 0, 0, fmt.Errorf("catalog: scan recording: %w", scanErr)
		}
		if !exists(path) {
			staleRecordingIDs = append(staleRecordingIDs, id)
		}
	}
	if closeErr := recRows.Err(); closeErr != nil {
		recRows.Close()
		return 0, 0, fmt.Errorf("catalog: iterate recordings: %w", closeErr)
	}
	recRows.Close()

	dirRows, err := c.db.Conn().QueryContext(ctx, `SELECT path FROM directories`)
	if err != nil {
		return 0, 0, fmt.Errorf("catalog: list directories: %w", err)
	}
	var staleDirs []string
	for dirRows.Next() {
		var path string
		if scanErr := dirRows.Scan(&path); scanErr != nil {
			dirRows.Close()
			return 0, 0, fmt.Errorf("catalog: scan directory: %w", scanErr)
		}
		if !exists(path) {
			staleDirs = append(staleDirs, path)
		}
	}
	if closeErr := dirRows.Err(); closeErr != nil {
		dirRows.Close()
		return 0, 0, fmt.Errorf("catalog: iterate directories: %w", closeErr)
	}
	dirRows.Close()

	if dryRun {
		return len(staleRecordingIDs), len(staleDirs), nil
	}

	tx, err := c.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("catalog: begin cleanup transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range staleRecordingIDs {
		for _, stmt := range []string{
			`DELETE FROM recording_tags WHERE recording_id = ?`,
			`DELETE FROM recording_metadata WHERE recording_id = ?`,
			`DELETE FROM recording_subsonic WHERE recording_id = ?`,
			`DELETE FROM recordings WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return 0, 0, fmt.Errorf("catalog: delete stale recording %d: %w", id, err)
			}
		}
	}

	for _, path := range staleDirs {
		if _, err := tx.ExecContext(ctx, `DELETE FROM directories WHERE path = ?`, path); err != nil {
			return 0, 0, fmt.Errorf("catalog: delete stale directory %q: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("catalog: commit cleanup: %w", err)
	}

	if err := c.db.Checkpoint(ctx); err != nil {
		return len(staleRecordingIDs), len(staleDirs), fmt.Errorf("catalog: checkpoint after cleanup: %w", err)
	}

	return len(staleRecordingIDs), len(staleDirs), nil
}
