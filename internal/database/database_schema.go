// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

/*
database_schema.go - Database Schema Management

This file manages the DuckDB database schema: table creation and index
management for the local music catalog.

Tables:
  - recordings: one row per scanned audio file, keyed by file_path
  - recording_metadata: 1:1 popularity/last_updated enrichment for a recording
  - tags: distinct tag names (folksonomy tags from the bulk-tag-lookup service)
  - recording_tags: many-to-many recording<->tag join, carries the tag's
    source entity and last_updated
  - recording_subsonic: recording<->remote-subsonic-song-id mapping
  - unresolved_recordings: recording MBIDs that failed resolution, with a
    lookup_count that increments on repeat misses
  - directories: per-directory mtime bookkeeping used by the scanner's dry pass
    to skip directories that haven't changed since the last scan

Schema Strategy:
All columns are defined in the initial CREATE TABLE statement; versioned
migrations (migrations.go) are reserved for schema changes after the first
released version.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range db.getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements.
func (db *DB) getTableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS recordings_id_seq;`,
		`CREATE TABLE IF NOT EXISTS recordings (
			id BIGINT PRIMARY KEY DEFAULT nextval('recordings_id_seq'),
			file_path TEXT NOT NULL UNIQUE,
			file_mtime BIGINT NOT NULL,
			artist_name TEXT NOT NULL,
			release_name TEXT,
			recording_name TEXT NOT NULL,
			artist_mbid TEXT,
			release_mbid TEXT,
			recording_mbid TEXT,
			duration_ms INTEGER,
			track_num INTEGER,
			disc_num INTEGER,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS recording_metadata (
			recording_id BIGINT PRIMARY KEY REFERENCES recordings(id),
			popularity DOUBLE NOT NULL DEFAULT 0,
			last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE SEQUENCE IF NOT EXISTS tags_id_seq;`,
		`CREATE TABLE IF NOT EXISTS tags (
			id BIGINT PRIMARY KEY DEFAULT nextval('tags_id_seq'),
			name TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS recording_tags (
			recording_id BIGINT NOT NULL REFERENCES recordings(id),
			tag_name TEXT NOT NULL,
			entity TEXT NOT NULL,
			last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (recording_id, tag_name)
		);`,
		`CREATE TABLE IF NOT EXISTS recording_subsonic (
			recording_id BIGINT PRIMARY KEY REFERENCES recordings(id),
			subsonic_id TEXT NOT NULL,
			last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS unresolved_recordings (
			recording_mbid TEXT PRIMARY KEY,
			artist_name TEXT,
			recording_name TEXT,
			lookup_count INTEGER NOT NULL DEFAULT 1,
			last_seen TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS directories (
			path TEXT PRIMARY KEY,
			mtime BIGINT NOT NULL
		);`,
	}
}

// createIndexes creates secondary indexes supporting the query patterns in
// internal/tagsearch and internal/resolver.
func (db *DB) createIndexes() error {
	return db.doCreateIndexes()
}

// CreateIndexes is the exported entry point for (re)building indexes outside
// of New().
func (db *DB) CreateIndexes() error {
	return db.doCreateIndexes()
}

func (db *DB) doCreateIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range db.getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}

	return nil
}

func (db *DB) getIndexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_recordings_recording_mbid ON recordings(recording_mbid);`,
		`CREATE INDEX IF NOT EXISTS idx_recordings_release_mbid ON recordings(release_mbid);`,
		`CREATE INDEX IF NOT EXISTS idx_recordings_artist_name ON recordings(artist_name);`,
		`CREATE INDEX IF NOT EXISTS idx_recordings_artist_mbid ON recordings(artist_mbid);`,
		`CREATE INDEX IF NOT EXISTS idx_recording_tags_tag_name ON recording_tags(tag_name);`,
		`CREATE INDEX IF NOT EXISTS idx_recording_metadata_popularity ON recording_metadata(popularity);`,
	}
}
