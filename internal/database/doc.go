// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package database provides the embedded-database layer backing the local
// music catalog.
//
// # Overview
//
// This package owns the DuckDB connection lifecycle and schema: opening the
// database file, running versioned migrations, creating indexes, and
// exposing the raw *sql.DB to internal/catalog for domain-level queries.
// internal/catalog owns the Recording/Tag/etc. CRUD; this package only owns
// "is the database open, and does it have the right tables".
//
// # Architecture
//
//   - database.go: connection lifecycle (open, initialize, close)
//   - database_schema.go: table creation and index management
//   - database_connection.go: connection pool configuration and error classification
//   - database_utils.go: profiling, context helpers, checkpoint/backup support
//   - migrations.go: versioned schema migrations, tracked in schema_migrations
//   - errors.go: close-and-log helpers used throughout the package
//
// # Database Technology
//
// The package uses DuckDB (github.com/duckdb/duckdb-go/v2), an embedded
// analytical database stored as a single file — a good fit for a catalog
// that is queried with set-algebra (tag search) and aggregate (popularity
// banding) operations, not just point lookups.
//
// # Concurrency
//
// The catalog is designed for exclusive single-process access: the
// connection pool is pinned to one connection (see configureConnectionPool).
// Concurrency within a single scan/enrich run is achieved by batching writes
// into per-chunk transactions, not by opening more connections.
//
// # Error Handling
//
// Errors are wrapped with fmt.Errorf("...: %w", err) throughout. Connection,
// transaction-conflict, and internal DuckDB errors are classified by
// isConnectionError / isTransactionConflict / isInternalError so code in
// this package can decide whether a retry is worthwhile.
package database
