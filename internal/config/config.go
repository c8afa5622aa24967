// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"time"
)

// Config holds all application configuration loaded from environment variables,
// an optional config file, and a .env file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables (a .env
//     file is loaded into the process environment first if present)
//
// Configuration Categories:
//
//  1. Catalog: local DuckDB database path and scan roots
//  2. Remote: subsonic-compatible remote server credentials for catalog sync
//  3. Enrich: bulk metadata/tag lookup endpoint and batching
//  4. Resolver: default fuzzy match threshold and cleaning-retry bound
//  5. Logging: log level and output format
//
// Example - Load configuration:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store, err := catalog.Open(cfg.Catalog.Path)
//
// Validation:
// LoadWithKoanf validates all fields via Validate() and returns an error if
// required values are missing or out of range (e.g. a non-positive batch size
// or a threshold outside [0,1]).
//
// Thread Safety:
// Config is immutable after loading and safe for concurrent read access.
type Config struct {
	Catalog  CatalogConfig  `koanf:"catalog" validate:"required"`
	Remote   RemoteConfig   `koanf:"remote"`
	Enrich   EnrichConfig   `koanf:"enrich" validate:"required"`
	Resolver ResolverConfig `koanf:"resolver" validate:"required"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// CatalogConfig describes the local embedded database and the directories scanned
// into it.
type CatalogConfig struct {
	// Path is the DuckDB database file backing the catalog store.
	Path string `koanf:"path" validate:"required"`
	// Roots lists filesystem directories the scanner walks by default.
	Roots []string `koanf:"roots"`
}

// RemoteConfig describes an optional subsonic-compatible remote media server used
// by the remote-catalog sync component.
type RemoteConfig struct {
	Enabled  bool          `koanf:"enabled"`
	URL      string        `koanf:"url"`
	User     string        `koanf:"user"`
	Password string        `koanf:"password"`
	Timeout  time.Duration `koanf:"timeout" validate:"min=0"`
	PageSize int           `koanf:"page_size" validate:"gte=0"`
}

// EnrichConfig configures the bulk metadata/tag enrichment client.
type EnrichConfig struct {
	Endpoint   string        `koanf:"endpoint"`
	BatchSize  int           `koanf:"batch_size" validate:"required,gt=0"`
	Timeout    time.Duration `koanf:"timeout" validate:"min=0"`
	MaxRetries int           `koanf:"max_retries" validate:"gte=0"`
}

// ResolverConfig configures default resolution behavior.
type ResolverConfig struct {
	MatchThreshold    float64 `koanf:"match_threshold" validate:"gte=0,lte=1"`
	MaxCleaningPasses int     `koanf:"max_cleaning_passes" validate:"gte=0"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic"`
	Format string `koanf:"format" validate:"omitempty,oneof=console json"`
	Caller bool   `koanf:"caller"`
}

// Validate is implemented in config_validate.go.
