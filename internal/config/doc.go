// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

/*
Package config provides centralized configuration management for the content
resolver CLI.

This package handles loading, validation, and parsing of configuration for
every command the CLI exposes. It ensures consistent configuration across
the catalog store, scanner, enricher, remote-catalog sync, and resolver, and
provides sensible defaults for everything optional.

# Configuration Sources

The package reads configuration from, in increasing priority:

  - Built-in defaults
  - An optional YAML config file (config.yaml, or $CONFIG_PATH)
  - An optional .env file, loaded into the process environment
  - Environment variables

# Configuration Structure

  - CatalogConfig: local DuckDB database path and default scan roots
  - RemoteConfig: subsonic-compatible remote server credentials
  - EnrichConfig: bulk metadata/tag lookup endpoint and batching
  - ResolverConfig: default match threshold and cleaning-retry bound
  - LoggingConfig: log level and output format

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal(err)
	}
	store, err := catalog.Open(cfg.Catalog.Path)
*/
package config
