// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	os.ExpandEnv("$HOME/.config/lb-content-resolver/config.yaml"),
	"/etc/lb-content-resolver/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Catalog: CatalogConfig{
			Path:  home + "/.lb-content-resolver/catalog.duckdb",
			Roots: []string{},
		},
		Remote: RemoteConfig{
			Enabled:  false,
			Timeout:  30 * time.Second,
			PageSize: 500,
		},
		Enrich: EnrichConfig{
			Endpoint:   "https://labs.api.listenbrainz.org/bulk-tag-lookup/json",
			BatchSize:  1000,
			Timeout:    30 * time.Second,
			MaxRetries: 5,
		},
		Resolver: ResolverConfig{
			MatchThreshold:    0.75,
			MaxCleaningPasses: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. .env file: Optional, loaded into the process environment ahead of layer 3
//  3. Config File: Optional YAML config file (if it exists)
//  4. Environment Variables: Override any setting
//
// This function is the preferred way to load configuration and provides:
//   - Type-safe configuration unmarshaling
//   - Clear precedence: ENV > File > Defaults
//   - Support for nested configuration via koanf struct tags
func LoadWithKoanf() (*Config, error) {
	// A missing .env is not an error; it simply means the caller relies on
	// the environment it was launched with.
	_ = godotenv.Load()

	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("config: failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices.
var sliceConfigPaths = []string{
	"catalog.roots",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - CATALOG_PATH -> catalog.path
//   - REMOTE_URL -> remote.url
//   - RESOLVER_MATCH_THRESHOLD -> resolver.match_threshold
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		"catalog_path":  "catalog.path",
		"catalog_roots": "catalog.roots",

		"remote_enabled":   "remote.enabled",
		"remote_url":       "remote.url",
		"remote_user":      "remote.user",
		"remote_password":  "remote.password",
		"remote_timeout":   "remote.timeout",
		"remote_page_size": "remote.page_size",

		"enrich_endpoint":    "enrich.endpoint",
		"enrich_batch_size":  "enrich.batch_size",
		"enrich_timeout":     "enrich.timeout",
		"enrich_max_retries": "enrich.max_retries",

		"resolver_match_threshold":     "resolver.match_threshold",
		"resolver_max_cleaning_passes": "resolver.max_cleaning_passes",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped so arbitrary environment variables can't
	// silently pollute configuration.
	return ""
}

// GetKoanfInstance returns a new Koanf instance for advanced usage (testing,
// custom sources).
func GetKoanfInstance() *koanf.Koanf {
	return koanf.New(".")
}
