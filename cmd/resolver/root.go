// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Command resolver is the content resolver's CLI: it scans tagged audio
// files into a local catalog, enriches and resolves them against remote
// metadata, and answers tag and playlist queries against the result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalog"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/config"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/logging"
)

var (
	flagDBPath    string
	flagThreshold float64

	cfg *config.Config
	cat *catalog.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "resolver",
	Short: "Resolve, tag-search, and sync a local music collection",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadWithKoanf()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		if flagDBPath != "" {
			loaded.Catalog.Path = flagDBPath
		}
		if flagThreshold > 0 {
			loaded.Resolver.MatchThreshold = flagThreshold
		}
		cfg = loaded

		logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Caller: cfg.Logging.Caller})

		ctx := logging.ContextWithNewCorrelationID(cmd.Context())
		cmd.SetContext(ctx)
		logging.Ctx(ctx).Info().Str("command", cmd.Name()).Msg("starting")

		// "create" opens (and creates) the store itself; every other command
		// expects one to already exist.
		if cmd.Name() == "create" {
			return nil
		}

		c, err := catalog.Open(cfg.Catalog.Path)
		if err != nil {
			logging.CtxErr(ctx, err).Msg("failed to open catalog")
			return fmt.Errorf("open catalog: %w", err)
		}
		cat = c
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		logging.Ctx(cmd.Context()).Info().Str("command", cmd.Name()).Msg("done")
		if cat != nil {
			return cat.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDBPath, "db", "d", "", "path to the catalog database (overrides config)")
	rootCmd.PersistentFlags().Float64VarP(&flagThreshold, "threshold", "t", 0, "fuzzy match confidence threshold (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
