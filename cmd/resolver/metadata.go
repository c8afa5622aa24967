// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/enrich"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Fetch popularity and tag metadata for every recording with a known MusicBrainz id",
	RunE: func(cmd *cobra.Command, args []string) error {
		e := enrich.New(cat, enrich.Config{
			Endpoint:   cfg.Enrich.Endpoint,
			BatchSize:  cfg.Enrich.BatchSize,
			Timeout:    cfg.Enrich.Timeout,
			MaxRetries: cfg.Enrich.MaxRetries,
		})

		counters, err := e.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("metadata: %w", err)
		}

		fmt.Printf("fetched metadata for %d recordings across %d batches (%d skipped, %d tag rows)\n",
			counters.Recordings, counters.Batches, counters.SkippedBatch, counters.TagRows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metadataCmd)
}
