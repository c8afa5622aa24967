// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dirs...]",
	Short: "Scan one or more directories of tagged audio files into the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		roots := args
		if len(roots) == 0 {
			roots = cfg.Catalog.Roots
		}
		if len(roots) == 0 {
			return fmt.Errorf("no scan roots given and catalog.roots is empty")
		}

		s := scanner.New(cat, 500)
		counters, err := s.Scan(cmd.Context(), roots)
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}

		fmt.Printf("scanned %d files: %d added, %d updated, %d unchanged, %d errored\n",
			counters.Total, counters.Added, counters.Updated, counters.Unchanged, counters.Errored)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
