// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagCleanupDryRun bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove catalog rows for recordings and directories that no longer exist on disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		exists := func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		}

		removedRecordings, removedDirs, err := cat.Cleanup(cmd.Context(), flagCleanupDryRun, exists)
		if err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}

		verb := "removed"
		if flagCleanupDryRun {
			verb = "would remove"
		}
		fmt.Printf("%s %d stale recordings and %d stale directories\n", verb, removedRecordings, removedDirs)
		return nil
	},
}

func init() {
	cleanupCmd.Flags().BoolVar(&flagCleanupDryRun, "dry-run", false, "report what would be removed without modifying the catalog")
	rootCmd.AddCommand(cleanupCmd)
}
