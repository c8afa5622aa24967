// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/duplicates"
)

var flagDuplicatesDetail bool

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Report recordings sharing the same MusicBrainz identifier",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := duplicates.New(cat)
		groups, err := r.Report(cmd.Context(), flagDuplicatesDetail)
		if err != nil {
			return fmt.Errorf("duplicates: %w", err)
		}

		for _, g := range groups {
			fmt.Printf("%s\n", g.RecordingMBID)
			for _, f := range g.Files {
				if flagDuplicatesDetail {
					fmt.Printf("  %s  (%d bytes, sha1 %s, %s)\n", f.Path, f.Size, f.SHA1, f.Format)
				} else {
					fmt.Printf("  %s\n", f.Path)
				}
			}
		}
		fmt.Printf("%d duplicate groups\n", len(groups))
		return nil
	},
}

func init() {
	duplicatesCmd.Flags().BoolVar(&flagDuplicatesDetail, "detail", false, "compute per-file size and SHA-1 digest")
	rootCmd.AddCommand(duplicatesCmd)
}
