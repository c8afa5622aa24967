// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/mblookup"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/unresolved"
)

const userAgent = "listenbrainz-content-resolver/1.0 ( https://listenbrainz.org )"

var unresolvedCmd = &cobra.Command{
	Use:   "unresolved",
	Short: "Report recordings that repeatedly failed resolution, grouped by release",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := unresolved.New(cat, mblookup.New(userAgent))
		groups, err := r.Report(cmd.Context())
		if err != nil {
			return fmt.Errorf("unresolved: %w", err)
		}

		for _, g := range groups {
			title := g.ReleaseName
			if title == "" {
				title = "(unknown release)"
			}
			fmt.Printf("%-40s %-25s  unresolved=%d  recordings=%d\n", title, g.ArtistName, g.UnresolvedCount, len(g.Recordings))
		}
		fmt.Printf("%d release groups\n", len(groups))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unresolvedCmd)
}
