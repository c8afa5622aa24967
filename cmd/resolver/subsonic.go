// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/subsonicsync"
)

var subsonicCmd = &cobra.Command{
	Use:   "subsonic",
	Short: "Sync recording identifiers against a subsonic-compatible remote media server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Remote.Enabled {
			return fmt.Errorf("remote.enabled is false; configure remote.url/user/password first")
		}

		client := subsonicsync.NewRestyClient(cfg.Remote.URL, cfg.Remote.User, cfg.Remote.Password, cfg.Remote.Timeout)
		s := subsonicsync.New(cat, client, cfg.Remote.PageSize, 500)

		counters, err := s.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("subsonic sync: %w", err)
		}

		fmt.Printf("synced %d albums (%d skipped): %d songs matched, %d unmatched\n",
			counters.AlbumsSeen, counters.AlbumsSkipped, counters.SongsMatched, counters.SongsUnmatched)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(subsonicCmd)
}
