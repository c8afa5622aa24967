// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/periodicjams"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/playlist"
)

var flagPeriodicJamsOut string

var periodicJamsCmd = &cobra.Command{
	Use:   "periodic-jams <user>",
	Short: "Generate a local playlist from a ListenBrainz user's recommended recordings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userName := args[0]

		opts := periodicjams.Options{
			MatchThreshold:    cfg.Resolver.MatchThreshold,
			MaxCleaningPasses: cfg.Resolver.MaxCleaningPasses,
		}

		pl, err := periodicjams.Generate(cmd.Context(), cat, periodicjams.NewRestyClient(), userName, opts)
		if err != nil {
			return fmt.Errorf("periodic-jams: %w", err)
		}

		if flagPeriodicJamsOut == "" {
			fmt.Printf("generated %d tracks for %s\n", len(pl.Tracks), userName)
			for _, t := range pl.Tracks {
				fmt.Printf("  %s - %s\n", t.Artist, t.Title)
			}
			return nil
		}

		if err := playlist.WriteJSPF(flagPeriodicJamsOut, pl); err != nil {
			return fmt.Errorf("write playlist: %w", err)
		}
		fmt.Printf("wrote %d tracks to %s\n", len(pl.Tracks), flagPeriodicJamsOut)
		return nil
	},
}

func init() {
	periodicJamsCmd.Flags().StringVarP(&flagPeriodicJamsOut, "out", "o", "", "write the generated playlist as JSPF to this path instead of printing it")
	rootCmd.AddCommand(periodicJamsCmd)
}
