// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/lbradio"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/playlist"
)

var flagLBRadioOut string

var lbRadioCmd = &cobra.Command{
	Use:   "lb-radio <mode> <prompt>",
	Short: "Generate a playlist from a tag prompt within a popularity mode (easy|medium|hard)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := lbradio.Mode(strings.ToLower(args[0]))
		prompt := args[1]

		pl, err := lbradio.Generate(cmd.Context(), cat, mode, prompt, lbradio.DefaultNumRecordings)
		if err != nil {
			return fmt.Errorf("lb-radio: %w", err)
		}

		if flagLBRadioOut == "" {
			fmt.Printf("generated %d tracks for prompt %q\n", len(pl.Tracks), prompt)
			for _, t := range pl.Tracks {
				fmt.Printf("  %s - %s\n", t.Artist, t.Title)
			}
			return nil
		}

		if err := playlist.WriteJSPF(flagLBRadioOut, pl); err != nil {
			return fmt.Errorf("write playlist: %w", err)
		}
		fmt.Printf("wrote %d tracks to %s\n", len(pl.Tracks), flagLBRadioOut)
		return nil
	},
}

func init() {
	lbRadioCmd.Flags().StringVarP(&flagLBRadioOut, "out", "o", "", "write the generated playlist as JSPF to this path instead of printing it")
	rootCmd.AddCommand(lbRadioCmd)
}
