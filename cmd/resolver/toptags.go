// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var topTagsCmd = &cobra.Command{
	Use:   "top-tags [N]",
	Short: "List the N most-used tags in the catalog (default 20)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 20
		if len(args) == 1 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil || parsed <= 0 {
				return fmt.Errorf("invalid N %q", args[0])
			}
			n = parsed
		}

		tags, err := cat.TopTags(cmd.Context(), n)
		if err != nil {
			return fmt.Errorf("top-tags: %w", err)
		}

		for _, t := range tags {
			fmt.Printf("%6d  %s\n", t.RecordingCount, t.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(topTagsCmd)
}
