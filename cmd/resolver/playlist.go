// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/playlist"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/resolver"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist <in.jspf> <out>",
	Short: "Resolve a JSPF playlist's tracks against the catalog and write M3U or JSPF output",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inPath, outPath := args[0], args[1]

		pl, err := playlist.ReadJSPF(inPath)
		if err != nil {
			return fmt.Errorf("read playlist: %w", err)
		}

		queries := make([]resolver.Query, len(pl.Tracks))
		for i, t := range pl.Tracks {
			mbid := t.Identifier
			if idx := strings.LastIndex(mbid, "/"); idx >= 0 {
				mbid = mbid[idx+1:]
			}
			queries[i] = resolver.Query{Index: i, ArtistName: t.Artist, RecordingName: t.Title, RecordingMBID: mbid}
		}

		r := resolver.New(cat, nil, cfg.Resolver.MaxCleaningPasses)
		results, err := r.Resolve(cmd.Context(), queries, cfg.Resolver.MatchThreshold)
		if err != nil {
			return fmt.Errorf("resolve playlist: %w", err)
		}

		for _, res := range results {
			rec, err := cat.GetRecordingByID(cmd.Context(), res.RecordingID)
			if err != nil {
				return fmt.Errorf("look up resolved recording: %w", err)
			}
			if rec == nil {
				continue
			}
			pl.Tracks[res.Index].LocalPath = rec.FilePath
			pl.Tracks[res.Index].DurationMS = rec.DurationMS
		}

		if strings.EqualFold(filepath.Ext(outPath), ".jspf") {
			if err := playlist.WriteJSPF(outPath, pl); err != nil {
				return fmt.Errorf("write playlist: %w", err)
			}
		} else {
			if err := playlist.WriteM3U(outPath, pl); err != nil {
				return fmt.Errorf("write playlist: %w", err)
			}
		}

		fmt.Printf("resolved %d/%d tracks, wrote %s\n", len(results), len(pl.Tracks), outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playlistCmd)
}
