// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package lbradio generates an on-the-fly playlist from a short tag prompt
// against the local catalog, the "tag" element of a localized LB Radio:
// a mode picks the popularity band to search within, and the prompt names
// the tags and how to combine them.
package lbradio

import (
	"context"
	"strings"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalog"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalogerr"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/playlist"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/tagsearch"
)

// Mode names a popularity band: easy favors well-known recordings, hard
// favors obscure ones.
type Mode string

const (
	ModeEasy   Mode = "easy"
	ModeMedium Mode = "medium"
	ModeHard   Mode = "hard"
)

var modeRanges = map[Mode][2]float64{
	ModeEasy:   {0.8, 1.01},
	ModeMedium: {0.4, 0.8},
	ModeHard:   {0.0, 0.4},
}

// DefaultNumRecordings is how many recordings a generated playlist targets
// when the caller doesn't ask for a specific count.
const DefaultNumRecordings = 50

// ParsePrompt splits a tag prompt into the tags to search for and the
// operator combining them. Tokens may carry an optional "tag:" prefix; the
// literal token "or" (case-insensitive) switches the operator to OR,
// otherwise tags combine with AND.
func ParsePrompt(prompt string) (tags []string, operator tagsearch.Operator) {
	operator = tagsearch.AND
	for _, tok := range strings.Fields(prompt) {
		if strings.EqualFold(tok, "or") {
			operator = tagsearch.OR
			continue
		}
		if strings.EqualFold(tok, "and") {
			continue
		}
		tags = append(tags, strings.TrimPrefix(tok, "tag:"))
	}
	return tags, operator
}

// Generate builds a playlist of numRecordings recordings carrying the
// prompt's tags, drawn from mode's popularity band.
func Generate(ctx context.Context, cat *catalog.Catalog, mode Mode, prompt string, numRecordings int) (*playlist.Playlist, error) {
	if numRecordings <= 0 {
		numRecordings = DefaultNumRecordings
	}
	band, ok := modeRanges[mode]
	if !ok {
		band = modeRanges[ModeMedium]
	}

	tags, operator := ParsePrompt(prompt)
	if len(tags) == 0 {
		return nil, catalogerr.New(catalogerr.KindInvalidInput, "lbradio.Generate", nil)
	}

	rows, err := tagsearch.New(cat).Search(ctx, tags, operator, band[0], band[1], numRecordings)
	if err != nil {
		return nil, err
	}

	pl := &playlist.Playlist{Title: prompt}
	for _, row := range rows {
		pl.Tracks = append(pl.Tracks, playlist.Track{
			Artist:     row.ArtistName,
			Title:      row.RecordingName,
			Identifier: row.RecordingMBID,
		})
	}
	return pl, nil
}
