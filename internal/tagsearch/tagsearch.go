// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package tagsearch retrieves recordings matching a tag set and
// popularity band, widening the band greedily when too few candidates
// fall inside it.
package tagsearch

import (
	"context"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalog"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalogerr"
)

// Operator mirrors catalog.TagOperator at the package boundary so callers
// don't need to import internal/catalog just to pick OR/AND.
type Operator = catalog.TagOperator

const (
	OR  = catalog.TagOperatorOR
	AND = catalog.TagOperatorAND
)

// Searcher answers tag/popularity-band queries against a Catalog.
type Searcher struct {
	cat *catalog.Catalog
}

// New returns a Searcher backed by cat.
func New(cat *catalog.Catalog) *Searcher {
	return &Searcher{cat: cat}
}

// Search retrieves recordings carrying tags (combined per operator),
// within [beginPercent, endPercent), widening the band when fewer than
// numRecordings fall inside it.
func (s *Searcher) Search(ctx context.Context, tags []string, operator Operator, beginPercent, endPercent float64, numRecordings int) ([]catalog.TagSearchRow, error) {
	candidates, err := s.cat.ListCandidatesByTags(ctx, tags, operator)
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindStoreUnavailable, "tagsearch.Search", err)
	}
	return widen(candidates, beginPercent, endPercent, numRecordings), nil
}

// SearchByArtists is the artist-recording variant: candidates are
// restricted to recordings by artistMBIDs, partitioned per artist, and
// widened independently per artist.
func (s *Searcher) SearchByArtists(ctx context.Context, tags []string, operator Operator, artistMBIDs []string, beginPercent, endPercent float64, numRecordings int) (map[string][]catalog.TagSearchRow, error) {
	candidates, err := s.cat.ListCandidatesByTagsForArtists(ctx, tags, operator, artistMBIDs)
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindStoreUnavailable, "tagsearch.SearchByArtists", err)
	}

	byArtist := make(map[string][]catalog.TagSearchRow)
	order := make([]string, 0, len(artistMBIDs))
	for _, c := range candidates {
		if _, seen := byArtist[c.ArtistMBID]; !seen {
			order = append(order, c.ArtistMBID)
		}
		byArtist[c.ArtistMBID] = append(byArtist[c.ArtistMBID], c)
	}

	out := make(map[string][]catalog.TagSearchRow, len(order))
	for _, artist := range order {
		out[artist] = widen(byArtist[artist], beginPercent, endPercent, numRecordings)
	}
	return out, nil
}

// partition splits candidates (already ordered popularity-descending) into
// under/match/over by the [beginPercent, endPercent) band. Since input is
// descending, under appears after match which appears after over.
func partition(candidates []catalog.TagSearchRow, beginPercent, endPercent float64) (under, match, over []catalog.TagSearchRow) {
	for _, c := range candidates {
		switch {
		case c.Popularity < beginPercent:
			under = append(under, c)
		case c.Popularity >= endPercent:
			over = append(over, c)
		default:
			match = append(match, c)
		}
	}
	return under, match, over
}

// widen implements the band-widening algorithm: while match is
// under-populated, pull the nearest out-of-band candidate in from
// whichever side (under or over) is closer, ties favoring over.
// candidates is assumed ordered popularity-descending, so over's head
// (closest to the band) is its last element and under's head is its
// first element.
func widen(candidates []catalog.TagSearchRow, beginPercent, endPercent float64, numRecordings int) []catalog.TagSearchRow {
	under, match, over := partition(candidates, beginPercent, endPercent)

	if len(match) >= numRecordings {
		return match
	}

	for len(match) < numRecordings {
		underDiff := 1.0
		if len(under) > 0 {
			underDiff = beginPercent - under[0].Popularity
		}
		overDiff := 1.0
		if len(over) > 0 {
			overDiff = over[len(over)-1].Popularity - endPercent
		}

		if underDiff >= 1.0 && overDiff >= 1.0 {
			break
		}

		if overDiff <= underDiff {
			head := over[len(over)-1]
			over = over[:len(over)-1]
			match = append(match, head)
		} else {
			head := under[0]
			under = under[1:]
			match = append([]catalog.TagSearchRow{head}, match...)
		}
	}

	return match
}
