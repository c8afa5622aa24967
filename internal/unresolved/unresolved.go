// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package unresolved reports recordings that repeatedly fail resolution,
// grouped by their containing release so a listener knows which album to
// add to their collection to resolve the most recordings at once.
package unresolved

import (
	"context"
	"sort"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalog"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalogerr"
)

const lookupBatchSize = 50

// ReleaseLookup resolves a batch of recording MBIDs to the releases they
// belong to. Implementations talk to an external metadata API.
type ReleaseLookup interface {
	LookupReleases(ctx context.Context, recordingMBIDs []string) (map[string]ReleaseInfo, error)
}

// ReleaseInfo names the release a recording belongs to.
type ReleaseInfo struct {
	ReleaseMBID string
	ReleaseName string
	ArtistName  string
}

// ReleaseGroup is one release's aggregated unresolved count, for the
// reporting operation's output.
type ReleaseGroup struct {
	ReleaseMBID     string
	ReleaseName     string
	ArtistName      string
	UnresolvedCount int
	Recordings      []catalog.UnresolvedRecording
}

// Reporter groups the catalog's unresolved recordings by release.
type Reporter struct {
	cat    *catalog.Catalog
	lookup ReleaseLookup
}

// New returns a Reporter using lookup to resolve recording MBIDs to their
// containing release.
func New(cat *catalog.Catalog, lookup ReleaseLookup) *Reporter {
	return &Reporter{cat: cat, lookup: lookup}
}

// Report lists the catalog's unresolved recordings grouped by release,
// ordered by aggregate unresolved lookup count descending. Recordings
// whose release cannot be determined are grouped under an empty
// ReleaseMBID.
func (r *Reporter) Report(ctx context.Context) ([]ReleaseGroup, error) {
	items, err := r.cat.ListUnresolved(ctx)
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindStoreUnavailable, "unresolved.Report", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	releaseInfo := make(map[string]ReleaseInfo)
	for start := 0; start < len(items); start += lookupBatchSize {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		end := start + lookupBatchSize
		if end > len(items) {
			end = len(items)
		}

		mbids := make([]string, end-start)
		for i, it := range items[start:end] {
			mbids[i] = it.RecordingMBID
		}

		info, err := r.lookup.LookupReleases(ctx, mbids)
		if err != nil {
			// A failed batch just leaves those recordings grouped under
			// the empty release; the report still includes them.
			continue
		}
		for mbid, inf := range info {
			releaseInfo[mbid] = inf
		}
	}

	groups := make(map[string]*ReleaseGroup)
	var order []string
	for _, it := range items {
		info := releaseInfo[it.RecordingMBID]
		key := info.ReleaseMBID

		g, ok := groups[key]
		if !ok {
			g = &ReleaseGroup{ReleaseMBID: info.ReleaseMBID, ReleaseName: info.ReleaseName, ArtistName: info.ArtistName}
			groups[key] = g
			order = append(order, key)
		}
		g.UnresolvedCount += it.LookupCount
		g.Recordings = append(g.Recordings, it)
	}

	out := make([]ReleaseGroup, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UnresolvedCount > out[j].UnresolvedCount })
	return out, nil
}
