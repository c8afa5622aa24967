// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package resolver matches a batch of (artist, recording, mbid?) queries
// against the local catalog: first by identifier, then by fuzzy name
// match, retrying pending queries against progressively cleaned names
// until a full pass changes nothing.
package resolver

import (
	"context"
	"database/sql"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalog"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalogerr"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/cleaner"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/fuzzyindex"
)

// Method names how a query was resolved.
type Method string

const (
	MethodIdentifier Method = "IDENTIFIER"
	MethodFuzzy      Method = "FUZZY"
)

// Query is one input to Resolve, carrying a stable Index assigned on
// entry so Results can be correlated back to it.
type Query struct {
	Index         int
	ArtistName    string
	RecordingName string
	RecordingMBID string
}

// Result is the outcome for one resolved Query. Queries never resolved
// are omitted from Resolve's return value.
type Result struct {
	Index         int
	RecordingID   int64
	Confidence    float64
	Method        Method
	ArtistName    string
	RecordingName string
	RecordingMBID string
}

// Resolver matches queries against cat using a fuzzy index built once
// per Resolve call (or supplied by the caller via ResolveWithIndex).
type Resolver struct {
	cat     *catalog.Catalog
	clean   cleaner.Cleaner
	maxPass int
}

// New returns a Resolver writing unresolved identifiers into cat, using
// clean for the cleaning retry loop, bounded to maxPass retry passes
// (zero means unbounded, i.e. run until no query changes).
func New(cat *catalog.Catalog, clean cleaner.Cleaner, maxPass int) *Resolver {
	if clean == nil {
		clean = cleaner.New()
	}
	return &Resolver{cat: cat, clean: clean, maxPass: maxPass}
}

type pendingQuery struct {
	index         int
	artistName    string
	recordingName string
	recordingMBID string
}

// Resolve matches queries against the catalog, building a fresh fuzzy
// index from every recording the catalog currently holds.
func (r *Resolver) Resolve(ctx context.Context, queries []Query, threshold float64) ([]Result, error) {
	entries, err := r.loadIndexEntries(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := fuzzyindex.Build(entries)
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindInternal, "resolver.Resolve", err)
	}
	return r.ResolveWithIndex(ctx, queries, threshold, idx)
}

func (r *Resolver) loadIndexEntries(ctx context.Context) ([]fuzzyindex.Entry, error) {
	rows, err := r.cat.Conn().QueryContext(ctx, `SELECT id, artist_name, recording_name FROM recordings ORDER BY id`)
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindStoreUnavailable, "resolver.loadIndexEntries", err)
	}
	defer rows.Close()

	var entries []fuzzyindex.Entry
	for rows.Next() {
		var id int64
		var artist, recording sql.NullString
		if err := rows.Scan(&id, &artist, &recording); err != nil {
			return nil, catalogerr.New(catalogerr.KindStoreUnavailable, "resolver.loadIndexEntries", err)
		}
		entries = append(entries, fuzzyindex.Entry{
			ArtistName: artist.String, RecordingName: recording.String, RecordingID: id,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, catalogerr.New(catalogerr.KindStoreUnavailable, "resolver.loadIndexEntries", err)
	}
	return entries, nil
}

// ResolveWithIndex runs the state machine against a caller-supplied fuzzy
// index, useful when the index is amortized across multiple Resolve
// calls in the same run.
func (r *Resolver) ResolveWithIndex(ctx context.Context, queries []Query, threshold float64, idx *fuzzyindex.Index) ([]Result, error) {
	results := make(map[int]Result)
	resolvedByIndex := make(map[int]bool)

	pending := make([]pendingQuery, 0, len(queries))
	for _, q := range queries {
		if q.RecordingMBID != "" {
			rec, err := r.cat.GetRecordingByMBID(ctx, q.RecordingMBID)
			if err != nil {
				return nil, catalogerr.New(catalogerr.KindStoreUnavailable, "resolver.Resolve", err)
			}
			if rec != nil {
				results[q.Index] = Result{
					Index: q.Index, RecordingID: rec.ID, Confidence: 1.0, Method: MethodIdentifier,
					ArtistName: q.ArtistName, RecordingName: q.RecordingName, RecordingMBID: q.RecordingMBID,
				}
				resolvedByIndex[q.Index] = true
				continue
			}
		}
		pending = append(pending, pendingQuery{
			index: q.Index, artistName: q.ArtistName, recordingName: q.RecordingName, recordingMBID: q.RecordingMBID,
		})
	}

	pass := 0
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if len(pending) == 0 {
			break
		}
		if r.maxPass > 0 && pass >= r.maxPass {
			break
		}
		pass++

		var next []pendingQuery
		for _, q := range pending {
			if resolvedByIndex[q.index] {
				continue
			}

			match, err := idx.Search(q.artistName, q.recordingName)
			if err != nil {
				return nil, catalogerr.New(catalogerr.KindInternal, "resolver.Resolve", err)
			}

			if match.Found && match.Confidence >= threshold {
				results[q.index] = Result{
					Index: q.index, RecordingID: match.RecordingID, Confidence: match.Confidence, Method: MethodFuzzy,
					ArtistName: q.artistName, RecordingName: q.recordingName, RecordingMBID: q.recordingMBID,
				}
				resolvedByIndex[q.index] = true
				continue
			}

			if err := r.cat.AddUnresolved(ctx, q.recordingMBID, q.artistName, q.recordingName); err != nil {
				return nil, catalogerr.New(catalogerr.KindStoreUnavailable, "resolver.Resolve", err)
			}

			cleanedRecording := r.clean.CleanRecording(q.recordingName)
			cleanedArtist := r.clean.CleanArtist(q.artistName)

			// Recording-only and artist-only rewrites are queued as independent
			// retries rather than one fully-cleaned query, so either field's
			// cleaning can succeed without the other masking it.
			if cleanedRecording != q.recordingName {
				next = append(next, pendingQuery{
					index: q.index, artistName: q.artistName, recordingName: cleanedRecording, recordingMBID: q.recordingMBID,
				})
			}
			if cleanedArtist != q.artistName {
				next = append(next, pendingQuery{
					index: q.index, artistName: cleanedArtist, recordingName: q.recordingName, recordingMBID: q.recordingMBID,
				})
			}
		}

		pending = next
	}

	out := make([]Result, 0, len(results))
	for _, res := range results {
		out = append(out, res)
	}
	sortResultsByIndex(out)
	return out, nil
}

func sortResultsByIndex(results []Result) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j-1].Index > results[j].Index; j-- {
			results[j-1], results[j] = results[j], results[j-1]
		}
	}
}
