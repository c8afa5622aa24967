// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package periodicjams builds a localized "periodic jams" playlist: it
// fetches a ListenBrainz user's recommended recordings, resolves as many
// as possible against the local catalog, and caps the result to a bounded,
// artist-diverse, shuffled playlist.
package periodicjams

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalog"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalogerr"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/playlist"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/resolver"
)

// DefaultFetchCount is how many recommendations are requested from
// ListenBrainz per run, matching the service's own practical ceiling.
const DefaultFetchCount = 1000

// DefaultMaxRecordings bounds the generated playlist's size.
const DefaultMaxRecordings = 50

// DefaultMaxArtistOccurrence bounds how many tracks from the same artist
// can appear in one generated playlist.
const DefaultMaxArtistOccurrence = 2

// Recommendation is one scored recording recommendation for a user.
type Recommendation struct {
	RecordingMBID string
	Score         float64
}

// Client fetches a user's recommended recordings.
type Client interface {
	FetchRecommendations(ctx context.Context, userName string, count int) ([]Recommendation, error)
}

// Options configures a Generate call; a zero value uses the package
// defaults.
type Options struct {
	FetchCount          int
	MaxRecordings       int
	MaxArtistOccurrence int
	MatchThreshold      float64
	MaxCleaningPasses   int
}

func (o Options) withDefaults() Options {
	if o.FetchCount <= 0 {
		o.FetchCount = DefaultFetchCount
	}
	if o.MaxRecordings <= 0 {
		o.MaxRecordings = DefaultMaxRecordings
	}
	if o.MaxArtistOccurrence <= 0 {
		o.MaxArtistOccurrence = DefaultMaxArtistOccurrence
	}
	if o.MatchThreshold <= 0 {
		o.MatchThreshold = 0.8
	}
	return o
}

// Generate fetches userName's ListenBrainz recommendations, resolves them
// against cat, and returns a shuffled, artist-capped playlist.
func Generate(ctx context.Context, cat *catalog.Catalog, client Client, userName string, opts Options) (*playlist.Playlist, error) {
	opts = opts.withDefaults()

	recs, err := client.FetchRecommendations(ctx, userName, opts.FetchCount)
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindNetwork, "periodicjams.Generate", err)
	}
	if len(recs) == 0 {
		return &playlist.Playlist{Title: "Periodic Jams for " + userName}, nil
	}

	queries := make([]resolver.Query, len(recs))
	for i, rec := range recs {
		queries[i] = resolver.Query{Index: i, RecordingMBID: rec.RecordingMBID}
	}

	r := resolver.New(cat, nil, opts.MaxCleaningPasses)
	results, err := r.Resolve(ctx, queries, opts.MatchThreshold)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rng.Shuffle(len(results), func(i, j int) { results[i], results[j] = results[j], results[i] })

	pl := &playlist.Playlist{Title: "Periodic Jams for " + userName}
	artistCount := make(map[string]int)

	for _, res := range results {
		if len(pl.Tracks) >= opts.MaxRecordings {
			break
		}

		rec, err := cat.GetRecordingByID(ctx, res.RecordingID)
		if err != nil {
			return nil, catalogerr.New(catalogerr.KindStoreUnavailable, "periodicjams.Generate", err)
		}
		if rec == nil {
			continue
		}
		if artistCount[rec.ArtistName] >= opts.MaxArtistOccurrence {
			continue
		}

		pl.Tracks = append(pl.Tracks, playlist.Track{
			Artist: rec.ArtistName, Title: rec.RecordingName, Identifier: rec.RecordingMBID,
			LocalPath: rec.FilePath, DurationMS: rec.DurationMS,
		})
		artistCount[rec.ArtistName]++
	}

	return pl, nil
}

// RestyClient is the default Client implementation, fetching
// recommendations from the public ListenBrainz API.
type RestyClient struct {
	http *resty.Client
}

// NewRestyClient returns a Client against the public ListenBrainz API.
func NewRestyClient() *RestyClient {
	return &RestyClient{
		http: resty.New().SetBaseURL("https://api.listenbrainz.org").SetTimeout(30 * time.Second),
	}
}

type recommendationResponse struct {
	Payload struct {
		MBIDs []struct {
			RecordingMBID string  `json:"recording_mbid"`
			Score         float64 `json:"score"`
		} `json:"mbids"`
	} `json:"payload"`
}

func (c *RestyClient) FetchRecommendations(ctx context.Context, userName string, count int) ([]Recommendation, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("user_name", userName).
		SetQueryParam("count", fmt.Sprintf("%d", count)).
		Get("/1/cf/recommendation/user/{user_name}/recording")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, catalogerr.New(catalogerr.KindNetwork, "periodicjams.FetchRecommendations",
			fmt.Errorf("unexpected status %d", resp.StatusCode()))
	}

	var parsed recommendationResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, err
	}

	out := make([]Recommendation, len(parsed.Payload.MBIDs))
	for i, m := range parsed.Payload.MBIDs {
		out[i] = Recommendation{RecordingMBID: m.RecordingMBID, Score: m.Score}
	}
	return out, nil
}
