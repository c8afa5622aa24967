// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package mblookup resolves recording MBIDs to their containing release via
// the public MusicBrainz web service, implementing
// internal/unresolved.ReleaseLookup. MusicBrainz has no batch recording
// lookup, so each MBID in a batch is fetched individually, rate-limited to
// the service's documented 1req/s courtesy limit.
package mblookup

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/unresolved"
)

const defaultBaseURL = "https://musicbrainz.org/ws/2"

// Client implements unresolved.ReleaseLookup against the MusicBrainz web
// service.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
}

// New returns a Client identifying itself with userAgent, as MusicBrainz's
// usage policy requires.
func New(userAgent string) *Client {
	return &Client{
		http:    resty.New().SetBaseURL(defaultBaseURL).SetHeader("User-Agent", userAgent).SetTimeout(15 * time.Second),
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}
}

type recordingLookupResponse struct {
	Releases []struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		ArtistCredit []struct {
			Name string `json:"name"`
		} `json:"artist-credit"`
	} `json:"releases"`
}

// LookupReleases resolves each recordingMBID to the first release it
// belongs to. A recording that fails lookup or has no release is simply
// omitted from the result rather than failing the whole batch.
func (c *Client) LookupReleases(ctx context.Context, recordingMBIDs []string) (map[string]unresolved.ReleaseInfo, error) {
	out := make(map[string]unresolved.ReleaseInfo, len(recordingMBIDs))

	for _, mbid := range recordingMBIDs {
		if err := c.limiter.Wait(ctx); err != nil {
			return out, err
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{"inc": "releases+artist-credits", "fmt": "json"}).
			Get(fmt.Sprintf("/recording/%s", mbid))
		if err != nil || resp.IsError() {
			continue
		}

		var parsed recordingLookupResponse
		if err := json.Unmarshal(resp.Body(), &parsed); err != nil || len(parsed.Releases) == 0 {
			continue
		}

		rel := parsed.Releases[0]
		artist := ""
		if len(rel.ArtistCredit) > 0 {
			artist = rel.ArtistCredit[0].Name
		}
		out[mbid] = unresolved.ReleaseInfo{ReleaseMBID: rel.ID, ReleaseName: rel.Title, ArtistName: artist}
	}

	return out, nil
}
