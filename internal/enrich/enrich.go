// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package enrich drives the bulk metadata/tag lookup that populates
// RecordingMetadata popularity and RecordingTag associations. It POSTs
// batches of recording MBIDs to an external endpoint and replaces each
// batch's tag associations wholesale rather than merging them.
package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalog"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalogerr"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/logging"
)

const defaultBatchSize = 1000

// lookupRequest is one element of the bulk-tag-lookup POST body.
type lookupRequest struct {
	RecordingMBID string `json:"[recording_mbid]"`
}

// lookupRow is one row of the bulk-tag-lookup response.
type lookupRow struct {
	RecordingMBID string  `json:"recording_mbid"`
	Tag           string  `json:"tag"`
	Source        string  `json:"source"`
	Percent       float64 `json:"percent"`
}

// Counters tallies an enrichment run's outcome across all batches.
type Counters struct {
	Batches      int
	Recordings   int
	TagRows      int
	SkippedBatch int
}

// Enricher fetches popularity and tag data for recordings with a known
// recording_mbid and writes it into the catalog.
type Enricher struct {
	cat       *catalog.Catalog
	client    *resty.Client
	endpoint  string
	batchSize int
	limiter   *rate.Limiter
	log       zerolog.Logger
}

// Config configures an Enricher.
type Config struct {
	Endpoint   string
	BatchSize  int
	Timeout    time.Duration
	// MaxRetries is not read: a 429 response is retried at most 5 times
	// whatever its value.
	MaxRetries int
	// RequestsPerSecond throttles outgoing batch requests; zero disables
	// throttling.
	RequestsPerSecond float64
}

// New returns an Enricher writing into cat via the bulk-tag-lookup endpoint
// described by cfg.
func New(cat *catalog.Catalog, cfg Config) *Enricher {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Enricher{
		cat:       cat,
		client:    client,
		endpoint:  cfg.Endpoint,
		batchSize: batchSize,
		limiter:   limiter,
		log:       logging.With().Str("component", "enrich").Logger(),
	}
}

// Run enriches every recording with a non-null recording_mbid, in batches of
// e.batchSize. A batch's HTTP failure is logged and the batch skipped;
// subsequent batches proceed. A 429 response is retried with back-off before
// the batch is given up on.
func (e *Enricher) Run(ctx context.Context) (Counters, error) {
	var counters Counters

	recordings, err := e.cat.ListRecordingsWithMBID(ctx)
	if err != nil {
		return counters, catalogerr.New(catalogerr.KindStoreUnavailable, "enrich.Run", err)
	}

	for start := 0; start < len(recordings); start += e.batchSize {
		if ctx.Err() != nil {
			return counters, ctx.Err()
		}

		end := start + e.batchSize
		if end > len(recordings) {
			end = len(recordings)
		}
		batch := recordings[start:end]

		if err := e.processBatch(ctx, batch, &counters); err != nil {
			e.log.Warn().Err(err).Int("batch_start", start).Msg("enrichment batch failed, skipping")
			counters.SkippedBatch++
			continue
		}
		counters.Batches++
	}

	return counters, nil
}

func (e *Enricher) processBatch(ctx context.Context, batch []*catalog.Recording, counters *Counters) error {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	idToMBID := make(map[string]int64, len(batch))
	reqBody := make([]lookupRequest, 0, len(batch))
	for _, r := range batch {
		idToMBID[r.RecordingMBID] = r.ID
		reqBody = append(reqBody, lookupRequest{RecordingMBID: r.RecordingMBID})
	}

	rows, err := e.fetchWithRetry(ctx, reqBody)
	if err != nil {
		return err
	}

	popularity := make(map[int64]float64)
	tags := make(map[int64][]catalog.TagAssociation)
	// Every recording in the batch gets an entry, so the old tags of a
	// recording the lookup returned no rows for are cleared too.
	for _, r := range batch {
		tags[r.ID] = nil
	}
	for _, row := range rows {
		id, ok := idToMBID[row.RecordingMBID]
		if !ok {
			continue
		}
		popularity[id] = row.Percent
		tags[id] = append(tags[id], catalog.TagAssociation{
			TagName: row.Tag,
			Entity:  entityFromSource(row.Source),
		})
	}

	if err := e.cat.ApplyEnrichmentBatch(ctx, popularity, tags); err != nil {
		return catalogerr.New(catalogerr.KindStoreUnavailable, "enrich.processBatch", err)
	}

	counters.Recordings += len(popularity)
	for _, t := range tags {
		counters.TagRows += len(t)
	}
	return nil
}

// fetchWithRetry POSTs reqBody to e.endpoint, retrying on 429 with
// exponential back-off. Any other non-2xx response or transport error is
// returned immediately so the caller skips the batch.
func (e *Enricher) fetchWithRetry(ctx context.Context, reqBody []lookupRequest) ([]lookupRow, error) {
	var rows []lookupRow

	operation := func() error {
		resp, err := e.client.R().
			SetContext(ctx).
			SetBody(reqBody).
			Post(e.endpoint)
		if err != nil {
			return backoff.Permanent(catalogerr.New(catalogerr.KindNetwork, "enrich.fetch", err))
		}

		if resp.StatusCode() == 429 {
			return catalogerr.New(catalogerr.KindRateLimited, "enrich.fetch", fmt.Errorf("rate limited"))
		}
		if resp.IsError() {
			return backoff.Permanent(catalogerr.New(catalogerr.KindNetwork, "enrich.fetch",
				fmt.Errorf("unexpected status %d", resp.StatusCode())))
		}

		return json.Unmarshal(resp.Body(), &rows)
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}
	return rows, nil
}

func entityFromSource(source string) catalog.TagEntity {
	switch source {
	case "artist":
		return catalog.EntityArtist
	case "release-group":
		return catalog.EntityReleaseGroup
	default:
		return catalog.EntityRecording
	}
}
