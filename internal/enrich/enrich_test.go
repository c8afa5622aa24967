// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalog"
)

func openTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.duckdb")
	c, err := catalog.Create(path)
	if err != nil {
		t.Fatalf("catalog.Create() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func insertRecordingWithMBID(t *testing.T, cat *catalog.Catalog, path, mbid string) int64 {
	t.Helper()
	id, err := cat.UpsertRecording(context.Background(), &catalog.Recording{
		FilePath: path, FileMtime: 1, ArtistName: "Artist", RecordingName: "Track", RecordingMBID: mbid,
	})
	if err != nil {
		t.Fatalf("UpsertRecording() error = %v", err)
	}
	return id
}

func TestRun_AppliesPopularityAndTags(t *testing.T) {
	cat := openTestCatalog(t)
	mbid := "11111111-1111-1111-1111-111111111111"
	insertRecordingWithMBID(t, cat, "/music/a.flac", mbid)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"recording_mbid":"` + mbid + `","tag":"rock","source":"recording","percent":0.8}]`))
	}))
	defer srv.Close()

	e := New(cat, Config{Endpoint: srv.URL, BatchSize: 1000})
	counters, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if counters.Batches != 1 || counters.Recordings != 1 || counters.TagRows != 1 {
		t.Errorf("Run() = %+v, want Batches=1 Recordings=1 TagRows=1", counters)
	}

	recs, err := cat.ListRecordingsWithMBID(context.Background())
	if err != nil {
		t.Fatalf("ListRecordingsWithMBID() error = %v", err)
	}
	pop, ok, err := cat.GetPopularity(context.Background(), recs[0].ID)
	if err != nil {
		t.Fatalf("GetPopularity() error = %v", err)
	}
	if !ok || pop != 0.8 {
		t.Errorf("GetPopularity() = (%v, %v), want (0.8, true)", pop, ok)
	}
}

func TestRun_RetriesOn429ThenSucceeds(t *testing.T) {
	cat := openTestCatalog(t)
	mbid := "22222222-2222-2222-2222-222222222222"
	insertRecordingWithMBID(t, cat, "/music/b.flac", mbid)

	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"recording_mbid":"` + mbid + `","tag":"jazz","source":"artist","percent":0.5}]`))
	}))
	defer srv.Close()

	e := New(cat, Config{Endpoint: srv.URL, BatchSize: 1000})
	counters, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if counters.SkippedBatch != 0 || counters.Batches != 1 {
		t.Errorf("Run() = %+v, want a single successful batch after retry", counters)
	}
	if atomic.LoadInt32(&attempts) < 2 {
		t.Errorf("attempts = %d, want at least 2 (initial 429 + retry)", attempts)
	}
}

func TestRun_SkipsBatchOnPermanentFailure(t *testing.T) {
	cat := openTestCatalog(t)
	mbid := "33333333-3333-3333-3333-333333333333"
	insertRecordingWithMBID(t, cat, "/music/c.flac", mbid)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := New(cat, Config{Endpoint: srv.URL, BatchSize: 1000})
	counters, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if counters.SkippedBatch != 1 || counters.Batches != 0 {
		t.Errorf("Run() = %+v, want the batch skipped, not retried forever", counters)
	}
}

func TestRun_NoRecordingsIsANoop(t *testing.T) {
	cat := openTestCatalog(t)
	e := New(cat, Config{Endpoint: "http://unused.invalid"})
	counters, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if counters.Batches != 0 {
		t.Errorf("Run() = %+v, want no batches processed", counters)
	}
}
