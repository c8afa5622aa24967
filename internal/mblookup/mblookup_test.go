// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package mblookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New("test-agent/1.0")
	c.http.SetBaseURL(srv.URL)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestLookupReleases_ReturnsFirstRelease(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"releases":[{"id":"rel-1","title":"Blue Lines","artist-credit":[{"name":"Massive Attack"}]}]}`))
	})

	out, err := c.LookupReleases(context.Background(), []string{"mbid-1"})
	if err != nil {
		t.Fatalf("LookupReleases() error = %v", err)
	}
	info, ok := out["mbid-1"]
	if !ok || info.ReleaseMBID != "rel-1" || info.ArtistName != "Massive Attack" {
		t.Errorf("LookupReleases() = %+v, want rel-1/Massive Attack", out)
	}
}

func TestLookupReleases_FailedFetchIsOmittedNotFatal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	out, err := c.LookupReleases(context.Background(), []string{"missing-mbid"})
	if err != nil {
		t.Fatalf("LookupReleases() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("LookupReleases() = %+v, want empty for a failed fetch", out)
	}
}

func TestLookupReleases_ContextCancelledStopsEarly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"releases":[]}`))
	})
	c.limiter = rate.NewLimiter(rate.Limit(1), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	time.Sleep(time.Millisecond)

	if _, err := c.LookupReleases(ctx, []string{"a", "b"}); err == nil {
		t.Error("LookupReleases() error = nil, want context error once the limiter blocks on a cancelled context")
	}
}
