// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package catalog

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.duckdb")
	c, err := Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCreate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.duckdb")

	c1, err := Create(path)
	if err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	if err := c1.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	c2, err := Create(path)
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	defer c2.Close()

	report, err := c2.MetadataSanityCheck(context.Background(), false)
	if err != nil {
		t.Fatalf("MetadataSanityCheck() error = %v", err)
	}
	if report.TotalRecordings != 0 {
		t.Errorf("expected empty catalog after reopen, got %d recordings", report.TotalRecordings)
	}
}

func TestUpsertRecording_InsertThenUpdate(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	r := &Recording{
		FilePath:      "/music/a.flac",
		FileMtime:     1000,
		ArtistName:    "Massive Attack",
		RecordingName: "Teardrop",
		RecordingMBID: "f27ec8db-af05-4f36-916e-3d57f91ecf5e",
	}

	id1, err := c.UpsertRecording(ctx, r)
	if err != nil {
		t.Fatalf("UpsertRecording() error = %v", err)
	}

	r.FileMtime = 2000
	r.RecordingName = "Teardrop (remastered)"
	id2, err := c.UpsertRecording(ctx, r)
	if err != nil {
		t.Fatalf("UpsertRecording() update error = %v", err)
	}

	if id1 != id2 {
		t.Errorf("expected same id across upserts of the same file_path, got %d and %d", id1, id2)
	}

	got, err := c.GetRecordingByPath(ctx, r.FilePath)
	if err != nil {
		t.Fatalf("GetRecordingByPath() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetRecordingByPath() = nil, want a row")
	}
	if got.FileMtime != 2000 || got.RecordingName != "Teardrop (remastered)" {
		t.Errorf("GetRecordingByPath() = %+v, want updated fields", got)
	}
}

func TestGetRecordingByPath_NotFound(t *testing.T) {
	c := openTestCatalog(t)
	got, err := c.GetRecordingByPath(context.Background(), "/does/not/exist.flac")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for a missing recording, got %+v", got)
	}
}

func TestGetRecordingByMBID(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	mbid := "f27ec8db-af05-4f36-916e-3d57f91ecf5e"
	if _, err := c.UpsertRecording(ctx, &Recording{
		FilePath: "/music/a.flac", FileMtime: 1, ArtistName: "Massive Attack",
		RecordingName: "Teardrop", RecordingMBID: mbid,
	}); err != nil {
		t.Fatalf("UpsertRecording() error = %v", err)
	}

	got, err := c.GetRecordingByMBID(ctx, mbid)
	if err != nil {
		t.Fatalf("GetRecordingByMBID() error = %v", err)
	}
	if got == nil || got.RecordingMBID != mbid {
		t.Fatalf("GetRecordingByMBID() = %+v, want mbid %q", got, mbid)
	}
}

func TestApplyEnrichmentBatch_ReplacesTagsFully(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	id, err := c.UpsertRecording(ctx, &Recording{
		FilePath: "/music/a.flac", FileMtime: 1, ArtistName: "Artist", RecordingName: "Track",
	})
	if err != nil {
		t.Fatalf("UpsertRecording() error = %v", err)
	}

	err = c.ApplyEnrichmentBatch(ctx,
		map[int64]float64{id: 0.5},
		map[int64][]TagAssociation{id: {{TagName: "rock", Entity: EntityRecording}}})
	if err != nil {
		t.Fatalf("first ApplyEnrichmentBatch() error = %v", err)
	}

	err = c.ApplyEnrichmentBatch(ctx,
		map[int64]float64{id: 0.9},
		map[int64][]TagAssociation{id: {{TagName: "jazz", Entity: EntityArtist}}})
	if err != nil {
		t.Fatalf("second ApplyEnrichmentBatch() error = %v", err)
	}

	pop, ok, err := c.GetPopularity(ctx, id)
	if err != nil {
		t.Fatalf("GetPopularity() error = %v", err)
	}
	if !ok || pop != 0.9 {
		t.Errorf("GetPopularity() = (%v, %v), want (0.9, true)", pop, ok)
	}

	tags, err := c.TopTags(ctx, 10)
	if err != nil {
		t.Fatalf("TopTags() error = %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "jazz" {
		t.Errorf("TopTags() = %+v, want only 'jazz' (old 'rock' tag should have been replaced)", tags)
	}
}

func TestUnresolvedTracker_AddIncrementsClearRemoves(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	mbid := "11111111-1111-1111-1111-111111111111"
	if err := c.AddUnresolved(ctx, mbid, "Artist", "Track"); err != nil {
		t.Fatalf("AddUnresolved() error = %v", err)
	}
	if err := c.AddUnresolved(ctx, mbid, "Artist", "Track"); err != nil {
		t.Fatalf("AddUnresolved() second call error = %v", err)
	}

	list, err := c.ListUnresolved(ctx)
	if err != nil {
		t.Fatalf("ListUnresolved() error = %v", err)
	}
	if len(list) != 1 || list[0].LookupCount != 2 {
		t.Fatalf("ListUnresolved() = %+v, want one row with lookup_count=2", list)
	}

	if err := c.ClearUnresolved(ctx, mbid); err != nil {
		t.Fatalf("ClearUnresolved() error = %v", err)
	}
	list, err = c.ListUnresolved(ctx)
	if err != nil {
		t.Fatalf("ListUnresolved() after clear error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("ListUnresolved() after clear = %+v, want empty", list)
	}
}

func TestListDuplicateRecordingMBIDs(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	mbid := "22222222-2222-2222-2222-222222222222"
	for _, path := range []string{"/music/a.flac", "/music/b.flac"} {
		if _, err := c.UpsertRecording(ctx, &Recording{
			FilePath: path, FileMtime: 1, ArtistName: "Artist", RecordingName: "Track", RecordingMBID: mbid,
		}); err != nil {
			t.Fatalf("UpsertRecording() error = %v", err)
		}
	}

	groups, err := c.ListDuplicateRecordingMBIDs(ctx)
	if err != nil {
		t.Fatalf("ListDuplicateRecordingMBIDs() error = %v", err)
	}
	if len(groups) != 1 || len(groups[0].FilePaths) != 2 {
		t.Fatalf("ListDuplicateRecordingMBIDs() = %+v, want one group with 2 paths", groups)
	}
}

func TestCleanup_DryRunDoesNotDelete(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	if _, err := c.UpsertRecording(ctx, &Recording{
		FilePath: "/music/gone.flac", FileMtime: 1, ArtistName: "Artist", RecordingName: "Track",
	}); err != nil {
		t.Fatalf("UpsertRecording() error = %v", err)
	}

	neverExists := func(string) bool { return false }

	removedRec, removedDir, err := c.Cleanup(ctx, true, neverExists)
	if err != nil {
		t.Fatalf("Cleanup(dryRun=true) error = %v", err)
	}
	if removedRec != 1 || removedDir != 0 {
		t.Errorf("Cleanup(dryRun=true) = (%d, %d), want (1, 0)", removedRec, removedDir)
	}

	report, err := c.MetadataSanityCheck(ctx, false)
	if err != nil {
		t.Fatalf("MetadataSanityCheck() error = %v", err)
	}
	if report.TotalRecordings != 1 {
		t.Errorf("dry run should not delete: TotalRecordings = %d, want 1", report.TotalRecordings)
	}
}

func TestCleanup_RemovesStaleRows(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	if _, err := c.UpsertRecording(ctx, &Recording{
		FilePath: "/music/gone.flac", FileMtime: 1, ArtistName: "Artist", RecordingName: "Track",
	}); err != nil {
		t.Fatalf("UpsertRecording() error = %v", err)
	}

	neverExists := func(string) bool { return false }

	removedRec, _, err := c.Cleanup(ctx, false, neverExists)
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if removedRec != 1 {
		t.Errorf("Cleanup() removedRec = %d, want 1", removedRec)
	}

	report, err := c.MetadataSanityCheck(ctx, false)
	if err != nil {
		t.Fatalf("MetadataSanityCheck() error = %v", err)
	}
	if report.TotalRecordings != 0 {
		t.Errorf("expected stale recording to be deleted, TotalRecordings = %d", report.TotalRecordings)
	}
}
