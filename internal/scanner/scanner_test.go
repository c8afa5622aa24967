// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package scanner

import (
	"context"
	"os"
	"path/filepath"
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

func TestScan_UnreadableTagsAreErrored(t *testing.T) {
	cat := openTestCatalog(t)
	root := t.TempDir()

	if err := os.WriteFile(filepath.Join(root, "broken.mp3"), []byte("not a real mp3"), 0o644); err != nil {
		t.Fatalf("failed to write fixture file: %v", err)
	}

	s := New(cat, 10)
	counters, err := s.Scan(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if counters.Total != 1 || counters.Errored != 1 || counters.Added != 0 {
		t.Errorf("Scan() = %+v, want Total=1 Errored=1 Added=0", counters)
	}
}

func TestScan_SkipsNonAudioExtensions(t *testing.T) {
	cat := openTestCatalog(t)
	root := t.TempDir()

	if err := os.WriteFile(filepath.Join(root, "cover.jpg"), []byte("not audio"), 0o644); err != nil {
		t.Fatalf("failed to write fixture file: %v", err)
	}

	s := New(cat, 10)
	counters, err := s.Scan(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if counters.Total != 0 {
		t.Errorf("Scan() Total = %d, want 0 (non-audio extension should be skipped silently)", counters.Total)
	}
}

func TestScan_SecondRunOnUnchangedTreeSkipsEverything(t *testing.T) {
	cat := openTestCatalog(t)
	root := t.TempDir()

	if err := os.WriteFile(filepath.Join(root, "broken.mp3"), []byte("not a real mp3"), 0o644); err != nil {
		t.Fatalf("failed to write fixture file: %v", err)
	}

	s := New(cat, 10)
	ctx := context.Background()

	if _, err := s.Scan(ctx, []string{root}); err != nil {
		t.Fatalf("first Scan() error = %v", err)
	}

	counters, err := s.Scan(ctx, []string{root})
	if err != nil {
		t.Fatalf("second Scan() error = %v", err)
	}
	if counters.Total != 0 {
		t.Errorf("second Scan() on an unchanged tree: Total = %d, want 0 (directory should be skipped)", counters.Total)
	}
}

func TestScan_EmptyRootsIsANoop(t *testing.T) {
	cat := openTestCatalog(t)
	s := New(cat, 10)

	counters, err := s.Scan(context.Background(), nil)
	if err != nil {
		t.Fatalf("Scan(nil) error = %v", err)
	}
	if counters.Total != 0 {
		t.Errorf("Scan(nil) Total = %d, want 0", counters.Total)
	}
}
