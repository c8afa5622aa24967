// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package playlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadJSPF_ParsesTracksAndTitle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.jspf")
	content := `{"playlist":{"title":"My Mix","track":[
		{"creator":"Massive Attack","title":"Teardrop","identifier":["https://musicbrainz.org/recording/f27ec8db-af05-4f36-916e-3d57f91ecf5e"]}
	]}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	pl, err := ReadJSPF(path)
	if err != nil {
		t.Fatalf("ReadJSPF() error = %v", err)
	}
	if pl.Title != "My Mix" || len(pl.Tracks) != 1 {
		t.Fatalf("ReadJSPF() = %+v, want title 'My Mix' and 1 track", pl)
	}
	if pl.Tracks[0].Artist != "Massive Attack" || pl.Tracks[0].Title != "Teardrop" {
		t.Errorf("ReadJSPF() track = %+v, want Massive Attack / Teardrop", pl.Tracks[0])
	}
}

func TestReadJSPF_MissingFileIsInvalidInput(t *testing.T) {
	_, err := ReadJSPF("/does/not/exist.jspf")
	if err == nil {
		t.Fatal("ReadJSPF() error = nil, want an error for a missing file")
	}
}

func TestWriteM3U_SkipsUnresolvedTracks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.m3u")

	pl := &Playlist{Title: "My Mix", Tracks: []Track{
		{Artist: "Massive Attack", Title: "Teardrop", LocalPath: "/music/teardrop.flac", DurationMS: 330000},
		{Artist: "Unknown", Title: "Unresolved"},
	}}

	if err := WriteM3U(path, pl); err != nil {
		t.Fatalf("WriteM3U() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "/music/teardrop.flac") {
		t.Errorf("WriteM3U() output missing resolved track path:\n%s", out)
	}
	if strings.Contains(out, "Unresolved") {
		t.Errorf("WriteM3U() output should skip the unresolved track:\n%s", out)
	}
	if !strings.HasPrefix(out, "#EXTM3U\n") {
		t.Errorf("WriteM3U() output missing #EXTM3U header:\n%s", out)
	}
}

func TestWriteJSPF_RoundTripsResolvedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jspf")

	pl := &Playlist{Title: "My Mix", Tracks: []Track{
		{Artist: "Massive Attack", Title: "Teardrop", LocalPath: "/music/teardrop.flac"},
	}}
	if err := WriteJSPF(path, pl); err != nil {
		t.Fatalf("WriteJSPF() error = %v", err)
	}

	got, err := ReadJSPF(path)
	if err != nil {
		t.Fatalf("ReadJSPF(written file) error = %v", err)
	}
	if got.Title != "My Mix" || len(got.Tracks) != 1 || got.Tracks[0].Artist != "Massive Attack" {
		t.Fatalf("round trip = %+v, want the original title/track back", got)
	}
}
