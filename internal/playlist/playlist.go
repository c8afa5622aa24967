// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package playlist reads JSPF playlists and writes M3U playlists (or a
// resolved JSPF with local paths/remote ids filled in), a thin I/O layer
// the resolver's CLI surface drives.
package playlist

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalogerr"
)

// Track is one per-track entry of an abstract playlist, either read from
// JSPF input or produced as resolved output.
type Track struct {
	Artist     string
	Title      string
	Identifier string
	LocalPath  string
	DurationMS int
}

// Playlist is an abstract playlist: a title and an ordered track list.
type Playlist struct {
	Title  string
	Tracks []Track
}

type jspfTrack struct {
	Creator    string   `json:"creator"`
	Title      string   `json:"title"`
	Identifier []string `json:"identifier,omitempty"`
	Location   []string `json:"location,omitempty"`
}

type jspfDocument struct {
	Playlist struct {
		Title string      `json:"title"`
		Track []jspfTrack `json:"track"`
	} `json:"playlist"`
}

// ReadJSPF reads a JSPF playlist file into an abstract Playlist.
func ReadJSPF(path string) (*Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindInvalidInput, "playlist.ReadJSPF", err)
	}

	var doc jspfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, catalogerr.New(catalogerr.KindInvalidInput, "playlist.ReadJSPF", err)
	}

	pl := &Playlist{Title: doc.Playlist.Title}
	for _, t := range doc.Playlist.Track {
		track := Track{Artist: t.Creator, Title: t.Title}
		if len(t.Identifier) > 0 {
			track.Identifier = t.Identifier[0]
		}
		pl.Tracks = append(pl.Tracks, track)
	}
	return pl, nil
}

// WriteM3U writes pl as a sequential M3U playlist. Tracks without a
// LocalPath are skipped; callers are expected to have already resolved
// the playlist before calling WriteM3U.
func WriteM3U(path string, pl *Playlist) error {
	f, err := os.Create(path)
	if err != nil {
		return catalogerr.New(catalogerr.KindInvalidInput, "playlist.WriteM3U", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "#EXTM3U\n#EXTENC: UTF-8\n#PLAYLIST %s\n", pl.Title); err != nil {
		return catalogerr.New(catalogerr.KindInternal, "playlist.WriteM3U", err)
	}

	for _, t := range pl.Tracks {
		if t.LocalPath == "" {
			continue
		}
		if _, err := fmt.Fprintf(f, "#EXTINF %d,%s - %s\n%s\n", t.DurationMS/1000, t.Artist, t.Title, t.LocalPath); err != nil {
			return catalogerr.New(catalogerr.KindInternal, "playlist.WriteM3U", err)
		}
	}
	return nil
}

// WriteJSPF re-emits pl as JSPF with local paths/remote identifiers
// filled in, for callers that want the resolved playlist back in the
// same format they supplied.
func WriteJSPF(path string, pl *Playlist) error {
	doc := jspfDocument{}
	doc.Playlist.Title = pl.Title
	for _, t := range pl.Tracks {
		jt := jspfTrack{Creator: t.Artist, Title: t.Title}
		if t.Identifier != "" {
			jt.Identifier = []string{t.Identifier}
		}
		if t.LocalPath != "" {
			jt.Location = []string{"file://" + t.LocalPath}
		}
		doc.Playlist.Track = append(doc.Playlist.Track, jt)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return catalogerr.New(catalogerr.KindInternal, "playlist.WriteJSPF", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return catalogerr.New(catalogerr.KindInvalidInput, "playlist.WriteJSPF", err)
	}
	return nil
}
