// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package tagreader reads audio container tags for the scanner, dispatching
// by file extension to github.com/dhowden/tag and extracting MusicBrainz
// identifiers from the raw tag frames.
package tagreader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalogerr"
)

// SupportedExtensions lists the file extensions the scanner should consider
// candidate audio files. Unknown extensions are skipped silently at scan
// time, per spec.
var SupportedExtensions = map[string]bool{
	".flac": true,
	".mp3":  true,
	".m4a":  true,
	".mp4":  true,
	".ogg":  true,
	".oga":  true,
	".opus": true,
}

// IsSupported reports whether path's extension is a registered audio
// container type.
func IsSupported(path string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Tags is the canonical attribute set extracted from a container's tags.
type Tags struct {
	ArtistName     string
	ArtistSortname string
	ReleaseName    string
	RecordingName  string
	ArtistMBID     string
	ReleaseMBID    string
	RecordingMBID  string
	TrackNum       int
	DiscNum        int
	DurationMS     int
}

// Read opens path and extracts its container tags. Disc number defaults to
// 1 when absent, per the catalog's Recording invariant. Identifier fields
// that fail to parse as 128-bit UUIDs become empty strings rather than
// rejecting the file.
func Read(path string) (*Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindTagRead, "tagreader.Read", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindTagRead, "tagreader.Read", fmt.Errorf("%s: %w", path, err))
	}

	trackNum, _ := m.Track()
	discNum, _ := m.Disc()
	if discNum <= 0 {
		discNum = 1
	}

	recordingName := m.Title()
	artistName := m.Artist()
	if recordingName == "" || artistName == "" {
		return nil, catalogerr.New(catalogerr.KindTagRead, "tagreader.Read",
			fmt.Errorf("%s: missing required artist/title tags", path))
	}

	mb := tag.MusicBrainz(&m)

	return &Tags{
		ArtistName:    artistName,
		ReleaseName:   m.Album(),
		RecordingName: recordingName,
		ArtistMBID:    parseMBID(mb.Artist),
		ReleaseMBID:   parseMBID(mb.Album),
		RecordingMBID: parseMBID(mb.Track),
		TrackNum:      trackNum,
		DiscNum:       discNum,
	}, nil
}

// parseMBID returns s if it parses as a 128-bit UUID, otherwise empty.
func parseMBID(s string) string {
	if s == "" {
		return ""
	}
	if _, err := uuid.Parse(s); err != nil {
		return ""
	}
	return s
}
