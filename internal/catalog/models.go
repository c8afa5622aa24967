// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package catalog

import "time"

// Recording is a scanned audio file, unique by FilePath.
type Recording struct {
	ID            int64
	FilePath      string
	FileMtime     int64
	ArtistName    string
	ReleaseName   string
	RecordingName string
	ArtistMBID    string
	ReleaseMBID   string
	RecordingMBID string
	DurationMS    int
	TrackNum      int
	DiscNum       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecordingMetadata is 1:1 with a Recording: externally-fetched popularity.
type RecordingMetadata struct {
	RecordingID int64
	Popularity  float64
	LastUpdated time.Time
}

// Tag is a distinct tag name.
type Tag struct {
	ID   int64
	Name string
}

// TagEntity is the source granularity of a tag association.
type TagEntity string

const (
	EntityArtist       TagEntity = "artist"
	EntityReleaseGroup TagEntity = "release-group"
	EntityRecording    TagEntity = "recording"
)

// RecordingTag is a many-to-many association between a Recording and a Tag.
type RecordingTag struct {
	RecordingID int64
	TagName     string
	Entity      TagEntity
	LastUpdated time.Time
}

// RecordingSubsonic is 1:1 with a Recording: the opaque remote identifier.
type RecordingSubsonic struct {
	RecordingID int64
	SubsonicID  string
	LastUpdated time.Time
}

// UnresolvedRecording tracks how often a recording identifier failed
// resolution.
type UnresolvedRecording struct {
	RecordingMBID string
	ArtistName    string
	RecordingName string
	LookupCount   int
	LastSeen      time.Time
}

// Directory tracks a scanned directory's last-seen mtime, used to skip
// unchanged directories on re-scan.
type Directory struct {
	Path  string
	Mtime int64
}

// SanityReport is returned by MetadataSanityCheck.
type SanityReport struct {
	TotalRecordings       int64
	MissingMetadata       int64
	MissingRemoteCrossRef int64 // only populated when includeRemote is true
}

// DuplicateGroup is a set of Recording rows sharing the same identifier.
type DuplicateGroup struct {
	RecordingMBID string
	FilePaths     []string
}
