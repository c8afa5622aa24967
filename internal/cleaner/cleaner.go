// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package cleaner rewrites artist and recording names to strip common
// tagging noise (remaster suffixes, featured-artist credits, live/session
// markers) so the Resolver's cleaning retry loop can re-attempt a fuzzy
// match against a cleaner form of the name.
package cleaner

import "regexp"

// Cleaner independently rewrites an artist name and a recording name. A
// Cleaner implementation returns its input unchanged when no rule applies.
type Cleaner interface {
	CleanArtist(name string) string
	CleanRecording(name string) string
}

var (
	parenSuffixPattern = regexp.MustCompile(`(?i)\s*[\(\[][^()\[\]]*(remaster|remix|live|session|mono|stereo|version|edit|bonus track|deluxe|anniversary)[^()\[\]]*[\)\]]\s*$`)
	featuredPattern    = regexp.MustCompile(`(?i)\s+(feat\.?|featuring|ft\.?)\s+.*$`)
	trailingDashPattern = regexp.MustCompile(`(?i)\s*-\s*(remaster(ed)?|live|mono|stereo|single version|radio edit)(\s+\d{4})?\s*$`)
)

// RuleCleaner is the default Cleaner: a small set of regexes covering the
// most common noise patterns found in tagged audio metadata.
type RuleCleaner struct{}

// New returns the default rule-based Cleaner.
func New() *RuleCleaner {
	return &RuleCleaner{}
}

// CleanArtist strips featured-artist credits from an artist name.
func (RuleCleaner) CleanArtist(name string) string {
	return featuredPattern.ReplaceAllString(name, "")
}

// CleanRecording strips parenthetical and trailing-dash remaster/live/
// session suffixes from a recording title.
func (RuleCleaner) CleanRecording(name string) string {
	cleaned := parenSuffixPattern.ReplaceAllString(name, "")
	cleaned = trailingDashPattern.ReplaceAllString(cleaned, "")
	return cleaned
}
