// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package cleaner

import "testing"

func TestCleanArtist(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Massive Attack", "Massive Attack"},
		{"Massive Attack feat. Horace Andy", "Massive Attack"},
		{"Massive Attack featuring Horace Andy", "Massive Attack"},
		{"Massive Attack ft. Horace Andy", "Massive Attack"},
	}
	c := New()
	for _, tt := range tests {
		if got := c.CleanArtist(tt.in); got != tt.want {
			t.Errorf("CleanArtist(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanRecording(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Teardrop", "Teardrop"},
		{"Teardrop (Remastered 2011)", "Teardrop"},
		{"Teardrop [Live]", "Teardrop"},
		{"Teardrop - Remastered", "Teardrop"},
		{"Teardrop - Remastered 2011", "Teardrop"},
	}
	c := New()
	for _, tt := range tests {
		if got := c.CleanRecording(tt.in); got != tt.want {
			t.Errorf("CleanRecording(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
