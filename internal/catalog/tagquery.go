// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package catalog

import (
	"context"
	"fmt"
	"strings"
)

// TagOperator selects how multiple tag names combine when retrieving
// candidates.
type TagOperator int

const (
	// TagOperatorOR matches recordings carrying at least one of the tags.
	TagOperatorOR TagOperator = iota
	// TagOperatorAND matches recordings carrying every one of the tags.
	TagOperatorAND
)

// TagSearchRow is one candidate recording returned by a tag/popularity
// search, joined against its popularity and (if present) subsonic id.
type TagSearchRow struct {
	RecordingMBID string
	Popularity    float64
	SubsonicID    string
	RecordingName string
	ArtistName    string
	ArtistMBID    string
}

// ListCandidatesByTags retrieves recordings carrying tags (combined per
// operator), joined against RecordingMetadata, ordered by popularity
// descending.
func (c *Catalog) ListCandidatesByTags(ctx context.Context, tags []string, operator TagOperator) ([]TagSearchRow, error) {
	return c.listCandidatesByTags(ctx, tags, operator, nil)
}

// ListCandidatesByTagsForArtists is the artist-recording variant: results
// are restricted to recordings whose artist_mbid is in artistMBIDs.
func (c *Catalog) ListCandidatesByTagsForArtists(ctx context.Context, tags []string, operator TagOperator, artistMBIDs []string) ([]TagSearchRow, error) {
	if len(artistMBIDs) == 0 {
		return nil, nil
	}
	return c.listCandidatesByTags(ctx, tags, operator, artistMBIDs)
}

func (c *Catalog) listCandidatesByTags(ctx context.Context, tags []string, operator TagOperator, artistMBIDs []string) ([]TagSearchRow, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	tagPlaceholders := strings.TrimSuffix(strings.Repeat("?,", len(tags)), ",")
	args := make([]interface{}, 0, len(tags)+len(artistMBIDs))
	for _, t := range tags {
		args = append(args, t)
	}

	having := ""
	if operator == TagOperatorAND {
		having = fmt.Sprintf("HAVING COUNT(DISTINCT rt.tag_name) = %d", len(tags))
	}

	artistFilter := ""
	if len(artistMBIDs) > 0 {
		artistPlaceholders := strings.TrimSuffix(strings.Repeat("?,", len(artistMBIDs)), ",")
		artistFilter = fmt.Sprintf(" AND r.artist_mbid IN (%s)", artistPlaceholders)
		for _, a := range artistMBIDs {
			args = append(args, a)
		}
	}

	query := fmt.Sprintf(`
		SELECT r.recording_mbid, COALESCE(rm.popularity, 0), COALESCE(rs.subsonic_id, ''),
		       r.recording_name, r.artist_name, COALESCE(r.artist_mbid, '')
		FROM recordings r
		JOIN recording_tags rt ON rt.recording_id = r.id
		LEFT JOIN recording_metadata rm ON rm.recording_id = r.id
		LEFT JOIN recording_subsonic rs ON rs.recording_id = r.id
		WHERE rt.tag_name IN (%s)%s
		GROUP BY r.id, r.recording_mbid, rm.popularity, rs.subsonic_id, r.recording_name, r.artist_name, r.artist_mbid
		%s
		ORDER BY COALESCE(rm.popularity, 0) DESC`, tagPlaceholders, artistFilter, having)

	rows, err := c.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list candidates by tags: %w", err)
	}
	defer rows.Close()

	var out []TagSearchRow
	for rows.Next() {
		var row TagSearchRow
		var mbid *string
		if err := rows.Scan(&mbid, &row.Popularity, &row.SubsonicID, &row.RecordingName, &row.ArtistName, &row.ArtistMBID); err != nil {
			return nil, fmt.Errorf("catalog: scan candidate: %w", err)
		}
		if mbid != nil {
			row.RecordingMBID = *mbid
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
