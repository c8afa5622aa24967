// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package subsonicsync pages a subsonic-compatible remote media server's
// album list, matches remote songs to local recordings by
// (release_mbid, track_num, disc_num), and stages the resulting id
// mappings into the catalog's RecordingSubsonic table.
package subsonicsync

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalog"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalogerr"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/logging"
)

const defaultPageSize = 500
const defaultBatchSize = 500

// Album is one row of the remote server's paged album list.
type Album struct {
	ID         string `json:"id"`
	ReleaseMBID string `json:"releaseMbid"`
}

// Song is one track within a remote album listing.
type Song struct {
	ID            string `json:"id"`
	Track         int    `json:"track"`
	DiscNumber    int    `json:"discNumber"`
	Title         string `json:"title"`
	DurationMS    int    `json:"duration"`
}

// Client fetches paged album lists and per-album song lists from the
// remote server. Implementations wrap resty against the server's actual
// API shape (e.g. Subsonic's getAlbumList2/getAlbum).
type Client interface {
	ListAlbums(ctx context.Context, offset, size int) ([]Album, error)
	ListSongs(ctx context.Context, albumID string) ([]Song, error)
}

// Counters tallies a sync run's outcome.
type Counters struct {
	AlbumsSeen    int
	AlbumsSkipped int
	SongsMatched  int
	SongsUnmatched int
}

// Syncer matches a remote subsonic-compatible catalog's songs against the
// local catalog and records the mapping.
type Syncer struct {
	cat       *catalog.Catalog
	client    Client
	pageSize  int
	batchSize int
	cb        *gobreaker.CircuitBreaker[interface{}]
	log       zerolog.Logger
}

// New returns a Syncer pulling albums from client in pages of pageSize,
// staging RecordingSubsonic upserts every batchSize matches.
func New(cat *catalog.Catalog, client Client, pageSize, batchSize int) *Syncer {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        "subsonic-remote",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 10 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
	})

	return &Syncer{
		cat:       cat,
		client:    client,
		pageSize:  pageSize,
		batchSize: batchSize,
		cb:        cb,
		log:       logging.With().Str("component", "subsonicsync").Logger(),
	}
}

// Run pages the remote album list until a short page ends it, matching and
// staging RecordingSubsonic mappings as it goes.
func (s *Syncer) Run(ctx context.Context) (Counters, error) {
	var counters Counters
	var staged []catalog.SubsonicMapping

	flush := func() error {
		if len(staged) == 0 {
			return nil
		}
		if err := s.cat.ApplySubsonicBatch(ctx, staged); err != nil {
			return catalogerr.New(catalogerr.KindStoreUnavailable, "subsonicsync.Run", err)
		}
		staged = staged[:0]
		return nil
	}

	for offset := 0; ; offset += s.pageSize {
		if ctx.Err() != nil {
			return counters, ctx.Err()
		}

		albums, err := s.listAlbums(ctx, offset, s.pageSize)
		if err != nil {
			return counters, err
		}

		for _, album := range albums {
			counters.AlbumsSeen++

			releaseMBID := album.ReleaseMBID
			if releaseMBID == "" {
				s.log.Warn().Str("album_id", album.ID).Msg("remote album has no release identifier, skipping")
				counters.AlbumsSkipped++
				continue
			}

			index, err := s.buildIndex(ctx, releaseMBID)
			if err != nil {
				return counters, err
			}
			if len(index) == 0 {
				counters.AlbumsSkipped++
				continue
			}

			songs, err := s.listSongs(ctx, album.ID)
			if err != nil {
				s.log.Warn().Err(err).Str("album_id", album.ID).Msg("failed to list remote songs, skipping album")
				counters.AlbumsSkipped++
				continue
			}

			for _, song := range songs {
				disc := song.DiscNumber
				if disc == 0 {
					disc = 1
				}
				recordingID, ok := index[trackKey{track: song.Track, disc: disc}]
				if !ok {
					s.log.Warn().Str("song_id", song.ID).Str("album_id", album.ID).Msg("no local match for remote song")
					counters.SongsUnmatched++
					continue
				}

				staged = append(staged, catalog.SubsonicMapping{RecordingID: recordingID, SubsonicID: song.ID})
				counters.SongsMatched++
				if len(staged) >= s.batchSize {
					if err := flush(); err != nil {
						return counters, err
					}
				}
			}
		}

		if len(albums) < s.pageSize {
			break
		}
	}

	if err := flush(); err != nil {
		return counters, err
	}
	return counters, nil
}

type trackKey struct {
	track int
	disc  int
}

func (s *Syncer) buildIndex(ctx context.Context, releaseMBID string) (map[trackKey]int64, error) {
	recordings, err := s.cat.ListRecordingsByReleaseMBID(ctx, releaseMBID)
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindStoreUnavailable, "subsonicsync.buildIndex", err)
	}

	index := make(map[trackKey]int64, len(recordings))
	for _, r := range recordings {
		disc := r.DiscNum
		if disc == 0 {
			disc = 1
		}
		index[trackKey{track: r.TrackNum, disc: disc}] = r.ID
	}
	return index, nil
}

func (s *Syncer) listAlbums(ctx context.Context, offset, size int) ([]Album, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.ListAlbums(ctx, offset, size)
	})
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindNetwork, "subsonicsync.listAlbums", err)
	}
	return result.([]Album), nil
}

func (s *Syncer) listSongs(ctx context.Context, albumID string) ([]Song, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.ListSongs(ctx, albumID)
	})
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindNetwork, "subsonicsync.listSongs", err)
	}
	return result.([]Song), nil
}

// RestyClient is the default Client implementation, speaking a Subsonic-
// style REST API over resty.
type RestyClient struct {
	http     *resty.Client
	baseURL  string
	user     string
	password string
}

// NewRestyClient returns a Client against a Subsonic-compatible server at
// baseURL, authenticating with user/password.
func NewRestyClient(baseURL, user, password string, timeout time.Duration) *RestyClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RestyClient{
		http:     resty.New().SetTimeout(timeout).SetBaseURL(baseURL),
		baseURL:  baseURL,
		user:     user,
		password: password,
	}
}

type albumListResponse struct {
	Albums []Album `json:"albums"`
}

func (c *RestyClient) ListAlbums(ctx context.Context, offset, size int) ([]Album, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"u":      c.user,
			"p":      c.password,
			"offset": fmt.Sprintf("%d", offset),
			"size":   fmt.Sprintf("%d", size),
			"f":      "json",
		}).
		Get("/rest/getAlbumList2")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("remote server returned status %d", resp.StatusCode())
	}

	var out albumListResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("subsonicsync: decode album list: %w", err)
	}
	return out.Albums, nil
}

type songListResponse struct {
	Songs []Song `json:"songs"`
}

func (c *RestyClient) ListSongs(ctx context.Context, albumID string) ([]Song, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"u":  c.user,
			"p":  c.password,
			"id": albumID,
			"f":  "json",
		}).
		Get("/rest/getAlbum")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("remote server returned status %d", resp.StatusCode())
	}

	var out songListResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("subsonicsync: decode song list: %w", err)
	}
	return out.Songs, nil
}
