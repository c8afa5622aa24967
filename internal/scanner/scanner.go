// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package scanner walks filesystem trees of tagged audio files and makes
// the catalog reflect their current state: two passes per root (a dry pass
// to skip unchanged directories, a work pass to chunk and upsert changed
// files), never aborting a chunk on a single file's error.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalog"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/logging"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/tagreader"
)

// Counters tallies a scan run's outcome. They must sum to Total; a
// mismatch is a self-diagnostic warning, not a failure.
type Counters struct {
	Total     int
	Unchanged int
	Added     int
	Updated   int
	Errored   int
}

// Scanner walks one or more roots and upserts recordings into a Catalog.
type Scanner struct {
	cat       *catalog.Catalog
	chunkSize int
	log       zerolog.Logger
}

// New returns a Scanner writing into cat, batching file-tag reads and
// upserts into chunks of chunkSize.
func New(cat *catalog.Catalog, chunkSize int) *Scanner {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	return &Scanner{cat: cat, chunkSize: chunkSize, log: logging.With().Str("component", "scanner").Logger()}
}

type stagedFile struct {
	path  string
	mtime int64
}

// Scan walks roots and upserts changed files into the catalog, skipping
// directories whose mtime matches the stored Directory row.
func (s *Scanner) Scan(ctx context.Context, roots []string) (Counters, error) {
	var counters Counters

	for _, root := range roots {
		skip, err := s.dryPass(ctx, root)
		if err != nil {
			return counters, err
		}

		if err := s.workPass(ctx, root, skip, &counters); err != nil {
			return counters, err
		}
	}

	if sum := counters.Unchanged + counters.Added + counters.Updated + counters.Errored; sum != counters.Total {
		s.log.Warn().Int("total", counters.Total).Int("sum", sum).Msg("scan counters do not sum to total")
	}

	return counters, nil
}

// dryPass walks root, comparing each directory's mtime against the stored
// row, and returns the set of directories to skip in the work pass.
func (s *Scanner) dryPass(ctx context.Context, root string) (map[string]bool, error) {
	skip := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("dry pass walk error")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("failed to stat directory")
			return nil
		}
		mtime := info.ModTime().Unix()

		stored, found, err := s.cat.GetDirectoryMtime(ctx, path)
		if err != nil {
			return err
		}
		if found && stored == mtime {
			skip[path] = true
			return nil
		}

		if err := s.cat.UpsertDirectory(ctx, path, mtime); err != nil {
			return err
		}
		return nil
	})

	return skip, err
}

// workPass walks root again, skipping directories in skip, chunking
// candidate audio files and processing each chunk.
func (s *Scanner) workPass(ctx context.Context, root string, skip map[string]bool, counters *Counters) error {
	var chunk []stagedFile

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		if err := s.processChunk(ctx, chunk, counters); err != nil {
			return err
		}
		chunk = chunk[:0]
		return nil
	}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("work pass walk error")
			return nil
		}
		if d.IsDir() {
			if skip[path] {
				return filepath.SkipDir
			}
			return nil
		}
		if !tagreader.IsSupported(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("failed to stat file")
			return nil
		}

		chunk = append(chunk, stagedFile{path: path, mtime: info.ModTime().Unix()})
		if len(chunk) >= s.chunkSize {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}

	return flush()
}

type chunkResult struct {
	path      string
	recording *catalog.Recording
	unchanged bool
	readErr   error
}

// processChunk reads tags for every staged file (bounded parallelism; the
// per-chunk write transaction is not parallelized) and upserts the results
// within a single transaction. Per-file errors are counted, never fatal.
func (s *Scanner) processChunk(ctx context.Context, chunk []stagedFile, counters *Counters) error {
	results := make([]chunkResult, len(chunk))

	var toRead []int
	for i, f := range chunk {
		existing, err := s.cat.GetRecordingByPath(ctx, f.path)
		if err != nil {
			return err
		}
		if existing != nil && existing.FileMtime == f.mtime {
			results[i] = chunkResult{path: f.path, unchanged: true}
			continue
		}
		toRead = append(toRead, i)
	}

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	for _, idx := range toRead {
		idx := idx
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			tags, err := tagreader.Read(chunk[idx].path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[idx] = chunkResult{path: chunk[idx].path, readErr: err}
				return nil
			}
			results[idx] = chunkResult{
				path: chunk[idx].path,
				recording: &catalog.Recording{
					FilePath:      chunk[idx].path,
					FileMtime:     chunk[idx].mtime,
					ArtistName:    tags.ArtistName,
					ReleaseName:   tags.ReleaseName,
					RecordingName: tags.RecordingName,
					ArtistMBID:    tags.ArtistMBID,
					ReleaseMBID:   tags.ReleaseMBID,
					RecordingMBID: tags.RecordingMBID,
					DurationMS:    tags.DurationMS,
					TrackNum:      tags.TrackNum,
					DiscNum:       tags.DiscNum,
				},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var toUpsert []*catalog.Recording
	for _, r := range results {
		if r.unchanged || r.readErr != nil {
			continue
		}
		toUpsert = append(toUpsert, r.recording)
	}

	_, isNew, err := s.cat.UpsertRecordingsBatch(ctx, toUpsert)
	if err != nil {
		return err
	}

	var upsertIdx int
	for _, r := range results {
		counters.Total++
		switch {
		case r.unchanged:
			counters.Unchanged++
		case r.readErr != nil:
			counters.Errored++
			s.log.Warn().Err(r.readErr).Str("path", r.path).Msg("failed to read tags")
		default:
			if isNew[upsertIdx] {
				counters.Added++
			} else {
				counters.Updated++
			}
			upsertIdx++
		}
	}

	return nil
}
