// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package duplicates reports Recordings sharing the same identifier,
// enriched with per-file size, SHA-1 digest, and container format so a
// listener can decide which copy to keep.
package duplicates

import (
	"context"
	"crypto/sha1" //nolint:gosec // content fingerprinting, not a security boundary
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalog"
	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalogerr"
)

// FileDetail describes one file in a duplicate group.
type FileDetail struct {
	Path   string
	Size   int64
	SHA1   string
	Format string
}

// Group is a duplicate-recording group enriched with per-file detail.
type Group struct {
	RecordingMBID string
	Files         []FileDetail
}

// Reporter lists duplicate recordings, optionally enriching each file
// with size/SHA-1/format.
type Reporter struct {
	cat *catalog.Catalog
}

// New returns a Reporter backed by cat.
func New(cat *catalog.Catalog) *Reporter {
	return &Reporter{cat: cat}
}

// Report lists duplicate-recording groups. When withDetail is true, each
// file's size, SHA-1 digest, and container format are computed; a file
// that can no longer be read contributes a detail with an empty digest
// rather than aborting the report.
func (r *Reporter) Report(ctx context.Context, withDetail bool) ([]Group, error) {
	raw, err := r.cat.ListDuplicateRecordingMBIDs(ctx)
	if err != nil {
		return nil, catalogerr.New(catalogerr.KindStoreUnavailable, "duplicates.Report", err)
	}

	groups := make([]Group, 0, len(raw))
	for _, dg := range raw {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		files := make([]FileDetail, 0, len(dg.FilePaths))
		for _, path := range dg.FilePaths {
			detail := FileDetail{Path: path, Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")}
			if withDetail {
				size, digest, err := fileFingerprint(path)
				if err == nil {
					detail.Size = size
					detail.SHA1 = digest
				}
			}
			files = append(files, detail)
		}
		groups = append(groups, Group{RecordingMBID: dg.RecordingMBID, Files: files})
	}

	return groups, nil
}

func fileFingerprint(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	h := sha1.New() //nolint:gosec // content fingerprinting, not a security boundary
	size, err := io.Copy(h, f)
	if err != nil {
		return 0, "", err
	}
	return size, hex.EncodeToString(h.Sum(nil)), nil
}
