// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetDirectoryMtime returns the stored mtime for path and whether a row
// exists, used by the scanner's dry pass to decide whether a directory can
// be skipped.
func (c *Catalog) GetDirectoryMtime(ctx context.Context, path string) (mtime int64, found bool, err error) {
	err = c.db.Conn().QueryRowContext(ctx, `SELECT mtime FROM directories WHERE path = ?`, path).Scan(&mtime)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("catalog: get directory mtime: %w", err)
	}
	return mtime, true, nil
}

// UpsertDirectory records path's current mtime.
func (c *Catalog) UpsertDirectory(ctx context.Context, path string, mtime int64) error {
	_, err := c.db.Conn().ExecContext(ctx, `
		INSERT INTO directories (path, mtime) VALUES (?, ?)
		ON CONFLICT (path) DO UPDATE SET mtime = excluded.mtime`, path, mtime)
	if err != nil {
		return fmt.Errorf("catalog: upsert directory %q: %w", path, err)
	}
	return nil
}
