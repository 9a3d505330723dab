// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tfctl/pagediff/internal/snapshot"
)

// StoreSQLite keeps snapshots in one table of a SQLite database.
type StoreSQLite struct {
	Path string
	db   *sql.DB
}

// Append implements history.Store.
func (st *StoreSQLite) Append(ctx context.Context, snap snapshot.Snapshot) error {
	_, err := st.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, page, page_key, captured_at, hash, body) VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Page, snapshot.PageKey(snap.Page), snap.CapturedAt.UnixNano(), snap.Hash, snap.Body,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// List implements history.Store.
func (st *StoreSQLite) List(ctx context.Context, page string) ([]snapshot.Snapshot, error) {
	rows, err := st.db.QueryContext(ctx,
		`SELECT id, page, captured_at, hash, body FROM snapshots WHERE page_key = ? ORDER BY captured_at DESC, id DESC`,
		snapshot.PageKey(page),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []snapshot.Snapshot
	for rows.Next() {
		var (
			s     snapshot.Snapshot
			nanos int64
		)
		if err := rows.Scan(&s.ID, &s.Page, &nanos, &s.Hash, &s.Body); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.CapturedAt = time.Unix(0, nanos).UTC()
		snaps = append(snaps, s)
	}

	return snaps, rows.Err()
}

// Latest implements history.Store.
func (st *StoreSQLite) Latest(ctx context.Context, page string) (snapshot.Snapshot, error) {
	snaps, err := st.List(ctx, page)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return snapshot.Latest(snaps, page)
}

func (st *StoreSQLite) Close() error {
	if st.db == nil {
		return nil
	}
	return st.db.Close()
}

func (st *StoreSQLite) String() string {
	return "sqlite:" + st.Path
}
