// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tfctl/pagediff/internal/log"
	"github.com/tfctl/pagediff/internal/snapshot"
)

// StoreLocal keeps each snapshot as a JSON document under
// Dir/<page key>/<id>.json.
type StoreLocal struct {
	Dir string
}

// Append implements history.Store.
func (st *StoreLocal) Append(ctx context.Context, snap snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := st.pageDir(snap.Page)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	p := filepath.Join(dir, snap.ID+".json")
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	log.Debugf("snapshot written: path=%s", p)

	return nil
}

// List implements history.Store. Unreadable documents are skipped.
func (st *StoreLocal) List(ctx context.Context, page string) ([]snapshot.Snapshot, error) {
	files, err := filepath.Glob(filepath.Join(st.pageDir(page), "*.json"))
	if err != nil {
		return nil, err
	}

	snaps := make([]snapshot.Snapshot, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(f)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.WithError(err).Warnf("skipping snapshot %s", f)
			}
			continue
		}

		var snap snapshot.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			log.WithError(err).Warnf("skipping snapshot %s", f)
			continue
		}
		snaps = append(snaps, snap)
	}

	snapshot.Sort(snaps)
	return snaps, nil
}

// Latest implements history.Store.
func (st *StoreLocal) Latest(ctx context.Context, page string) (snapshot.Snapshot, error) {
	snaps, err := st.List(ctx, page)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return snapshot.Latest(snaps, page)
}

func (st *StoreLocal) Close() error { return nil }

func (st *StoreLocal) String() string {
	return "local:" + st.Dir
}

func (st *StoreLocal) pageDir(page string) string {
	return filepath.Join(st.Dir, snapshot.PageKey(page))
}
