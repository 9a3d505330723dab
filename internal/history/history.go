// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/pagediff/internal/history/local"
	"github.com/tfctl/pagediff/internal/history/s3"
	"github.com/tfctl/pagediff/internal/history/sqlite"
	"github.com/tfctl/pagediff/internal/log"
	"github.com/tfctl/pagediff/internal/snapshot"
)

// Store kinds accepted by the --store flag.
const (
	KindLocal  = "local"
	KindS3     = "s3"
	KindSQLite = "sqlite"
)

// ErrNoBaseline is returned by Latest when a page has no history.
var ErrNoBaseline = snapshot.ErrNoBaseline

// Store keeps the snapshot history of pages.
type Store interface {
	// Append adds snap to the history of snap.Page.
	Append(ctx context.Context, snap snapshot.Snapshot) error
	// List returns the history of page, newest first.
	List(ctx context.Context, page string) ([]snapshot.Snapshot, error)
	// Latest returns the newest snapshot of page or ErrNoBaseline.
	Latest(ctx context.Context, page string) (snapshot.Snapshot, error)
	Close() error
	String() string
}

// DefaultDir is where the local and sqlite stores live unless configured.
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pagediff", "history")
	}
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".pagediff")
	}
	return ".pagediff"
}

// NewStore returns the Store selected by the command's --store flag.
func NewStore(ctx context.Context, cmd *cli.Command) (Store, error) {
	kind := cmd.String("store")
	log.Debugf("NewStore: kind=%s", kind)

	dir := cmd.String("history-dir")
	if dir == "" {
		dir = DefaultDir()
	}

	switch kind {
	case "", KindLocal:
		return local.NewStoreLocal(ctx, cmd, local.WithDir(dir))
	case KindS3:
		return s3.NewStoreS3(ctx, cmd, s3.FromCommand())
	case KindSQLite:
		path := cmd.String("db")
		if path == "" {
			path = filepath.Join(dir, "history.db")
		}
		return sqlite.NewStoreSQLite(ctx, cmd, sqlite.WithPath(path))
	default:
		return nil, fmt.Errorf("unknown history store: %s", kind)
	}
}
