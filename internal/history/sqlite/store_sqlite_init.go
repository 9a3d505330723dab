// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/pagediff/internal/log"

	_ "modernc.org/sqlite"
)

type StoreSQLiteOption = func(ctx context.Context, cmd *cli.Command, st *StoreSQLite) error

//go:embed migrations/*.sql
var migrations embed.FS

var migrateMu sync.Mutex

// NewStoreSQLite opens (creating if needed) the database chosen by options
// and migrates its schema.
func NewStoreSQLite(ctx context.Context, cmd *cli.Command, options ...StoreSQLiteOption) (*StoreSQLite, error) {
	options = append([]StoreSQLiteOption{WithDefaults()}, options...)

	st := &StoreSQLite{}

	for _, opt := range options {
		if err := opt(ctx, cmd, st); err != nil {
			return nil, err
		}
	}

	if st.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(st.Path), 0o755); err != nil { //nolint:mnd
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", st.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Debugf("sqlite history opened: path=%s", st.Path)

	st.db = db
	return st, nil
}

func WithDefaults() StoreSQLiteOption {
	return func(ctx context.Context, cmd *cli.Command, st *StoreSQLite) error {
		cwd, _ := os.Getwd()
		st.Path = filepath.Join(cwd, ".pagediff", "history.db")
		return nil
	}
}

// WithPath sets the database file. ":memory:" keeps it in memory.
func WithPath(path string) StoreSQLiteOption {
	return func(ctx context.Context, cmd *cli.Command, st *StoreSQLite) error {
		if path != "" {
			st.Path = path
		}
		return nil
	}
}

// migrate brings the schema up to date. goose keeps its dialect, base FS and
// logger in package globals, so runs are serialized.
func migrate(ctx context.Context, db *sql.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	return goose.UpContext(ctx, db, "migrations")
}

// gooseLogger routes goose output to the debug log instead of stdout.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) { log.Debugf(format, v...) }
func (gooseLogger) Fatalf(format string, v ...interface{}) { log.Errorf(format, v...) }
