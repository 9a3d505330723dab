// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/pagediff/internal/snapshot"
)

func TestStoreSQLite_AppendList(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	st, err := NewStoreSQLite(ctx, nil, WithPath(path))
	require.NoError(t, err)
	assert.Equal(t, "sqlite:"+path, st.String())

	t0 := time.Date(2026, 4, 2, 10, 30, 0, 123, time.UTC)
	a, _ := snapshot.New("https://example.com/", "<p>A</p>", t0)
	b, _ := snapshot.New("https://example.com/", "<p>B</p>", t0.Add(time.Second))
	c, _ := snapshot.New("https://example.com/c", "<p>C</p>", t0)
	for _, s := range []snapshot.Snapshot{a, b, c} {
		require.NoError(t, st.Append(ctx, s))
	}
	require.NoError(t, st.Close())

	// Reopen to prove persistence.
	st, err = NewStoreSQLite(ctx, nil, WithPath(path))
	require.NoError(t, err)
	defer st.Close()

	got, err := st.List(ctx, "https://EXAMPLE.com/")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b, got[0])
	assert.Equal(t, a, got[1])

	latest, err := st.Latest(ctx, "https://example.com/c")
	require.NoError(t, err)
	assert.Equal(t, c.ID, latest.ID)
}

func TestStoreSQLite_NoBaseline(t *testing.T) {
	ctx := context.Background()
	st, err := NewStoreSQLite(ctx, nil, WithPath(":memory:"))
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Latest(ctx, "https://example.com/")
	assert.ErrorIs(t, err, snapshot.ErrNoBaseline)
}

func TestStoreSQLite_DuplicateID(t *testing.T) {
	ctx := context.Background()
	st, err := NewStoreSQLite(ctx, nil, WithPath(":memory:"))
	require.NoError(t, err)
	defer st.Close()

	s, _ := snapshot.New("p", "body", time.Now())
	require.NoError(t, st.Append(ctx, s))
	assert.Error(t, st.Append(ctx, s))
}

func TestStoreSQLite_Migrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	for range 2 {
		st, err := NewStoreSQLite(ctx, nil, WithPath(path))
		require.NoError(t, err)

		var version int64
		require.NoError(t, st.db.QueryRowContext(ctx,
			`SELECT MAX(version_id) FROM goose_db_version WHERE is_applied = 1`).Scan(&version))
		assert.Equal(t, int64(1), version)
		require.NoError(t, st.Close())
	}
}
