// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/pagediff/internal/snapshot"
)

func newStore(t *testing.T) *StoreLocal {
	t.Helper()
	st, err := NewStoreLocal(context.Background(), nil, WithDir(t.TempDir()))
	require.NoError(t, err)
	return st
}

func snap(t *testing.T, page, body string, at time.Time) snapshot.Snapshot {
	t.Helper()
	s, err := snapshot.New(page, body, at)
	require.NoError(t, err)
	return s
}

func TestNewStoreLocal(t *testing.T) {
	st, err := NewStoreLocal(context.Background(), nil)
	require.NoError(t, err)
	cwd, _ := os.Getwd()
	assert.Equal(t, filepath.Join(cwd, ".pagediff"), st.Dir)

	st, err = NewStoreLocal(context.Background(), nil, WithDir("rel"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "rel"), st.Dir)
	assert.Equal(t, "local:"+filepath.Join(cwd, "rel"), st.String())
}

func TestStoreLocal_AppendList(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	t0 := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	first := snap(t, "https://example.com/", "<p>A</p>", t0)
	second := snap(t, "https://example.com/", "<p>B</p>", t0.Add(time.Minute))
	other := snap(t, "https://example.com/other", "<p>C</p>", t0)

	for _, s := range []snapshot.Snapshot{first, second, other} {
		require.NoError(t, st.Append(ctx, s))
	}

	got, err := st.List(ctx, "HTTPS://EXAMPLE.COM/#x")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, "<p>B</p>", got[0].Body)
	assert.Equal(t, first.ID, got[1].ID)
	assert.True(t, t0.Equal(got[1].CapturedAt))

	latest, err := st.Latest(ctx, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, second, latest)
}

func TestStoreLocal_NoBaseline(t *testing.T) {
	st := newStore(t)

	got, err := st.List(context.Background(), "https://nowhere.test/")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = st.Latest(context.Background(), "https://nowhere.test/")
	assert.ErrorIs(t, err, snapshot.ErrNoBaseline)
}

func TestStoreLocal_SkipsCorruptDocuments(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	good := snap(t, "p", "body", time.Now())
	require.NoError(t, st.Append(ctx, good))
	require.NoError(t, os.WriteFile(filepath.Join(st.pageDir("p"), "junk.json"), []byte("{"), 0o600))

	got, err := st.List(ctx, "p")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, good.ID, got[0].ID)
}

func TestStoreLocal_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := newStore(t)
	assert.ErrorIs(t, st.Append(ctx, snap(t, "p", "b", time.Now())), context.Canceled)
}
