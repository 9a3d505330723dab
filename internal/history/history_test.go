// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/pagediff/internal/history/local"
	"github.com/tfctl/pagediff/internal/history/sqlite"
)

// runWith parses args against a command carrying the store flags and returns
// the store NewStore builds.
func runWith(t *testing.T, args ...string) (Store, error) {
	t.Helper()

	var (
		st  Store
		err error
	)
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "store"},
			&cli.StringFlag{Name: "history-dir"},
			&cli.StringFlag{Name: "db"},
			&cli.StringFlag{Name: "bucket"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			st, err = NewStore(ctx, cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	if st != nil {
		t.Cleanup(func() { st.Close() })
	}
	return st, err
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	st, err := runWith(t, "--history-dir", dir)
	require.NoError(t, err)
	assert.IsType(t, &local.StoreLocal{}, st)
	assert.Equal(t, "local:"+dir, st.String())

	st, err = runWith(t, "--store", "sqlite", "--history-dir", dir)
	require.NoError(t, err)
	assert.IsType(t, &sqlite.StoreSQLite{}, st)
	assert.Equal(t, "sqlite:"+filepath.Join(dir, "history.db"), st.String())

	_, err = runWith(t, "--store", "s3", "--bucket", "")
	assert.Error(t, err)

	_, err = runWith(t, "--store", "ftp")
	assert.ErrorContains(t, err, "unknown history store")
}

func TestDefaultDir(t *testing.T) {
	assert.NotEmpty(t, DefaultDir())
}
