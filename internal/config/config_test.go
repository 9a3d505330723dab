// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfig points PAGEDIFF_CFG_FILE at a testdata file, loads it and runs fn.
func withConfig(t *testing.T, testFile string, fn func(t *testing.T)) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testFile))
	require.NoError(t, err)
	t.Setenv(EnvFile, absPath)

	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
	_, _ = Load()
	fn(t)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		testFile string
		wantErr  bool
	}{
		{name: "simple", testFile: "simple.yaml"},
		{name: "nested", testFile: "nested.yaml"},
		{name: "invalid yaml", testFile: "invalid.yaml", wantErr: true},
		{name: "missing file", testFile: "nope.yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			absPath, _ := filepath.Abs(filepath.Join("testdata", tt.testFile))
			t.Setenv(EnvFile, absPath)
			Config = Type{}
			t.Cleanup(func() { Config = Type{} })

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, absPath, cfg.Source)
			assert.NotEmpty(t, cfg.Data)
		})
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Setenv(EnvFile, "")
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	cfg, err := Load(filepath.Join("testdata", "simple.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Data["store"])
}

func TestLoad_EnvPointsToDirectory(t *testing.T) {
	t.Setenv(EnvFile, t.TempDir())
	_, err := Load()
	assert.ErrorContains(t, err, "points to a directory")
}

func TestGetters(t *testing.T) {
	withConfig(t, "simple.yaml", func(t *testing.T) {
		s, err := GetString("strategy")
		assert.NoError(t, err)
		assert.Equal(t, "external", s)

		n, err := GetInt("max-cells")
		assert.NoError(t, err)
		assert.Equal(t, 2500000, n)

		b, err := GetBool("color", true)
		assert.NoError(t, err)
		assert.False(t, b)

		d, err := GetDuration("timeout")
		assert.NoError(t, err)
		assert.Equal(t, 45*time.Second, d)
	})
}

func TestGetters_Defaults(t *testing.T) {
	withConfig(t, "simple.yaml", func(t *testing.T) {
		s, err := GetString("missing", "fallback")
		assert.NoError(t, err)
		assert.Equal(t, "fallback", s)

		n, err := GetInt("missing", 7)
		assert.NoError(t, err)
		assert.Equal(t, 7, n)

		b, err := GetBool("missing", true)
		assert.NoError(t, err)
		assert.True(t, b)

		d, err := GetDuration("missing", time.Minute)
		assert.NoError(t, err)
		assert.Equal(t, time.Minute, d)

		sl, err := GetStringSlice("missing", []string{"x"})
		assert.NoError(t, err)
		assert.Equal(t, []string{"x"}, sl)

		_, err = GetString("missing")
		assert.Error(t, err)
	})
}

func TestGetters_Nested(t *testing.T) {
	withConfig(t, "nested.yaml", func(t *testing.T) {
		s, err := GetString("store_options.s3.bucket")
		assert.NoError(t, err)
		assert.Equal(t, "snapshots", s)

		n, err := GetInt("capture.retries")
		assert.NoError(t, err)
		assert.Equal(t, 3, n)

		d, err := GetDuration("capture.timeout")
		assert.NoError(t, err)
		assert.Equal(t, 10*time.Second, d)

		h, err := GetStringSlice("capture.headers")
		assert.NoError(t, err)
		assert.Equal(t, []string{"Accept: text/html", "User-Agent: pagediff"}, h)
	})
}

func TestGetters_Namespace(t *testing.T) {
	withConfig(t, "nested.yaml", func(t *testing.T) {
		SetNamespace("compare")

		s, err := GetString("strategy")
		assert.NoError(t, err)
		assert.Equal(t, "internal", s, "namespaced key wins")

		s, err = GetString("store")
		assert.NoError(t, err)
		assert.Equal(t, "s3", s, "falls back to the bare key")

		SetNamespace("capture")
		s, err = GetString("strategy")
		assert.NoError(t, err)
		assert.Equal(t, "external", s)
	})
}

func TestGetters_WrongType(t *testing.T) {
	withConfig(t, "types.yaml", func(t *testing.T) {
		n, err := GetInt("float")
		assert.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = GetBool("notbool")
		assert.Error(t, err)

		_, err = GetString("float")
		assert.Error(t, err)

		_, err = GetStringSlice("badslice")
		assert.Error(t, err)

		_, err = GetStringSlice("list")
		assert.Error(t, err)

		_, err = GetDuration("notbool")
		assert.Error(t, err)
	})
}
