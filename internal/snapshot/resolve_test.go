// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func history() []Snapshot {
	return []Snapshot{
		{ID: "01920000-aaaa-7000-8000-000000000003", Body: "three"},
		{ID: "01920000-bbbb-7000-8000-000000000002", Body: "two"},
		{ID: "01910000-cccc-7000-8000-000000000001", Body: "one"},
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		specs []string
		want  []string
	}{
		{name: "default is newest", want: []string{"three"}},
		{name: "tilde", specs: []string{"~1"}, want: []string{"two"}},
		{name: "csv", specs: []string{"CSV~2", "csv~0"}, want: []string{"one", "three"}},
		{name: "relative", specs: []string{"0", "-1"}, want: []string{"three", "two"}},
		{name: "id prefix", specs: []string{"0191"}, want: []string{"one"}},
		{name: "ambiguous prefix takes newest", specs: []string{"01920000"}, want: []string{"three"}},
		{name: "file", specs: []string{filepath.Join("testdata", "page.html")}, want: []string{"<html>\n<body>\n<p>from disk</p>\n</body>\n</html>\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(history(), tt.specs...)
			require.NoError(t, err)

			bodies := make([]string, len(got))
			for i, s := range got {
				bodies[i] = s.Body
			}
			assert.Equal(t, tt.want, bodies)
		})
	}
}

func TestResolve_File(t *testing.T) {
	p := filepath.Join("testdata", "page.html")
	got, err := Resolve(nil, p)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p, got[0].ID)
	assert.Equal(t, Hash(got[0].Body), got[0].Hash)
	assert.False(t, got[0].CapturedAt.IsZero())
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name     string
		snaps    []Snapshot
		spec     string
		notFound bool
	}{
		{name: "empty history", spec: "~0", notFound: true},
		{name: "out of range", snaps: history(), spec: "~3", notFound: true},
		{name: "relative out of range", snaps: history(), spec: "-5", notFound: true},
		{name: "bad index", snaps: history(), spec: "~x"},
		{name: "negative tilde", snaps: history(), spec: "~-1"},
		{name: "unknown id", snaps: history(), spec: "ffff", notFound: true},
		{name: "empty spec", snaps: history(), spec: "", notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.snaps, tt.spec)
			require.Error(t, err)
			if tt.notFound {
				assert.ErrorIs(t, err, ErrNotFound)
			} else {
				assert.NotErrorIs(t, err, ErrNotFound)
			}
		})
	}
}

func TestResolve_DirectoryIsNotAFile(t *testing.T) {
	_, err := Resolve(history(), "testdata")
	assert.ErrorIs(t, err, ErrNotFound)
}
