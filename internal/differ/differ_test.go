// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStrategy struct{ err error }

func (failingStrategy) Name() string { return "failing" }

func (s failingStrategy) Diff(string, string) ([]Op, error) { return nil, s.err }

type panickingStrategy struct{}

func (panickingStrategy) Name() string { return "panicking" }

func (panickingStrategy) Diff(string, string) ([]Op, error) { panic("boom") }

func TestInternal_Diff(t *testing.T) {
	ops, err := Internal{}.Diff("a\nb\nc", "a\nc\nd")
	require.NoError(t, err)

	assert.Equal(t, []Op{
		{Type: Equal, Text: "a\n"},
		{Type: Del, Text: "b\n"},
		{Type: Equal, Text: "c\n"},
		{Type: Add, Text: "d\n"},
	}, ops)
}

func TestInternal_DiffDegradesPastMaxCells(t *testing.T) {
	ops, err := Internal{MaxCells: 1}.Diff("a\nb", "a\nc")
	require.NoError(t, err)
	assert.Equal(t, []Op{
		{Type: Del, Text: "a\nb\n"},
		{Type: Add, Text: "a\nc\n"},
	}, ops)

	ops, err = Internal{MaxCells: 1}.Diff("a\nb", "a\nb")
	require.NoError(t, err)
	assert.Equal(t, []Op{{Type: Equal, Text: "a\nb\n"}}, ops)

	ops, err = Internal{MaxCells: -1}.Diff("a\nb", "a\nc")
	require.NoError(t, err)
	assert.Len(t, ops, 3)
}

func TestExternal_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		baseline string
		current  string
	}{
		{"changed word", "<p>The quick brown fox</p>", "<p>The quick red fox</p>"},
		{"added line", "<ul>\n<li>a</li>\n</ul>", "<ul>\n<li>a</li>\n<li>b</li>\n</ul>"},
		{"empty baseline", "", "<p>new</p>"},
		{"empty current", "<p>old</p>", ""},
		{"identical", "same", "same"},
	}

	e := NewExternal(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := e.Diff(tt.baseline, tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.baseline, OldText(ops))
			assert.Equal(t, tt.current, NewText(ops))
		})
	}
}

func TestExternal_Unavailable(t *testing.T) {
	var e *External
	_, err := e.Diff("a", "b")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFallback(t *testing.T) {
	want := DiffLines("a\nb", "a\nc")

	tests := []struct {
		name     string
		primary  Strategy
		wantName string
	}{
		{"primary error", failingStrategy{err: errors.New("nope")}, StrategyInternal},
		{"primary panic", panickingStrategy{}, StrategyInternal},
		{"no primary", nil, StrategyInternal},
		{"unavailable external", (*External)(nil), StrategyInternal},
		{"internal primary", Internal{}, StrategyInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFallback(tt.primary, 0)
			ops, name := f.SelectAndDiff("a\nb", "a\nc")
			assert.Equal(t, want, ops)
			assert.Equal(t, tt.wantName, name)

			ops, err := f.Diff("a\nb", "a\nc")
			assert.NoError(t, err)
			assert.Equal(t, want, ops)
		})
	}
}

func TestFallback_FailingSecondary(t *testing.T) {
	f := &Fallback{Primary: panickingStrategy{}, Secondary: failingStrategy{err: errors.New("nope")}}
	ops, name := f.SelectAndDiff("x", "y")

	assert.Equal(t, StrategyInternal, name)
	assert.Equal(t, DiffLines("x", "y"), ops)
}

func TestFallback_ExternalSucceeds(t *testing.T) {
	f := NewFallback(NewExternal(0), 0)
	ops, name := f.SelectAndDiff("hello world", "hello there")

	assert.Equal(t, StrategyExternal, name)
	assert.Equal(t, "hello world", OldText(ops))
	assert.Equal(t, "hello there", NewText(ops))
}

func TestNewStrategy(t *testing.T) {
	assert.Equal(t, Internal{MaxCells: 7}, NewStrategy("internal", 7, 0))
	assert.Equal(t, "external|internal", NewStrategy("external", 0, 0).Name())
	assert.Equal(t, "external|internal", NewStrategy("", 0, 0).Name())
	assert.Equal(t, "internal", NewStrategy("tree", 0, 0).Name())
}
