// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trailing blanks and blank runs", "a \nb\t\n\n\nc\n", "a\nb\nc"},
		{"crlf", "a\r\nb\r\n", "a\nb"},
		{"lone cr", "a\rb", "ab"},
		{"whitespace only lines", "a\n  \n\t\nb", "a\nb"},
		{"outer trim", "\n\n  <p>x</p>  \n\n", "<p>x</p>"},
		{"inner indentation kept", "<div>\n  <p>x</p>\n</div>", "<div>\n  <p>x</p>\n</div>"},
		{"empty", "", ""},
		{"blank", " \t\r\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestNormalizerFor(t *testing.T) {
	fn, err := NormalizerFor("")
	require.NoError(t, err)
	assert.Equal(t, "a\nb", fn("a \n\nb"))

	fn, err = NormalizerFor("TEXT")
	require.NoError(t, err)
	assert.Equal(t, "a", fn(" a "))

	_, err = NormalizerFor("tree")
	assert.Error(t, err)
}

func TestCanonicalMarkup(t *testing.T) {
	fn, err := NormalizerFor(ModeMarkup)
	require.NoError(t, err)

	compact := fn("<div><p>A</p></div>")
	spread := fn("<div>\n    <p>A</p>\n\n</div>\n")

	assert.Equal(t, compact, spread)
	assert.Contains(t, compact, "\n")

	assert.Equal(t, "no markup here", CanonicalMarkup("no markup here"))
}
