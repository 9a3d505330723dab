// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package render

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/pagediff/internal/differ"
)

var meta = Meta{
	Page:       "https://example.com/",
	BaselineID: "base",
	BaselineAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	CurrentAt:  time.Date(2026, 1, 3, 3, 4, 5, 0, time.UTC),
}

func compare(format string) differ.Result {
	d := differ.New(
		differ.WithStrategy(differ.Internal{}),
		differ.WithMarkup(Markup(format, false, Styles{})),
	)
	return d.Compare("<h1>title</h1>\n<p>old value</p>", "<h1>title</h1>\n<p>new value</p>\n<p>extra</p>")
}

func TestMarkup(t *testing.T) {
	assert.Equal(t, "&lt;", Markup(FormatHTML, true, Styles{}).Escape("<"))
	assert.Equal(t, "[-x-]", Markup(FormatText, false, Styles{}).Del("x"))
	assert.Equal(t, "{+x+}", Markup(FormatJSON, true, Styles{}).Add("x"))
	assert.Equal(t, "<", Markup(FormatText, true, DefaultStyles()).Escape("<"))
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, compare(FormatHTML), meta))

	out := buf.String()
	assert.Contains(t, out, "<title>pagediff: https://example.com/</title>")
	assert.Contains(t, out, `<tr><td class="diff-equal">&lt;h1&gt;title&lt;/h1&gt;</td><td class="diff-equal">&lt;h1&gt;title&lt;/h1&gt;</td></tr>`)
	assert.Contains(t, out, `<tr><td class="diff-del"><span class="word-del">&lt;p&gt;old</span> value&lt;/p&gt;</td><td class="diff-equal"></td></tr>`)
	assert.Contains(t, out, `<tr><td class="diff-equal"></td><td class="diff-add"><span class="word-add">&lt;p&gt;new</span> value&lt;/p&gt;</td></tr>`)
	assert.Contains(t, out, `<td class="diff-add"><span class="word-add">&lt;p&gt;extra&lt;/p&gt;</span></td>`)
	assert.Contains(t, out, "2 added, 1 deleted, 1 unchanged (internal)")
	assert.Contains(t, out, "2026-01-02 03:04:05 UTC")
	assert.Equal(t, 4, strings.Count(out, "<tr><td"), "one row per op")
}

func TestTerminal_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Terminal(&buf, compare(FormatText), Meta{}, Styles{}, false))

	want := "" +
		"  <h1>title</h1>\n" +
		"- [-<p>old-] value</p>\n" +
		"+ {+<p>new+} value</p>\n" +
		"+ {+<p>extra</p>+}\n" +
		"2 added, 1 deleted, 1 unchanged\n"
	assert.Equal(t, want, buf.String())
}

func TestTerminal_HeaderAndIdentical(t *testing.T) {
	res := differ.New().Compare("same", "same\n")

	var buf bytes.Buffer
	require.NoError(t, Terminal(&buf, res, meta, Styles{}, false))
	lines := strings.Split(buf.String(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "--- https://example.com/\t"))
	assert.True(t, strings.HasPrefix(lines[1], "+++ https://example.com/\t"))
	assert.Contains(t, buf.String(), "No changes.\n")
}

func TestTerminal_MultiLineRows(t *testing.T) {
	res := differ.Result{Rows: []differ.Row{{Op: differ.Op{Type: differ.Del, Text: "a\nb\n"}, Old: "a\nb"}}}

	var buf bytes.Buffer
	require.NoError(t, Terminal(&buf, res, Meta{}, Styles{}, false))
	assert.True(t, strings.HasPrefix(buf.String(), "- a\n- b\n"))
}

func TestTerminal_Color(t *testing.T) {
	var buf bytes.Buffer
	styles := DefaultStyles()
	res := differ.New(differ.WithStrategy(differ.Internal{}), differ.WithMarkup(styles.Markup())).Compare("a b", "a c")
	require.NoError(t, Terminal(&buf, res, Meta{}, styles, true))

	out := buf.String()
	assert.Contains(t, out, "b")
	assert.Contains(t, out, "c")
	assert.NotContains(t, out, "[-")
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, ColorEnabled("always", &buf))
	assert.False(t, ColorEnabled("never", os.Stdout))
	assert.False(t, ColorEnabled("auto", &buf), "buffers are not terminals")

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled("auto", os.Stdout))
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, compare(FormatJSON), meta))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "https://example.com/", doc["page"])
	assert.Equal(t, "internal", doc["strategy"])

	ops := doc["ops"].([]interface{})
	require.Len(t, ops, 4)
	first := ops[0].(map[string]interface{})
	assert.Equal(t, "equal", first["type"])
	assert.Equal(t, "<h1>title</h1>\n", first["text"])
	assert.Equal(t, "[-<p>old-] value</p>", ops[1].(map[string]interface{})["old"])
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, compare(FormatYAML), meta))

	var doc struct {
		Page  string `yaml:"page"`
		Stats struct {
			Added int `yaml:"added"`
		} `yaml:"stats"`
		Ops []struct {
			Type string `yaml:"type"`
			New  string `yaml:"new"`
		} `yaml:"ops"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "https://example.com/", doc.Page)
	assert.Equal(t, 2, doc.Stats.Added)
	require.Len(t, doc.Ops, 4)
	assert.Equal(t, "add", doc.Ops[3].Type)
	assert.Equal(t, "{+<p>extra</p>+}", doc.Ops[3].New)
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(io.Discard, "pdf", differ.Result{}, Meta{}, Styles{}, false))
}

func TestToFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "diff.html")
	require.NoError(t, ToFile(p, func(w io.Writer) error {
		return HTML(w, compare(FormatHTML), meta)
	}))
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")

	err = ToFile(filepath.Join(t.TempDir(), "missing", "diff.html"), func(io.Writer) error { return nil })
	assert.ErrorIs(t, err, ErrRenderTarget)
}
