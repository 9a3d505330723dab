// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"html/template"
	"io"

	"github.com/tfctl/pagediff/internal/differ"
)

// cell is one side of an HTML row. Text is already escaped by the differ.
type cell struct {
	Class string
	Text  template.HTML
}

type htmlRow struct {
	Old, New cell
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>pagediff: {{.Meta.Page}}</title>
<style>
body { font-family: sans-serif; margin: 1em; }
table { border-collapse: collapse; width: 100%; table-layout: fixed; }
td { font-family: monospace; white-space: pre-wrap; vertical-align: top; padding: 0 .5em; border-right: 1px solid #ddd; }
.diff-add { background: #e6ffed; }
.diff-del { background: #ffeef0; }
.word-add { background: #acf2bd; }
.word-del { background: #fdb8c0; text-decoration: line-through; }
</style>
</head>
<body>
<h1>{{.Meta.Page}}</h1>
<p class="summary">{{.Stats.Added}} added, {{.Stats.Deleted}} deleted, {{.Stats.Equal}} unchanged ({{.Strategy}})</p>
<table>
<thead><tr><th>Baseline {{if not .Meta.BaselineAt.IsZero}}{{.Meta.BaselineAt.Format "2006-01-02 15:04:05 MST"}}{{end}}</th><th>Current {{if not .Meta.CurrentAt.IsZero}}{{.Meta.CurrentAt.Format "2006-01-02 15:04:05 MST"}}{{end}}</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td class="{{.Old.Class}}">{{.Old.Text}}</td><td class="{{.New.Class}}">{{.New.Text}}</td></tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// HTML writes a side-by-side page. res must have been produced with
// differ.HTMLMarkup so that row text is escaped.
func HTML(w io.Writer, res differ.Result, meta Meta) error {
	rows := make([]htmlRow, len(res.Rows))
	for i, r := range res.Rows {
		// The untouched side of a changed row stays an empty equal cell.
		switch r.Type {
		case differ.Equal:
			rows[i] = htmlRow{
				Old: cell{"diff-equal", template.HTML(r.Old)}, //nolint:gosec
				New: cell{"diff-equal", template.HTML(r.New)}, //nolint:gosec
			}
		case differ.Del:
			rows[i] = htmlRow{
				Old: cell{"diff-del", template.HTML(r.Old)}, //nolint:gosec
				New: cell{Class: "diff-equal"},
			}
		case differ.Add:
			rows[i] = htmlRow{
				Old: cell{Class: "diff-equal"},
				New: cell{"diff-add", template.HTML(r.New)}, //nolint:gosec
			}
		}
	}

	return pageTemplate.Execute(w, struct {
		Meta     Meta
		Strategy string
		Stats    differ.Stats
		Rows     []htmlRow
	}{meta, res.Strategy, res.Stats, rows})
}
