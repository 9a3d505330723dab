// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"strings"
)

// Row is one op prepared for rendering. Old and New hold the escaped and
// marked text for each side, without the line terminator. The side an op does
// not touch is empty.
type Row struct {
	Op `yaml:",inline"`
	Old string `json:"old,omitempty" yaml:"old,omitempty"`
	New string `json:"new,omitempty" yaml:"new,omitempty"`
}

// Stats counts ops by type.
type Stats struct {
	Equal     int  `json:"equal" yaml:"equal"`
	Added     int  `json:"added" yaml:"added"`
	Deleted   int  `json:"deleted" yaml:"deleted"`
	Identical bool `json:"identical" yaml:"identical"`
}

// Result is the outcome of Differ.Compare.
type Result struct {
	Strategy string `json:"strategy" yaml:"strategy"`
	Rows     []Row  `json:"rows" yaml:"rows"`
	Stats    Stats  `json:"stats" yaml:"stats"`
}

// Ops returns the ops of r in order.
func (r Result) Ops() []Op {
	ops := make([]Op, len(r.Rows))
	for i, row := range r.Rows {
		ops[i] = row.Op
	}
	return ops
}

// Differ wires normalization, a line strategy and the word highlighter.
type Differ struct {
	Normalize   func(string) string
	Strategy    Strategy
	Highlighter Highlighter
}

// Option configures a Differ.
type Option func(*Differ)

// New returns a Differ that normalizes with Normalize, diffs with the
// external strategy falling back to the internal one, and highlights with
// HTML markup.
func New(options ...Option) *Differ {
	d := &Differ{
		Normalize:   Normalize,
		Strategy:    NewFallback(NewExternal(0), 0),
		Highlighter: Highlighter{Markup: HTMLMarkup},
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// WithNormalizer replaces the normalization function. nil disables
// normalization.
func WithNormalizer(fn func(string) string) Option {
	return func(d *Differ) {
		if fn == nil {
			fn = func(s string) string { return s }
		}
		d.Normalize = fn
	}
}

// WithStrategy replaces the line strategy.
func WithStrategy(s Strategy) Option {
	return func(d *Differ) { d.Strategy = s }
}

// WithMarkup replaces the highlight markup.
func WithMarkup(m Markup) Option {
	return func(d *Differ) { d.Highlighter.Markup = m }
}

// WithMaxCells sets the word-level table bound.
func WithMaxCells(n int) Option {
	return func(d *Differ) { d.Highlighter.MaxCells = n }
}

// Compare normalizes both texts, diffs them and highlights every changed op.
func (d *Differ) Compare(baseline, current string) Result {
	normalize := d.Normalize
	if normalize == nil {
		normalize = Normalize
	}
	baseline, current = normalize(baseline), normalize(current)

	var (
		ops  []Op
		name string
	)
	switch s := d.Strategy.(type) {
	case nil:
		ops, _ = Internal{}.Diff(baseline, current)
		name = StrategyInternal
	case *Fallback:
		ops, name = s.SelectAndDiff(baseline, current)
	default:
		// A bare strategy still gets the fallback treatment.
		ops, name = (&Fallback{Primary: s}).SelectAndDiff(baseline, current)
	}

	return Result{
		Strategy: name,
		Rows:     d.rows(ops),
		Stats:    stats(ops),
	}
}

// rows highlights ops. Within a run of consecutive non-equal ops the k-th
// deletion is paired with the k-th addition so that a changed line only marks
// the words that differ; unpaired ops are highlighted against nothing.
func (d *Differ) rows(ops []Op) []Row {
	h := d.Highlighter
	m := h.markup()
	rows := make([]Row, len(ops))

	for i := 0; i < len(ops); {
		if ops[i].Type == Equal {
			t := m.Escape(trimEOL(ops[i].Text))
			rows[i] = Row{Op: ops[i], Old: t, New: t}
			i++
			continue
		}

		var dels, adds []int
		j := i
		for ; j < len(ops) && ops[j].Type != Equal; j++ {
			if ops[j].Type == Del {
				dels = append(dels, j)
			} else {
				adds = append(adds, j)
			}
		}

		for k := 0; k < max(len(dels), len(adds)); k++ {
			var oldText, newText string
			if k < len(dels) {
				oldText = trimEOL(ops[dels[k]].Text)
			}
			if k < len(adds) {
				newText = trimEOL(ops[adds[k]].Text)
			}
			marked := h.Highlight(oldText, newText)
			if k < len(dels) {
				rows[dels[k]] = Row{Op: ops[dels[k]], Old: marked.Old}
			}
			if k < len(adds) {
				rows[adds[k]] = Row{Op: ops[adds[k]], New: marked.New}
			}
		}
		i = j
	}

	return rows
}

func stats(ops []Op) Stats {
	var s Stats
	for _, op := range ops {
		switch op.Type {
		case Equal:
			s.Equal++
		case Add:
			s.Added++
		case Del:
			s.Deleted++
		}
	}
	s.Identical = s.Added == 0 && s.Deleted == 0
	return s
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
