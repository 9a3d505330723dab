// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"golang.org/x/term"

	"github.com/tfctl/pagediff/internal/config"
	"github.com/tfctl/pagediff/internal/differ"
)

// Styles color the terminal view.
type Styles struct {
	Add     lipgloss.Style
	Del     lipgloss.Style
	AddWord lipgloss.Style
	DelWord lipgloss.Style
}

// DefaultStyles reads colors.add and colors.del from config.
func DefaultStyles() Styles {
	add, _ := config.GetString("colors.add", "#22863a")
	del, _ := config.GetString("colors.del", "#cb2431")

	return Styles{
		Add:     lipgloss.NewStyle().Foreground(lipgloss.Color(add)),
		Del:     lipgloss.NewStyle().Foreground(lipgloss.Color(del)),
		AddWord: lipgloss.NewStyle().Foreground(lipgloss.Color(add)).Bold(true).Underline(true),
		DelWord: lipgloss.NewStyle().Foreground(lipgloss.Color(del)).Bold(true).Strikethrough(true),
	}
}

// Markup returns differ markup that paints changed words with s.
func (s Styles) Markup() differ.Markup {
	return differ.Markup{
		Escape: func(t string) string { return t },
		Del:    func(t string) string { return s.DelWord.Render(t) },
		Add:    func(t string) string { return s.AddWord.Render(t) },
	}
}

// ColorEnabled resolves a --color mode of always, never or auto. Auto colors
// only a terminal and honors NO_COLOR.
func ColorEnabled(mode string, w io.Writer) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Terminal writes an inline view: one line per row, prefixed "  ", "- " or
// "+ ", followed by a summary line.
func Terminal(w io.Writer, res differ.Result, meta Meta, styles Styles, color bool) error {
	bw := bufio.NewWriter(w)

	if meta.Page != "" {
		fmt.Fprintf(bw, "--- %s%s\n", meta.Page, stamp(meta.BaselineAt))
		fmt.Fprintf(bw, "+++ %s%s\n", meta.Page, stamp(meta.CurrentAt))
	}

	paint := func(st lipgloss.Style, s string) string {
		if !color {
			return s
		}
		return st.Render(s)
	}

	// Rows from the external strategy may span lines; prefix each one.
	lines := func(prefix, text string) {
		for _, l := range strings.Split(text, "\n") {
			fmt.Fprintf(bw, "%s%s\n", prefix, l)
		}
	}

	for _, r := range res.Rows {
		switch r.Type {
		case differ.Equal:
			lines("  ", r.Old)
		case differ.Del:
			lines(paint(styles.Del, "- "), r.Old)
		case differ.Add:
			lines(paint(styles.Add, "+ "), r.New)
		}
	}

	s := res.Stats
	if s.Identical {
		fmt.Fprintln(bw, "No changes.")
	} else {
		fmt.Fprintf(bw, "%d added, %d deleted, %d unchanged\n", s.Added, s.Deleted, s.Equal)
	}

	return bw.Flush()
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return "\t" + t.Local().Format("2006-01-02 15:04:05")
}
