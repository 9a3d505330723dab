// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import "strings"

// Markup decides how highlighted text is escaped and how deleted and added
// tokens are wrapped. Escape runs before Del/Add.
type Markup struct {
	Escape func(string) string
	Del    func(string) string
	Add    func(string) string
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes the five characters that matter inside markup.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Wrap returns a marker function that surrounds text with open and close.
func Wrap(open, close string) func(string) string {
	return func(s string) string { return open + s + close }
}

// HTMLMarkup escapes for HTML and wraps changes in word-del/word-add spans.
var HTMLMarkup = Markup{
	Escape: EscapeHTML,
	Del:    Wrap(`<span class="word-del">`, `</span>`),
	Add:    Wrap(`<span class="word-add">`, `</span>`),
}

// PlainMarkup leaves text unescaped and marks changes the way git's
// --word-diff=plain does.
var PlainMarkup = Markup{
	Escape: func(s string) string { return s },
	Del:    Wrap("[-", "-]"),
	Add:    Wrap("{+", "+}"),
}

// Marked holds both sides of a highlighted pair.
type Marked struct {
	Old string `json:"old" yaml:"old"`
	New string `json:"new" yaml:"new"`
}

// Highlighter sub-diffs changed text word by word.
type Highlighter struct {
	Markup Markup
	// MaxCells bounds the word-level LCS table. Past it every token on both
	// sides is marked. Zero means DefaultMaxCells; negative disables the guard.
	MaxCells int
}

// Highlight sub-diffs oldText against newText with HTML markup.
func Highlight(oldText, newText string) Marked {
	return Highlighter{Markup: HTMLMarkup}.Highlight(oldText, newText)
}

// HighlightWith is Highlight with caller supplied markup.
func HighlightWith(oldText, newText string, m Markup) Marked {
	return Highlighter{Markup: m}.Highlight(oldText, newText)
}

// Highlight tokenizes both texts with Words and diffs the tokens. Tokens
// common to both sides are emitted unmarked, deleted tokens are marked on the
// old side only and added tokens on the new side only.
func (h Highlighter) Highlight(oldText, newText string) Marked {
	m := h.markup()
	oldT, newT := Words(oldText), Words(newText)

	var edits []Edit[string]
	if exceeds(len(oldT), len(newT), h.maxCells()) {
		for _, t := range oldT {
			edits = append(edits, Edit[string]{Type: Del, Value: t})
		}
		for _, t := range newT {
			edits = append(edits, Edit[string]{Type: Add, Value: t})
		}
	} else {
		edits = SequenceOf(oldT, newT)
	}

	var oldSB, newSB strings.Builder
	for _, e := range edits {
		t := m.Escape(e.Value)
		switch e.Type {
		case Equal:
			oldSB.WriteString(t)
			newSB.WriteString(t)
		case Del:
			oldSB.WriteString(m.Del(t))
		case Add:
			newSB.WriteString(m.Add(t))
		}
	}

	return Marked{Old: oldSB.String(), New: newSB.String()}
}

func (h Highlighter) markup() Markup {
	m := h.Markup
	if m.Escape == nil {
		m.Escape = HTMLMarkup.Escape
	}
	if m.Del == nil {
		m.Del = HTMLMarkup.Del
	}
	if m.Add == nil {
		m.Add = HTMLMarkup.Add
	}
	return m
}

func (h Highlighter) maxCells() int {
	if h.MaxCells == 0 {
		return DefaultMaxCells
	}
	return h.MaxCells
}
