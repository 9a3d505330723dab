// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxCells bounds the LCS table (rows x columns) a single comparison
// may allocate before it degrades to a whole-block diff.
const DefaultMaxCells = 4_000_000

// Edit is one step of an edit script over tokens of type T. Equal edits carry
// the token from the old side.
type Edit[T any] struct {
	Type  OpType
	Value T
}

// Sequence diffs a against b using a longest-common-subsequence table. On a
// mismatch the walk prefers a deletion whenever dropping a[i] keeps at least
// as long a common subsequence as dropping b[j]. Remainders are drained as
// deletions, then additions.
func Sequence[T any](a, b []T, eq func(T, T) bool) []Edit[T] {
	n, m := len(a), len(b)
	table := lcsTable(a, b, eq)

	edits := make([]Edit[T], 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case eq(a[i], b[j]):
			edits = append(edits, Edit[T]{Type: Equal, Value: a[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			edits = append(edits, Edit[T]{Type: Del, Value: a[i]})
			i++
		default:
			edits = append(edits, Edit[T]{Type: Add, Value: b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		edits = append(edits, Edit[T]{Type: Del, Value: a[i]})
	}
	for ; j < m; j++ {
		edits = append(edits, Edit[T]{Type: Add, Value: b[j]})
	}

	return edits
}

// SequenceOf is Sequence with == as the equality predicate.
func SequenceOf[T comparable](a, b []T) []Edit[T] {
	return Sequence(a, b, func(x, y T) bool { return x == y })
}

// lcsTable returns T where T[i][j] is the LCS length of a[i:] and b[j:]. The
// rows share one backing slice.
func lcsTable[T any](a, b []T, eq func(T, T) bool) [][]int {
	n, m := len(a), len(b)
	cells := make([]int, (n+1)*(m+1))
	table := make([][]int, n+1)
	for i := range table {
		table[i] = cells[i*(m+1) : (i+1)*(m+1)]
	}

	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if eq(a[i], b[j]) {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	return table
}

// exceeds reports whether an n x m table is larger than limit cells. A limit
// <= 0 disables the check.
func exceeds(n, m, limit int) bool {
	if limit <= 0 || n == 0 || m == 0 {
		return false
	}
	return m > limit/n
}

// Lines splits text on "\n", dropping a "\r" before each break. A single
// trailing newline does not produce an empty final line, and empty text has no
// lines at all.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Words splits text into alternating runs of whitespace and non-whitespace.
// Concatenating the result yields text again.
func Words(text string) []string {
	if text == "" {
		return nil
	}

	tokens := make([]string, 0, len(text)/4+1)
	start := 0
	r, _ := utf8.DecodeRuneInString(text)
	inSpace := unicode.IsSpace(r)
	for i, r := range text {
		if unicode.IsSpace(r) != inSpace {
			tokens = append(tokens, text[start:i])
			start = i
			inSpace = !inSpace
		}
	}
	return append(tokens, text[start:])
}

// DiffLines diffs two texts line by line. Every op carries one line followed
// by "\n", so OldText(ops) equals a with a trailing newline ensured (and
// likewise for b).
func DiffLines(a, b string) []Op {
	return linesToOps(SequenceOf(Lines(a), Lines(b)))
}

func linesToOps(edits []Edit[string]) []Op {
	ops := make([]Op, len(edits))
	for i, e := range edits {
		ops[i] = Op{Type: e.Type, Text: e.Value + "\n"}
	}
	return ops
}

// blockLines is the degraded form of DiffLines used when the LCS table would
// be too large: identical inputs are one Equal op, otherwise the whole
// baseline is deleted and the whole current text added.
func blockLines(a, b []string) []Op {
	join := func(lines []string) string {
		if len(lines) == 0 {
			return ""
		}
		return strings.Join(lines, "\n") + "\n"
	}

	oldText, newText := join(a), join(b)
	if oldText == newText {
		if oldText == "" {
			return nil
		}
		return []Op{{Type: Equal, Text: oldText}}
	}

	var ops []Op
	if oldText != "" {
		ops = append(ops, Op{Type: Del, Text: oldText})
	}
	if newText != "" {
		ops = append(ops, Op{Type: Add, Text: newText})
	}
	return ops
}
