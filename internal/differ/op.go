// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"strings"
)

// OpType tags a diff segment as unchanged, added or deleted.
type OpType int

const (
	Equal OpType = iota
	Add
	Del
)

var opTypeNames = [...]string{"equal", "add", "del"}

func (t OpType) String() string {
	if t < 0 || int(t) >= len(opTypeNames) {
		return fmt.Sprintf("OpType(%d)", int(t))
	}
	return opTypeNames[t]
}

// MarshalText renders the type as its lowercase name so JSON and YAML output
// read "equal", "add" and "del".
func (t OpType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (t *OpType) UnmarshalText(b []byte) error {
	for i, n := range opTypeNames {
		if strings.EqualFold(n, string(b)) {
			*t = OpType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown op type: %q", string(b))
}

// Op is one segment of a diff. Text is opaque: a line with its terminator for
// line diffs, or whatever unit the external strategy produced.
type Op struct {
	Type OpType `json:"type" yaml:"type"`
	Text string `json:"text" yaml:"text"`
}

// OldText concatenates the baseline side (Equal and Del) of ops.
func OldText(ops []Op) string {
	return sideText(ops, Del)
}

// NewText concatenates the current side (Equal and Add) of ops.
func NewText(ops []Op) string {
	return sideText(ops, Add)
}

func sideText(ops []Op, keep OpType) string {
	var sb strings.Builder
	for _, op := range ops {
		if op.Type == Equal || op.Type == keep {
			sb.WriteString(op.Text)
		}
	}
	return sb.String()
}
