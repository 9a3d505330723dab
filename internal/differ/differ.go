// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/tfctl/pagediff/internal/log"
)

// Strategy names accepted by NewStrategy.
const (
	StrategyInternal = "internal"
	StrategyExternal = "external"
)

// ErrUnavailable is returned by a strategy that cannot run at all.
var ErrUnavailable = errors.New("diff strategy unavailable")

// Strategy turns a normalized baseline and current text into ops.
type Strategy interface {
	Name() string
	Diff(baseline, current string) ([]Op, error)
}

// Internal is the line-level LCS differ. It never fails.
type Internal struct {
	// MaxCells bounds the line LCS table. Past it the diff degrades to whole
	// blocks. Zero means DefaultMaxCells; negative disables the guard.
	MaxCells int
}

func (Internal) Name() string { return StrategyInternal }

// Diff implements Strategy.
func (s Internal) Diff(baseline, current string) ([]Op, error) {
	a, b := Lines(baseline), Lines(current)

	limit := s.MaxCells
	if limit == 0 {
		limit = DefaultMaxCells
	}
	if exceeds(len(a), len(b), limit) {
		log.Warnf("line diff of %dx%d exceeds %d cells, diffing whole blocks", len(a), len(b), limit)
		return blockLines(a, b), nil
	}

	return linesToOps(SequenceOf(a, b)), nil
}

// External diffs with diff-match-patch followed by a semantic cleanup, which
// tends to produce chunks aligned to words and lines rather than characters.
type External struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewExternal returns an External strategy. A zero timeout keeps the
// diff-match-patch default.
func NewExternal(timeout time.Duration) *External {
	dmp := diffmatchpatch.New()
	if timeout > 0 {
		dmp.DiffTimeout = timeout
	}
	return &External{dmp: dmp}
}

func (e *External) Name() string { return StrategyExternal }

// Diff implements Strategy. A panic inside diff-match-patch is reported as an
// error.
func (e *External) Diff(baseline, current string) (ops []Op, err error) {
	if e == nil || e.dmp == nil {
		return nil, ErrUnavailable
	}

	defer func() {
		if r := recover(); r != nil {
			ops, err = nil, fmt.Errorf("diff-match-patch: %v", r)
		}
	}()

	diffs := e.dmp.DiffMain(baseline, current, true)
	diffs = e.dmp.DiffCleanupSemantic(diffs)

	ops = make([]Op, 0, len(diffs))
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			ops = append(ops, Op{Type: Equal, Text: d.Text})
		case diffmatchpatch.DiffDelete:
			ops = append(ops, Op{Type: Del, Text: d.Text})
		case diffmatchpatch.DiffInsert:
			ops = append(ops, Op{Type: Add, Text: d.Text})
		default:
			return nil, fmt.Errorf("diff-match-patch: unknown operation %d", d.Type)
		}
	}

	return ops, nil
}

// Fallback runs Primary and falls back to Secondary when Primary is missing,
// fails or panics. The fallback is logged and never reported to the caller.
type Fallback struct {
	Primary   Strategy
	Secondary Strategy
}

// NewFallback wraps primary with the internal differ as the fallback.
func NewFallback(primary Strategy, maxCells int) *Fallback {
	return &Fallback{Primary: primary, Secondary: Internal{MaxCells: maxCells}}
}

func (f *Fallback) Name() string {
	if f.Primary == nil {
		return f.secondary().Name()
	}
	return f.Primary.Name() + "|" + f.secondary().Name()
}

// Diff implements Strategy. The error is always nil.
func (f *Fallback) Diff(baseline, current string) ([]Op, error) {
	ops, _ := f.SelectAndDiff(baseline, current)
	return ops, nil
}

// SelectAndDiff returns the ops and the name of the strategy that produced
// them.
func (f *Fallback) SelectAndDiff(baseline, current string) ([]Op, string) {
	if f.Primary != nil {
		ops, err := tryDiff(f.Primary, baseline, current)
		if err == nil {
			return ops, f.Primary.Name()
		}
		log.WithError(err).Warnf("%s diff failed, falling back to %s", f.Primary.Name(), f.secondary().Name())
	} else {
		log.Debugf("no primary diff strategy, using %s", f.secondary().Name())
	}

	ops, err := tryDiff(f.secondary(), baseline, current)
	if err != nil {
		// Only a custom Secondary can get here.
		log.WithError(err).Errorf("%s diff failed, using internal", f.secondary().Name())
		ops, _ = Internal{}.Diff(baseline, current)
		return ops, StrategyInternal
	}
	return ops, f.secondary().Name()
}

func (f *Fallback) secondary() Strategy {
	if f.Secondary == nil {
		return Internal{}
	}
	return f.Secondary
}

func tryDiff(s Strategy, baseline, current string) (ops []Op, err error) {
	defer func() {
		if r := recover(); r != nil {
			ops, err = nil, fmt.Errorf("%s panicked: %v", s.Name(), r)
		}
	}()
	return s.Diff(baseline, current)
}

// NewStrategy builds the strategy named by name. "external" is wrapped in a
// Fallback to the internal differ; an unknown name behaves as an unavailable
// external strategy and therefore also lands on the internal differ.
func NewStrategy(name string, maxCells int, timeout time.Duration) Strategy {
	switch strings.ToLower(name) {
	case StrategyInternal:
		return Internal{MaxCells: maxCells}
	case "", StrategyExternal:
		return NewFallback(NewExternal(timeout), maxCells)
	default:
		log.Warnf("unknown diff strategy %q", name)
		return NewFallback(nil, maxCells)
	}
}
