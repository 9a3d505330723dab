// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes differences between a baseline snapshot and the
// current markup of a page. It normalizes both texts, diffs them line by line
// with a longest-common-subsequence engine (or with diff-match-patch when that
// strategy is selected), and sub-diffs every changed line word by word so the
// presentation layer can highlight exactly what moved.
//
// Everything in this package is pure and stateless. A Differ may be shared
// between goroutines.
package differ
