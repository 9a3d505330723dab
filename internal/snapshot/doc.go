// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package snapshot defines a captured page body and the spec syntax used to
// pick snapshots out of a page's history.
//
// A spec is one of:
//   - ~N or CSV~N: the N-th newest snapshot (~0 is the newest)
//   - 0 or -N: the same, as a relative index
//   - a path to a readable file, used as an ad-hoc snapshot
//   - an ID prefix of a stored snapshot
package snapshot
