// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package render presents a differ.Result. Every row of the result becomes
// exactly one rendered unit, in order: a table row of the side-by-side HTML
// page, a prefixed line of the terminal view, or an element of the JSON and
// YAML documents.
package render
