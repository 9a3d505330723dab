// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders snapshot history listings as a text table, JSON or
// YAML, with sorting by any column.
package output
