// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package history abstracts where page snapshots are kept. A Store appends
// snapshots and lists a page's history newest first. The local, s3 and sqlite
// subpackages provide implementations; NewStore picks one from command flags
// and configuration.
package history
