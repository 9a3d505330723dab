// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package capture obtains the current markup of a page. A page is a local
// file, "-" for stdin, or an http(s) URL fetched either directly or through a
// headless Chrome when the rendered DOM is wanted.
package capture
