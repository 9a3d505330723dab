// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/tfctl/pagediff/internal/log"
)

// MaxBodyBytes caps how much of a page is read.
const MaxBodyBytes = 32 << 20

// Source returns the markup of page.
type Source interface {
	Capture(ctx context.Context, page string) (string, error)
}

// Options tune the sources For builds.
type Options struct {
	// Browser renders URLs in headless Chrome instead of fetching them.
	Browser bool
	Timeout time.Duration
	Retries int
	// RetryWait is the minimum wait between HTTP retries.
	RetryWait time.Duration
	// Headers are "Name: value" pairs sent with HTTP requests.
	Headers []string
	Stdin   io.Reader
	// NoSandbox starts Chrome without its sandbox.
	NoSandbox bool
}

// For returns the Source that can capture page.
func For(page string, opts Options) (Source, error) {
	if page == "" {
		return nil, fmt.Errorf("no page given")
	}

	if page == "-" {
		return File{Stdin: opts.Stdin}, nil
	}

	if IsPath(page) {
		return File{}, nil
	}

	u, _ := url.Parse(page)
	switch strings.ToLower(u.Scheme) {
	case "file":
		if opts.Browser {
			return Browser{Timeout: opts.Timeout, NoSandbox: opts.NoSandbox}, nil
		}
		return File{}, nil
	case "http", "https":
		if opts.Browser {
			return Browser{Timeout: opts.Timeout, NoSandbox: opts.NoSandbox}, nil
		}
		return NewHTTP(opts)
	default:
		return nil, fmt.Errorf("unsupported page scheme: %s", u.Scheme)
	}
}

// IsPath reports whether page names a local file rather than a URL. Windows
// drive letters parse as one letter schemes and count as paths.
func IsPath(page string) bool {
	if page == "-" {
		return false
	}
	u, err := url.Parse(page)
	return err != nil || u.Scheme == "" || len(u.Scheme) == 1
}

// File reads a local file, a file:// URL, or stdin for "-".
type File struct {
	Stdin io.Reader
}

func (f File) Capture(ctx context.Context, page string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var r io.Reader
	switch {
	case page == "-":
		r = f.Stdin
		if r == nil {
			r = os.Stdin
		}
	default:
		p := page
		if u, err := url.Parse(page); err == nil && strings.EqualFold(u.Scheme, "file") {
			p = u.Path
		}
		fh, err := os.Open(p)
		if err != nil {
			return "", fmt.Errorf("failed to open page: %w", err)
		}
		defer fh.Close()
		r = fh
	}

	body, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}
	log.Debugf("captured %d bytes from %s", len(body), page)

	return string(body), nil
}
