// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/tfctl/pagediff/internal/log"
)

// DefaultBrowserTimeout bounds one headless capture.
const DefaultBrowserTimeout = 30 * time.Second

// Browser loads the page in headless Chrome and returns the serialized DOM
// once the body is ready, so script-built content is included.
type Browser struct {
	Timeout time.Duration
	// NoSandbox is needed when Chrome runs as root, e.g. in containers.
	NoSandbox bool
}

func (b Browser) Capture(ctx context.Context, page string) (string, error) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
	)
	if b.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	bctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Debugf))
	defer cancel()

	bctx, cancel = context.WithTimeout(bctx, timeout)
	defer cancel()

	var markup string
	err := chromedp.Run(bctx,
		chromedp.Navigate(page),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`document.documentElement.outerHTML`, &markup),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", page, err)
	}
	log.Debugf("rendered %d bytes from %s", len(markup), page)

	return markup, nil
}
