// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/tfctl/pagediff/internal/log"
	"github.com/tfctl/pagediff/internal/version"
)

// HTTP fetches a page with retries on connection errors and 5xx responses.
type HTTP struct {
	client  *retryablehttp.Client
	headers http.Header
}

// NewHTTP returns an HTTP source configured from opts.
func NewHTTP(opts Options) (*HTTP, error) {
	client := retryablehttp.NewClient()
	client.Logger = log.Leveled{}
	client.RetryMax = opts.Retries
	if opts.RetryWait > 0 {
		client.RetryWaitMin = opts.RetryWait
		client.RetryWaitMax = 4 * opts.RetryWait
	}
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	} else {
		client.HTTPClient.Timeout = 30 * time.Second
	}

	headers := http.Header{}
	headers.Set("User-Agent", version.UserAgent())
	headers.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	for _, h := range opts.Headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, want \"Name: value\"", h)
		}
		headers.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	return &HTTP{client: client, headers: headers}, nil
}

func (h *HTTP) Capture(ctx context.Context, page string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, page, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	for name, values := range h.headers {
		req.Header[name] = values
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to fetch %s: %s", page, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", page, err)
	}
	log.Debugf("captured %d bytes from %s", len(body), page)

	return string(body), nil
}
