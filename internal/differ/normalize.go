// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"

	"github.com/tfctl/pagediff/internal/log"
)

var (
	trailingBlanks = regexp.MustCompile(`(?m)[ \t]+$`)
	blankRuns      = regexp.MustCompile(`\n\s*\n`)
	tagBoundary    = regexp.MustCompile(`>\s*<`)
)

// Normalize removes formatting noise that should never show up as a change:
// carriage returns, trailing blanks on each line, runs of blank lines and
// leading/trailing whitespace of the whole text.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	text = trailingBlanks.ReplaceAllString(text, "")
	text = blankRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// Normalizer modes accepted by NormalizerFor.
const (
	ModeText   = "text"
	ModeMarkup = "markup"
)

// NormalizerFor returns the normalization function for mode. "markup"
// canonicalizes the markup before Normalize runs; anything else is plain
// Normalize.
func NormalizerFor(mode string) (func(string) string, error) {
	switch strings.ToLower(mode) {
	case "", ModeText:
		return Normalize, nil
	case ModeMarkup:
		return func(s string) string { return Normalize(CanonicalMarkup(s)) }, nil
	default:
		return nil, fmt.Errorf("unknown normalize mode: %s", mode)
	}
}

var (
	minifier     *minify.M
	minifierOnce sync.Once
)

func getMinifier() *minify.M {
	minifierOnce.Do(func() {
		minifier = minify.New()
		minifier.Add("text/html", &html.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
	})
	return minifier
}

// CanonicalMarkup minifies markup and puts every tag on its own line, so two
// serializations that only disagree on layout whitespace produce the same
// lines. On a minifier error the input is returned unchanged.
func CanonicalMarkup(markup string) string {
	if !strings.Contains(markup, "<") {
		return markup
	}

	out, err := getMinifier().String("text/html", markup)
	if err != nil {
		log.Debugf("markup canonicalization skipped: %v", err)
		return markup
	}

	return tagBoundary.ReplaceAllString(out, ">\n<")
}
