// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tfctl/pagediff/internal/differ"
	"github.com/tfctl/pagediff/internal/log"
)

// Output formats.
const (
	FormatText = "text"
	FormatHTML = "html"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrRenderTarget is returned when the output file cannot be created.
var ErrRenderTarget = errors.New("render target unavailable")

// Meta describes the two sides of a comparison.
type Meta struct {
	Page       string    `json:"page" yaml:"page"`
	BaselineID string    `json:"baseline_id,omitempty" yaml:"baseline_id,omitempty"`
	BaselineAt time.Time `json:"baseline_at" yaml:"baseline_at"`
	CurrentID  string    `json:"current_id,omitempty" yaml:"current_id,omitempty"`
	CurrentAt  time.Time `json:"current_at" yaml:"current_at"`
}

// Document is the structured form of a comparison.
type Document struct {
	Meta     `yaml:",inline"`
	Strategy string       `json:"strategy" yaml:"strategy"`
	Stats    differ.Stats `json:"stats" yaml:"stats"`
	Rows     []differ.Row `json:"ops" yaml:"ops"`
}

// Markup returns the highlight markup a format expects from the differ.
func Markup(format string, color bool, styles Styles) differ.Markup {
	switch format {
	case FormatHTML:
		return differ.HTMLMarkup
	case FormatText:
		if color {
			return styles.Markup()
		}
	}
	return differ.PlainMarkup
}

// Write renders res in format.
func Write(w io.Writer, format string, res differ.Result, meta Meta, styles Styles, color bool) error {
	switch format {
	case "", FormatText:
		return Terminal(w, res, meta, styles, color)
	case FormatHTML:
		return HTML(w, res, meta)
	case FormatJSON:
		return JSON(w, res, meta)
	case FormatYAML:
		return YAML(w, res, meta)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// JSON writes res as an indented JSON Document.
func JSON(w io.Writer, res differ.Result, meta Meta) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(document(res, meta))
}

// YAML writes res as a YAML Document.
func YAML(w io.Writer, res differ.Result, meta Meta) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document(res, meta)); err != nil {
		return err
	}
	return enc.Close()
}

func document(res differ.Result, meta Meta) Document {
	rows := res.Rows
	if rows == nil {
		rows = []differ.Row{}
	}
	return Document{Meta: meta, Strategy: res.Strategy, Stats: res.Stats, Rows: rows}
}

// ToFile creates path and hands it to fn. A missing parent directory is
// reported as ErrRenderTarget rather than created.
func ToFile(path string, fn func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
		return fmt.Errorf("%w: directory %s does not exist", ErrRenderTarget, dir)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderTarget, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := fn(f); err != nil {
		return err
	}
	log.Debugf("rendered to %s", path)

	return nil
}
