// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/pagediff/internal/capture"
	"github.com/tfctl/pagediff/internal/config"
	"github.com/tfctl/pagediff/internal/differ"
	"github.com/tfctl/pagediff/internal/history"
	"github.com/tfctl/pagediff/internal/log"
	"github.com/tfctl/pagediff/internal/meta"
	"github.com/tfctl/pagediff/internal/picker"
	"github.com/tfctl/pagediff/internal/render"
	"github.com/tfctl/pagediff/internal/snapshot"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// stdout and stderr return the root command's writers so tests can capture
// them.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// stamp formats t for status lines, in local time unless --utc is set.
func stamp(cmd *cli.Command, t time.Time) string {
	if !cmd.Bool("utc") {
		t = t.Local()
	}
	return t.Format(time.DateTime)
}

// resolvePath makes p absolute against the directory pagediff started in.
func resolvePath(cmd *cli.Command, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if sd := GetMeta(cmd).StartingDir; sd != "" {
		return filepath.Join(sd, p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// pageArg returns the page named by the first positional argument. Local
// paths are made absolute so that a page has one history no matter where
// pagediff runs. --as overrides the recorded name, which stdin requires.
func pageArg(cmd *cli.Command) (page, source string, err error) {
	source = cmd.Args().First()
	if source == "" {
		return "", "", fmt.Errorf("missing PAGE argument")
	}

	if capture.IsPath(source) {
		source = resolvePath(cmd, source)
	}
	page = source
	if as := cmd.String("as"); as != "" {
		page = as
	}
	if page == "-" {
		return "", "", fmt.Errorf("reading from stdin requires --as PAGE")
	}

	return canonicalPage(cmd, page), source, nil
}

// canonicalPage is snapshot.CanonicalPage with paths of existing files made
// absolute. Other names, such as those given with --as, are kept as is.
func canonicalPage(cmd *cli.Command, page string) string {
	if capture.IsPath(page) {
		if p := resolvePath(cmd, page); fileExists(p) {
			page = p
		}
	}
	return snapshot.CanonicalPage(page)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// captureOptions maps the capture flags onto capture.Options. Settings with
// no flag of their own come from config.
func captureOptions(cmd *cli.Command) capture.Options {
	retryWait := cmd.Duration("retry-wait")
	if !cmd.IsSet("retry-wait") {
		if d, err := config.GetDuration("http.retry_wait", retryWait); err == nil {
			retryWait = d
		} else {
			log.Warnf("ignoring http.retry_wait: %v", err)
		}
	}
	noSandbox, _ := config.GetBool("browser.no_sandbox", false)

	return capture.Options{
		Browser:   cmd.Bool("browser"),
		Timeout:   cmd.Duration("timeout"),
		Retries:   cmd.Int("retries"),
		RetryWait: retryWait,
		Headers:   cmd.StringSlice("header"),
		Stdin:     cmd.Root().Reader,
		NoSandbox: noSandbox,
	}
}

// capturePage fetches source with the source the flags select.
func capturePage(ctx context.Context, cmd *cli.Command, source string) (string, error) {
	src, err := capture.For(source, captureOptions(cmd))
	if err != nil {
		return "", err
	}

	body, err := src.Capture(ctx, source)
	if err != nil {
		return "", fmt.Errorf("failed to capture %s: %w", source, err)
	}

	return body, nil
}

// outputFormat returns the lowercased --output value.
func outputFormat(cmd *cli.Command) string {
	return strings.ToLower(cmd.String("output"))
}

// colorEnabled decides whether text output is colored. A file target is
// never colored in auto mode.
func colorEnabled(cmd *cli.Command) bool {
	mode := strings.ToLower(cmd.String("color"))
	if cmd.String("out") != "" && mode != "always" {
		return false
	}
	return render.ColorEnabled(mode, stdout(cmd))
}

// buildDiffer returns a Differ configured from the diff flags with markup
// suited to format.
func buildDiffer(cmd *cli.Command, format string, color bool, styles render.Styles) (*differ.Differ, error) {
	normalize, err := differ.NormalizerFor(cmd.String("normalize"))
	if err != nil {
		return nil, err
	}

	maxCells := cmd.Int("max-cells")
	strategy := differ.NewStrategy(cmd.String("strategy"), maxCells, 0)
	log.Debugf("buildDiffer: strategy=%s normalize=%s format=%s color=%t", strategy.Name(), cmd.String("normalize"), format, color)

	return differ.New(
		differ.WithNormalizer(normalize),
		differ.WithStrategy(strategy),
		differ.WithMarkup(render.Markup(format, color, styles)),
		differ.WithMaxCells(maxCells),
	), nil
}

// emit hands fn the --out file, or stdout when no file was given.
func emit(cmd *cli.Command, fn func(io.Writer) error) error {
	if out := cmd.String("out"); out != "" {
		return render.ToFile(resolvePath(cmd, out), fn)
	}
	return fn(stdout(cmd))
}

// compareSnapshots diffs baseline against current and renders the result.
func compareSnapshots(cmd *cli.Command, baseline, current snapshot.Snapshot) (differ.Result, error) {
	format := outputFormat(cmd)
	color := format == render.FormatText && colorEnabled(cmd)
	styles := render.DefaultStyles()

	d, err := buildDiffer(cmd, format, color, styles)
	if err != nil {
		return differ.Result{}, err
	}

	res := d.Compare(baseline.Body, current.Body)
	log.Debugf("compare: strategy=%s stats=%+v", res.Strategy, res.Stats)

	page := current.Page
	if page == "" {
		page = baseline.Page
	}
	meta := render.Meta{
		Page:       page,
		BaselineID: baseline.ID,
		BaselineAt: baseline.CapturedAt,
		CurrentID:  current.ID,
		CurrentAt:  current.CapturedAt,
	}

	err = emit(cmd, func(w io.Writer) error {
		return render.Write(w, format, res, meta, styles, color)
	})
	return res, err
}

// pickerOptions points the picker at the root command's reader, and at
// stderr so that stdout stays clean for the rendered result.
func pickerOptions(cmd *cli.Command) []tea.ProgramOption {
	opts := []tea.ProgramOption{picker.Output(stderr(cmd))}
	if r := cmd.Root().Reader; r != nil {
		opts = append(opts, picker.Input(r))
	}
	return opts
}

// openStore opens the history store the store flags select.
func openStore(ctx context.Context, cmd *cli.Command) (history.Store, error) {
	store, err := history.NewStore(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	log.Debugf("history store: %s", store)
	return store, nil
}
