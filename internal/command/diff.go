// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/pagediff/internal/meta"
	"github.com/tfctl/pagediff/internal/picker"
	"github.com/tfctl/pagediff/internal/snapshot"
)

// diffCommandAction compares two snapshots without fetching anything. Each
// argument is a file or, with --page, a snapshot spec resolved against that
// page's history. With --pick both sides are chosen interactively.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	var snaps []snapshot.Snapshot

	if page := cmd.String("page"); page != "" {
		store, err := openStore(ctx, cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if snaps, err = store.List(ctx, canonicalPage(cmd, page)); err != nil {
			return err
		}
	}

	var baseline, current snapshot.Snapshot
	if cmd.Bool("pick") {
		if len(snaps) < 2 {
			return fmt.Errorf("--pick needs --page with at least two snapshots")
		}
		picked, err := picker.Select(snaps, 2, pickerOptions(cmd)...)
		if errors.Is(err, picker.ErrCanceled) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(picked) != 2 {
			return fmt.Errorf("select two snapshots to diff")
		}
		// Picked in history order, newest first.
		current, baseline = picked[0], picked[1]
	} else {
		args := cmd.Args().Slice()
		if len(args) != 2 {
			return fmt.Errorf("diff takes exactly two snapshots, got %d", len(args))
		}
		found, err := snapshot.Resolve(snaps, args...)
		if err != nil {
			return err
		}
		baseline, current = found[0], found[1]
	}

	_, err := compareSnapshots(cmd, baseline, current)
	return err
}

// diffCommandBuilder constructs the cli.Command for "diff".
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	ns, cfg := "diff", meta.Config.Source

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "page",
			Usage: "resolve snapshot specs against the history of this page",
		},
		&cli.BoolFlag{
			Name:    "pick",
			Aliases: []string{"p"},
			Usage:   "choose both snapshots interactively, requires --page",
		},
	}
	flags = append(flags, NewDiffFlags(ns, cfg)...)
	flags = append(flags, NewOutputFlags(ns)...)

	return (&CommandBuilder{
		Name:      "diff",
		Usage:     "compare two snapshots or files",
		UsageText: "pagediff diff BASELINE CURRENT [--page PAGE] [options]",
		Flags:     flags,
		Action:    diffCommandAction,
		Meta:      meta,
	}).Build()
}
