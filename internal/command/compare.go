// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/pagediff/internal/log"
	"github.com/tfctl/pagediff/internal/meta"
	"github.com/tfctl/pagediff/internal/picker"
	"github.com/tfctl/pagediff/internal/snapshot"
)

// compareCommandAction captures a page and diffs it against a baseline from
// the page's history. Without history it reports so and succeeds.
func compareCommandAction(ctx context.Context, cmd *cli.Command) error {
	page, source, err := pageArg(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.List(ctx, page)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintf(stdout(cmd), "No baseline history found for: %s\n", page)
		return nil
	}

	baseline, err := selectBaseline(cmd, snaps)
	if errors.Is(err, picker.ErrCanceled) {
		return nil
	}
	if err != nil {
		return err
	}

	body, err := capturePage(ctx, cmd, source)
	if err != nil {
		return err
	}
	current, err := snapshot.New(page, body, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(stderr(cmd), "Compared to baseline saved at %s\n", stamp(cmd, baseline.CapturedAt))
	res, err := compareSnapshots(cmd, baseline, current)
	if err != nil {
		return err
	}

	if cmd.Bool("save") && !res.Stats.Identical {
		if err := store.Append(ctx, current); err != nil {
			return fmt.Errorf("failed to save baseline: %w", err)
		}
		fmt.Fprintf(stderr(cmd), "Baseline saved for: %s at %s\n", page, stamp(cmd, current.CapturedAt))
	}

	return nil
}

// selectBaseline picks the baseline from a newest-first history: the
// interactive picker, a --baseline spec, or the newest snapshot.
func selectBaseline(cmd *cli.Command, snaps []snapshot.Snapshot) (snapshot.Snapshot, error) {
	switch spec := cmd.String("baseline"); {
	case cmd.Bool("pick"):
		picked, err := picker.Select(snaps, 1, pickerOptions(cmd)...)
		if err != nil {
			return snapshot.Snapshot{}, err
		}
		return picked[0], nil
	case spec != "":
		found, err := snapshot.Resolve(snaps, spec)
		if err != nil {
			return snapshot.Snapshot{}, err
		}
		log.Debugf("baseline %q resolved to %s", spec, found[0].ID)
		return found[0], nil
	default:
		return snaps[0], nil
	}
}

// compareCommandBuilder constructs the cli.Command for "compare".
func compareCommandBuilder(meta meta.Meta) *cli.Command {
	ns, cfg := "compare", meta.Config.Source

	flags := []cli.Flag{
		newAsFlag(),
		newUTCFlag(),
		&cli.StringFlag{
			Name:  "baseline",
			Usage: "baseline to compare against: ~N, 0, -N, an id prefix or a file",
		},
		&cli.BoolFlag{
			Name:    "pick",
			Aliases: []string{"p"},
			Usage:   "choose the baseline interactively",
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: "save the page as the new baseline when it changed",
		},
	}
	flags = append(flags, NewCaptureFlags(ns, cfg)...)
	flags = append(flags, NewDiffFlags(ns, cfg)...)
	flags = append(flags, NewOutputFlags(ns)...)

	return (&CommandBuilder{
		Name:      "compare",
		Usage:     "compare a page against its baseline",
		UsageText: "pagediff compare PAGE [options]",
		Flags:     flags,
		Action:    compareCommandAction,
		Meta:      meta,
	}).Build()
}
