// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/pagediff/internal/history"
	"github.com/tfctl/pagediff/internal/log"
	"github.com/tfctl/pagediff/internal/meta"
	"github.com/tfctl/pagediff/internal/snapshot"
)

// captureCommandAction fetches a page and appends it to the page's history
// as the new baseline.
func captureCommandAction(ctx context.Context, cmd *cli.Command) error {
	page, source, err := pageArg(cmd)
	if err != nil {
		return err
	}

	body, err := capturePage(ctx, cmd, source)
	if err != nil {
		return err
	}

	snap, err := snapshot.New(page, body, time.Now())
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if cmd.Bool("skip-unchanged") {
		latest, err := store.Latest(ctx, page)
		switch {
		case err == nil && latest.Hash == snap.Hash:
			fmt.Fprintf(stdout(cmd), "Baseline unchanged for: %s since %s\n", page, stamp(cmd, latest.CapturedAt))
			return nil
		case err != nil && !errors.Is(err, history.ErrNoBaseline):
			return err
		}
	}

	if err := store.Append(ctx, snap); err != nil {
		return fmt.Errorf("failed to save baseline: %w", err)
	}
	log.Debugf("captured %s id=%s hash=%s store=%s", page, snap.ID, snap.Hash, store)

	fmt.Fprintf(stdout(cmd), "Baseline saved for: %s at %s\n", page, stamp(cmd, snap.CapturedAt))
	return nil
}

// captureCommandBuilder constructs the cli.Command for "capture".
func captureCommandBuilder(meta meta.Meta) *cli.Command {
	flags := append([]cli.Flag{
		newAsFlag(),
		newUTCFlag(),
		&cli.BoolFlag{
			Name:  "skip-unchanged",
			Usage: "do not save the page when it matches the latest baseline",
		},
	}, NewCaptureFlags("capture", meta.Config.Source)...)

	return (&CommandBuilder{
		Name:      "capture",
		Usage:     "save a page as the new baseline",
		UsageText: "pagediff capture PAGE [options]",
		Flags:     flags,
		Action:    captureCommandAction,
		Meta:      meta,
	}).Build()
}
