// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/pagediff/internal/meta"
	"github.com/tfctl/pagediff/internal/output"
)

// historyCommandAction lists the saved snapshots of a page, newest first.
func historyCommandAction(ctx context.Context, cmd *cli.Command) error {
	page, _, err := pageArg(cmd)
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

	if limit := cmd.Int("limit"); limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}

	opts := output.Options{
		Format:  outputFormat(cmd),
		Color:   colorEnabled(cmd),
		Titles:  cmd.Bool("titles"),
		Padding: cmd.Int("padding"),
		Sort:    cmd.String("sort"),
		Now:     time.Now(),
	}
	if cmd.Bool("titles") {
		opts.Header = page
	}

	return emit(cmd, func(w io.Writer) error {
		return output.Snapshots(w, snaps, opts)
	})
}

// historyCommandBuilder constructs the cli.Command for "history".
func historyCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		newAsFlag(),
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "limit snapshots listed",
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "padding between text columns",
			Value: 2,
		},
		NameSpacedValueChainFlagFromConfigFile("history", meta.Config.Source, &cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort by, - for descending",
		}),
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
		},
	}
	flags = append(flags, NewOutputFlags("history", validListings...)...)

	return (&CommandBuilder{
		Name:      "history",
		Usage:     "list the saved snapshots of a page",
		UsageText: "pagediff history PAGE [options]",
		Flags:     flags,
		Action:    historyCommandAction,
		Meta:      meta,
	}).Build()
}
