// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/pagediff/internal/meta"
)

// CommandBuilder is a helper that constructs a cli.Command for the page
// subcommands (capture, compare, history, diff) using a consistent pattern.
// The builder wires metadata, adds the store flags unless NoStore is set,
// and runs GlobalFlagsValidator before the action.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
	NoStore   bool
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	flags := cb.Flags
	if !cb.NoStore {
		flags = append(flags, NewStoreFlags(cb.Name, cb.Meta.Config.Source)...)
	}

	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: cb.Action,
	}
}
