// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
)

type StoreLocalOption = func(ctx context.Context, cmd *cli.Command, st *StoreLocal) error

// NewStoreLocal returns a StoreLocal rooted at the directory chosen by
// options, the working directory by default.
func NewStoreLocal(ctx context.Context, cmd *cli.Command, options ...StoreLocalOption) (*StoreLocal, error) {
	options = append([]StoreLocalOption{WithDefaults()}, options...)

	st := &StoreLocal{}

	for _, opt := range options {
		if err := opt(ctx, cmd, st); err != nil {
			return nil, err
		}
	}

	return st, nil
}

func WithDefaults() StoreLocalOption {
	return func(ctx context.Context, cmd *cli.Command, st *StoreLocal) error {
		cwd, _ := os.Getwd()
		st.Dir = filepath.Join(cwd, ".pagediff")
		return nil
	}
}

// WithDir roots the store at dir. A relative dir is taken from the working
// directory.
func WithDir(dir string) StoreLocalOption {
	return func(ctx context.Context, cmd *cli.Command, st *StoreLocal) error {
		if dir == "" {
			return nil
		}
		if filepath.IsAbs(dir) {
			st.Dir = dir
		} else {
			cwd, _ := os.Getwd()
			st.Dir = filepath.Join(cwd, dir)
		}
		return nil
	}
}
