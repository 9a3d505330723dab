// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	awsx "github.com/tfctl/pagediff/internal/aws"
	"github.com/tfctl/pagediff/internal/cacheutil"
	"github.com/tfctl/pagediff/internal/config"
	"github.com/tfctl/pagediff/internal/log"
)

type StoreS3Option = func(ctx context.Context, cmd *cli.Command, st *StoreS3) error

// NewStoreS3 returns a StoreS3. Without WithClient an S3 client is built from
// the shell's AWS configuration.
func NewStoreS3(ctx context.Context, cmd *cli.Command, options ...StoreS3Option) (*StoreS3, error) {
	options = append([]StoreS3Option{WithDefaults()}, options...)

	st := &StoreS3{}

	for _, opt := range options {
		if err := opt(ctx, cmd, st); err != nil {
			return nil, err
		}
	}

	if st.Bucket == "" {
		return nil, errors.New("s3 history store requires a bucket")
	}

	if st.Client == nil {
		var cfgOpts []awsx.Option
		if st.Region != "" {
			cfgOpts = append(cfgOpts, awsx.WithRegion(st.Region))
		}
		cfg, err := awsx.LoadAWSConfig(ctx, cfgOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		st.Client = awsx.NewS3(cfg, awsx.WithS3Endpoint(st.Endpoint), awsx.WithS3PathStyle(st.Endpoint != ""))
	}

	return st, nil
}

func WithDefaults() StoreS3Option {
	return func(ctx context.Context, cmd *cli.Command, st *StoreS3) error {
		st.Prefix = "pagediff"
		st.Cache = cacheutil.Default("s3")
		return nil
	}
}

// FromCommand reads bucket, prefix, region and endpoint from the command's
// flags, falling back to the history.s3.* config keys.
func FromCommand() StoreS3Option {
	return func(ctx context.Context, cmd *cli.Command, st *StoreS3) error {
		pick := func(flag, key string) string {
			if v := cmd.String(flag); v != "" {
				return v
			}
			v, _ := config.GetString("history.s3."+key, "")
			return v
		}

		st.Bucket = pick("bucket", "bucket")
		if p := pick("prefix", "prefix"); p != "" {
			st.Prefix = strings.Trim(p, "/")
		}
		st.Region = pick("region", "region")
		st.Endpoint = pick("endpoint", "endpoint")
		log.Debugf("NewStoreS3 FromCommand(): bucket=%s prefix=%s", st.Bucket, st.Prefix)

		return nil
	}
}

func WithBucket(bucket string) StoreS3Option {
	return func(ctx context.Context, cmd *cli.Command, st *StoreS3) error {
		st.Bucket = bucket
		return nil
	}
}

func WithPrefix(prefix string) StoreS3Option {
	return func(ctx context.Context, cmd *cli.Command, st *StoreS3) error {
		st.Prefix = strings.Trim(prefix, "/")
		return nil
	}
}

// WithClient injects the S3 API, typically a fake in tests.
func WithClient(c Client) StoreS3Option {
	return func(ctx context.Context, cmd *cli.Command, st *StoreS3) error {
		st.Client = c
		return nil
	}
}

// WithCache overrides the on-disk body cache. The zero Cache disables it.
func WithCache(c cacheutil.Cache) StoreS3Option {
	return func(ctx context.Context, cmd *cli.Command, st *StoreS3) error {
		st.Cache = c
		return nil
	}
}
