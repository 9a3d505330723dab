// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/pagediff/internal/capture"
	"github.com/tfctl/pagediff/internal/differ"
	"github.com/tfctl/pagediff/internal/history"
)

// newAsFlag and newUTCFlag return fresh flags on every call since cli flags
// keep their parsed state.
func newAsFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "as",
		Usage: "record the page under this name instead of its address",
	}
}

func newUTCFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "utc",
		Usage:       "show UTC timestamps",
		HideDefault: true,
	}
}

// NewOutputFlags returns the flags shared by every command that prints a
// result: the output format, color mode and the optional output file.
func NewOutputFlags(ns string, formats ...string) (flags []cli.Flag) {
	if len(formats) == 0 {
		formats = validOutputs
	}
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "color text output: auto, always or never",
			Value:   "auto",
			Sources: cli.EnvVars("PAGEDIFF_COLOR"),
			Validator: func(value string) error {
				return FlagValidators(value, ColorValidator)
			},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OneOfValidator(formats...))
			},
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "write the result to this file instead of stdout",
		},
	}
	return
}

// NewStoreFlags returns the flags that select and configure the history
// store. params[0] is the config file the store and directory flags fall back
// to.
func NewStoreFlags(ns string, params ...string) []cli.Flag {
	var cfgPath string
	if len(params) > 0 {
		cfgPath = params[0]
	}

	store := &cli.StringFlag{
		Name:    "store",
		Usage:   "history store: local, s3 or sqlite",
		Value:   history.KindLocal,
		Sources: cli.EnvVars("PAGEDIFF_STORE"),
		Validator: func(value string) error {
			return FlagValidators(value, StoreValidator)
		},
	}
	dir := &cli.StringFlag{
		Name:    "history-dir",
		Usage:   "directory of the local store",
		Sources: cli.EnvVars("PAGEDIFF_HISTORY_DIR"),
	}
	db := &cli.StringFlag{
		Name:  "db",
		Usage: "database file of the sqlite store",
	}
	withConfigSources(ns, cfgPath, "history.store", &store.Sources)
	withConfigSources(ns, cfgPath, "history.dir", &dir.Sources)
	withConfigSources(ns, cfgPath, "history.sqlite.path", &db.Sources)

	return []cli.Flag{
		store,
		dir,
		db,
		// The s3 store reads history.s3.* from config itself.
		&cli.StringFlag{
			Name:    "bucket",
			Usage:   "bucket of the s3 store",
			Sources: cli.EnvVars("PAGEDIFF_BUCKET"),
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "key prefix of the s3 store",
		},
		&cli.StringFlag{
			Name:    "region",
			Usage:   "region of the s3 store",
			Sources: cli.EnvVars("AWS_REGION"),
		},
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "custom S3 endpoint, for S3 compatible services",
		},
	}
}

// NewDiffFlags returns the flags that tune the differ.
func NewDiffFlags(ns string, params ...string) []cli.Flag {
	var cfgPath string
	if len(params) > 0 {
		cfgPath = params[0]
	}

	strategy := &cli.StringFlag{
		Name:    "strategy",
		Usage:   "line diff strategy: external or internal",
		Value:   differ.StrategyExternal,
		Sources: cli.EnvVars("PAGEDIFF_STRATEGY"),
		Validator: func(value string) error {
			return FlagValidators(value, StrategyValidator)
		},
	}
	maxCells := &cli.IntFlag{
		Name:  "max-cells",
		Usage: "largest LCS table before the diff degrades to whole blocks, negative for no limit",
		Value: differ.DefaultMaxCells,
	}
	normalize := &cli.StringFlag{
		Name:  "normalize",
		Usage: "normalization: text or markup",
		Value: differ.ModeText,
		Validator: func(value string) error {
			return FlagValidators(value, NormalizeValidator)
		},
	}
	withConfigSources(ns, cfgPath, "diff.strategy", &strategy.Sources)
	withConfigSources(ns, cfgPath, "diff.max_cells", &maxCells.Sources)
	withConfigSources(ns, cfgPath, "normalize.mode", &normalize.Sources)

	return []cli.Flag{strategy, maxCells, normalize}
}

// NewCaptureFlags returns the flags that control how pages are fetched.
func NewCaptureFlags(ns string, params ...string) []cli.Flag {
	var cfgPath string
	if len(params) > 0 {
		cfgPath = params[0]
	}

	timeout := &cli.DurationFlag{
		Name:  "timeout",
		Usage: "page fetch timeout",
		Value: capture.DefaultBrowserTimeout,
	}
	withConfigSources(ns, cfgPath, "browser.timeout", &timeout.Sources)

	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "browser",
			Aliases: []string{"b"},
			Usage:   "render the page in headless Chrome",
			Sources: cli.EnvVars("PAGEDIFF_BROWSER"),
		},
		&cli.StringSliceFlag{
			Name:    "header",
			Aliases: []string{"H"},
			Usage:   "extra request header as \"Name: value\"",
		},
		&cli.IntFlag{
			Name:  "retries",
			Usage: "HTTP retries",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:   "retry-wait",
			Usage:  "minimum wait between HTTP retries",
			Value:  time.Second,
			Hidden: true,
		},
		timeout,
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	withConfigSources(ns, path, flag.Name, &flag.Sources)
	return flag
}

// withConfigSources appends <ns>.<key> and then <key> from the YAML config
// file at path to chain. An empty path adds nothing.
func withConfigSources(ns, path, key string, chain *cli.ValueSourceChain) {
	if path == "" {
		return
	}

	if ns != "" {
		chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+key, altsrc.StringSourcer(path)))
	}
	chain.Chain = append(chain.Chain, yaml.YAML(key, altsrc.StringSourcer(path)))
}
