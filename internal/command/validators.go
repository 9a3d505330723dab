// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/pagediff/internal/differ"
	"github.com/tfctl/pagediff/internal/history"
	"github.com/tfctl/pagediff/internal/render"
)

var (
	validOutputs  = []string{render.FormatText, render.FormatHTML, render.FormatJSON, render.FormatYAML}
	validListings = []string{render.FormatText, render.FormatJSON, render.FormatYAML}
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator checks combinations that single flag validators cannot.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.Bool("pick") && c.String("baseline") != "" {
		return fmt.Errorf("--pick and --baseline are mutually exclusive")
	}
	return nil
}

// OneOfValidator accepts any of valid, case-insensitively.
func OneOfValidator(valid ...string) FlagValidatorType {
	return func(value any) error {
		s, _ := value.(string)
		if slices.Contains(valid, strings.ToLower(s)) {
			return nil
		}
		return fmt.Errorf("must be one of %v", valid)
	}
}

func OutputValidator(value any) error {
	return OneOfValidator(validOutputs...)(value)
}

func StoreValidator(value any) error {
	return OneOfValidator(history.KindLocal, history.KindS3, history.KindSQLite)(value)
}

func StrategyValidator(value any) error {
	return OneOfValidator(differ.StrategyExternal, differ.StrategyInternal)(value)
}

func ColorValidator(value any) error {
	return OneOfValidator("auto", "always", "never")(value)
}

func NormalizeValidator(value any) error {
	return OneOfValidator(differ.ModeText, differ.ModeMarkup)(value)
}
