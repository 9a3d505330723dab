// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for pagediff's user
// configuration. The configuration is a YAML document named pagediff.yaml in
// the user's configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/pagediff.yaml or $HOME/.config/pagediff.yaml
//   - macOS: $HOME/Library/Application Support/pagediff.yaml
//   - Windows: %APPDATA%/pagediff.yaml
//
// PAGEDIFF_CFG_FILE overrides the location. Keys are dotted paths and may be
// namespaced by subcommand, so "compare.strategy" is preferred over
// "strategy" while the compare command runs.
package config
