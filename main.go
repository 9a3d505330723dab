// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tfctl/pagediff/internal/cacheutil"
	"github.com/tfctl/pagediff/internal/command"
	"github.com/tfctl/pagediff/internal/config"
	"github.com/tfctl/pagediff/internal/log"
	"github.com/tfctl/pagediff/internal/version"
)

var ctx = context.Background()

// flagAliases maps short flags onto their long names so that both spellings
// dedupe together.
var flagAliases = map[string]string{
	"b": "browser",
	"c": "color",
	"H": "header",
	"l": "limit",
	"o": "output",
	"p": "pick",
	"s": "sort",
	"t": "titles",
	"v": "version",
}

// boolFlags never consume the following argument.
var boolFlags = map[string]bool{
	"browser":        true,
	"help":           true,
	"h":              true,
	"pick":           true,
	"save":           true,
	"skip-unchanged": true,
	"titles":         true,
	"utc":            true,
	"version":        true,
}

// repeatableFlags accumulate and are never deduplicated.
var repeatableFlags = map[string]bool{
	"header": true,
}

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	switch {
	case len(args) > 1 && args[1] == "completion":
		// Short-circuit completion: pass args directly.
		return args
	default:
		args = processSetOnly(args)
		log.Debugf("args after set processing: args=%v", args)

		args = deduplicateFlags(args)
		log.Debugf("args after dedup: args=%v", args)
		return args
	}
}

// deduplicateFlags keeps only the last occurrence of each flag after the
// subcommand, so that an explicit flag overrides one expanded from an @set.
// Positional arguments keep their order.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type group struct {
		name   string
		tokens []string
	}

	var groups []group
	for i := 2; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			groups = append(groups, group{tokens: args[i:]})
			break
		}
		if a == "-" || !strings.HasPrefix(a, "-") {
			groups = append(groups, group{tokens: []string{a}})
			continue
		}

		name := strings.TrimLeft(a, "-")
		tokens := []string{a}
		if k, _, ok := strings.Cut(name, "="); ok {
			name = k
		} else if !boolFlags[name] && !boolFlags[flagAliases[name]] && i+1 < len(args) {
			i++
			tokens = append(tokens, args[i])
		}
		if long, ok := flagAliases[name]; ok {
			name = long
		}
		if repeatableFlags[name] {
			name = ""
		}
		groups = append(groups, group{name: name, tokens: tokens})
	}

	last := make(map[string]int)
	for i, g := range groups {
		if g.name != "" {
			last[g.name] = i
		}
	}

	result := append([]string{}, args[:2]...)
	for i, g := range groups {
		if g.name != "" && last[g.name] != i {
			continue
		}
		result = append(result, g.tokens...)
	}

	return result
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	purgeCache()

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

// purgeCache drops cache entries older than cache.clean hours. Zero keeps
// everything.
func purgeCache() {
	cache := cacheutil.Default()
	if !cache.Enabled() {
		return
	}

	hours, _ := config.GetInt("cache.clean", 0)
	if hours <= 0 {
		return
	}

	n, err := cache.Purge(time.Duration(hours) * time.Hour)
	if err != nil {
		log.Debugf("cache purge err: err=%v", err)
		return
	}
	log.Debugf("cache purged: entries=%d", n)
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly handles the @set logic for all commands, expanding set arguments at the @set position.
func processSetOnly(args []string) []string {
	// Look for an explicit @set argument starting from index 2.
	idx := 2
	set := "defaults"
	removeIdx := -1
	if len(args) <= idx {
		return args
	}
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			removeIdx = idx + i
			break
		}
	}
	if removeIdx != -1 {
		// Remove the @set argument.
		args = append(args[:removeIdx], args[removeIdx+1:]...)
		// Expand the set arguments at the removeIdx position.
		setArgs, _ := config.GetStringSlice(args[1] + "." + set)
		for _, arg := range setArgs {
			parts := strings.Fields(arg)
			args = append(args[:removeIdx], append(parts, args[removeIdx:]...)...)
			removeIdx += len(parts)
		}
	}
	return args
}
