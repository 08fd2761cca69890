// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pgdrift/pgdrift/internal/cacheutil"
	"github.com/pgdrift/pgdrift/internal/command"
	"github.com/pgdrift/pgdrift/internal/config"
	"github.com/pgdrift/pgdrift/internal/log"
	"github.com/pgdrift/pgdrift/internal/version"
)

var ctx = context.Background()

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

		if len(args) > 1 && args[1] == "rq" {
			args = processRqArgs(args)
		}

		// Set expansion can restate a flag the user also passed explicitly;
		// keep only the last occurrence so the explicit flag wins.
		return deduplicateFlags(args)
	}
}

// processRqArgs handles argument processing for the rq command.
func processRqArgs(args []string) []string {
	// Ensure the argument immediately following "rq" is "-" or an existing file.
	if len(args) == 2 || (args[2] != "-" && !isExistingFile(args[2])) {
		args = append(args[:2], append([]string{"-"}, args[2:]...)...)
	}
	return args
}

// booleanFlagNames lists the flags that never take a separate value token, so
// a positional following one of them is not mistaken for the flag's value.
var booleanFlagNames = map[string]bool{
	"color": true, "c": true,
	"local": true, "l": true,
	"titles": true, "t": true,
	"version": true, "v": true,
	"help": true, "h": true,
	"schema":    true,
	"tldr":      true,
	"no-report": true,
	"diff":      true,
	"pick":      true,
	"tables":    true,
	"encrypt":   true,
}

// deduplicateFlags removes all but the last occurrence of each repeated flag,
// preserving positional arguments and the relative order of what remains.
// Both --flag value and --flag=value spellings are recognized.
func deduplicateFlags(args []string) []string {
	result := make([]string, 0, len(args))
	if len(args) <= 2 {
		return append(result, args...)
	}

	type unit struct {
		tokens []string
		key    string
	}

	var units []unit
	for i := 2; i < len(args); {
		tok := args[i]
		if !strings.HasPrefix(tok, "-") {
			units = append(units, unit{tokens: []string{tok}})
			i++
			continue
		}

		key := strings.TrimLeft(tok, "-")
		if eq := strings.Index(key, "="); eq >= 0 {
			units = append(units, unit{tokens: []string{tok}, key: key[:eq]})
			i++
			continue
		}

		// A following non-flag token is this flag's value, unless the flag
		// is a known boolean; then the token is a positional.
		if !booleanFlagNames[key] && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			units = append(units, unit{tokens: []string{tok, args[i+1]}, key: key})
			i += 2
			continue
		}

		units = append(units, unit{tokens: []string{tok}, key: key})
		i++
	}

	last := make(map[string]int)
	for idx, u := range units {
		if u.key != "" {
			last[u.key] = idx
		}
	}

	result = append(result, args[:2]...)
	for idx, u := range units {
		if u.key != "" && last[u.key] != idx {
			continue
		}
		result = append(result, u.tokens...)
	}

	return result
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled, and age out stale
	// entries per the cache.clean config.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}
	if cleanHours, err := config.GetInt("cache.clean"); err == nil {
		if err := cacheutil.Purge(cleanHours); err != nil {
			log.Debugf("cache purge err: err=%v", err)
		}
	}

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

// isExistingFile checks if the given path exists and is a file.
func isExistingFile(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	}
	return false
}

// processSetOnly handles the @set logic for all commands, expanding set arguments at the @set position.
func processSetOnly(args []string) []string {
	// Look for an explicit @set argument starting from index 2.
	idx := 2
	set := "defaults"
	removeIdx := -1
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
