// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/pgdrift/pgdrift/internal/config"
	"github.com/pgdrift/pgdrift/internal/differ"
	"github.com/pgdrift/pgdrift/internal/meta"
	"github.com/pgdrift/pgdrift/internal/report"
	"github.com/pgdrift/pgdrift/internal/source"
	"github.com/pgdrift/pgdrift/internal/target"
	"github.com/pgdrift/pgdrift/internal/util"
)

// dqDefaultAttrs specifies the default attributes displayed for differences
// when the dataset pipeline renders the console part.
var dqDefaultAttrs = []string{"diff_type", "table_name", "column_name", "db1", "db2", "detail"}

// dqCommandAction is the action handler for the "dq" subcommand. It loads
// every requested snapshot, compares all pairs, and renders the CSV report
// plus console summary (or the dataset pipeline when --output is given).
func dqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr or the schema.
	if ShortCircuitTLDR(ctx, cmd, "dq") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(differ.Difference{})) {
		return nil
	}

	config.Config.Namespace = "dq"

	entries, err := dqResolveEntries(cmd.Args().Slice())
	if err != nil {
		return err
	}

	// Load every snapshot before comparing anything, so one bad source aborts
	// the run without a partial report.
	loader := source.NewLoader(source.NewCache(), cmd)
	compared := make([]differ.Entry, 0, len(entries))
	for _, e := range entries {
		snap, err := loader.Load(ctx, e.spec)
		if err != nil {
			return err
		}
		compared = append(compared, differ.Entry{Label: e.label, Snapshot: snap})
	}

	diffs := differ.CompareAll(compared)
	log.Debugf("found %d differences across %d sources", len(diffs), len(compared))

	dir := cmd.String("dir")
	timestamp := time.Now().Format(report.TimestampLayout)

	// The dataset pipeline takes over the console part when --output is
	// given; the CSV artifact is still written unless suppressed.
	if cmd.IsSet("output") {
		if !cmd.Bool("no-report") && len(diffs) > 0 {
			if _, err := report.WriteCSV(diffs, dir, timestamp); err != nil {
				return err
			}
		}
		attrs := BuildAttrs(cmd, dqDefaultAttrs...)
		log.Debugf("attrs: %v", attrs)
		return EmitSlice(diffs, attrs, cmd)
	}

	if cmd.Bool("no-report") {
		if len(diffs) == 0 {
			report.NoDifferences(os.Stdout)
			return nil
		}
		report.Summary(os.Stdout, diffs, "")
		return nil
	}

	_, err = report.Render(os.Stdout, diffs, dir, timestamp)
	return err
}

// dqEntry pairs one comparison label with the source spec it loads from.
type dqEntry struct {
	label string
	spec  string
}

// dqResolveEntries maps the positional LABEL=SOURCE arguments to labeled
// sources, deriving db{i} labels for bare sources. With no arguments the
// env-configured targets are compared instead.
func dqResolveEntries(args []string) ([]dqEntry, error) {
	var entries []dqEntry

	if len(args) == 0 {
		targets, err := target.Load()
		if err != nil {
			return nil, err
		}
		for _, t := range targets {
			entries = append(entries, dqEntry{label: t.Label(), spec: t.DSN()})
		}
		return entries, nil
	}

	seen := make(map[string]bool, len(args))
	for i, arg := range args {
		label, spec, err := util.ParseEntry(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid source argument %q: %w", arg, err)
		}
		if label == "" {
			label = fmt.Sprintf("db%d", i+1)
		}
		if seen[label] {
			return nil, fmt.Errorf("duplicate label: %s", label)
		}
		seen[label] = true

		entries = append(entries, dqEntry{label: label, spec: spec})
	}

	return entries, nil
}

// dqCommandBuilder constructs the cli.Command for "dq", wiring metadata,
// flags, and action handlers.
func dqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "dq",
		Usage:     "drift query",
		UsageText: "pgdrift dq [LABEL=SOURCE ...] [options]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-report",
				Usage: "skip the CSV report file, console output only",
				Value: false,
			},
			NewDirFlag("dq", meta.Config.Source),
			passphraseFlag,
			regionFlag,
		},
		Action: dqCommandAction,
		Meta:   meta,
	}).Build()
}
