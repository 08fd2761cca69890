// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/pgdrift/pgdrift/internal/config"
	"github.com/pgdrift/pgdrift/internal/differ"
	"github.com/pgdrift/pgdrift/internal/meta"
	"github.com/pgdrift/pgdrift/internal/schema"
	"github.com/pgdrift/pgdrift/internal/source"
	"github.com/pgdrift/pgdrift/internal/source/file"
	"github.com/pgdrift/pgdrift/internal/target"
	"github.com/pgdrift/pgdrift/internal/util"
)

// SnapshotRow is one flattened column of a snapshot, the row shape the sq
// dataset pipeline works on.
type SnapshotRow struct {
	Table    string `json:"table"`
	Column   string `json:"column"`
	Type     string `json:"type"`
	Nullable string `json:"nullable"`
	Position int    `json:"position"`
}

// TableRow is the collapsed per-table row shape produced by --tables.
type TableRow struct {
	Table   string `json:"table"`
	Columns int    `json:"columns"`
}

// sqDefaultAttrs specifies the default attributes displayed for snapshot
// columns in the "sq" command output.
var sqDefaultAttrs = []string{"table", "column", "type", "nullable"}

// sqCommandAction is the action handler for the "sq" subcommand. It loads one
// snapshot (including optional decryption), flattens it into column rows, and
// emits results per common flags.
func sqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "sq") {
		return nil
	}

	config.Config.Namespace = "sq"

	spec, err := sqResolveSpec(cmd.Args().Slice())
	if err != nil {
		return err
	}

	// Short circuit --diff mode.
	if cmd.Bool("diff") {
		return sqDiff(ctx, cmd, spec)
	}

	if cmd.Bool("tables") {
		if DumpSchemaIfRequested(cmd, reflect.TypeOf(TableRow{})) {
			return nil
		}
	} else if DumpSchemaIfRequested(cmd, reflect.TypeOf(SnapshotRow{})) {
		return nil
	}

	if sv := cmd.Int("sv"); sv > 0 {
		spec = fmt.Sprintf("%s~%d", spec, sv)
	}

	loader := source.NewLoader(source.NewCache(), cmd)
	snap, err := loader.Load(ctx, spec)
	if err != nil {
		return err
	}

	if cmd.Bool("tables") {
		attrs := BuildAttrs(cmd, "table", "columns")
		log.Debugf("attrs: %v", attrs)
		return EmitSlice(tableRows(snap), attrs, cmd)
	}

	attrs := BuildAttrs(cmd, sqDefaultAttrs...)
	log.Debugf("attrs: %v", attrs)
	return EmitSlice(snapshotRows(snap), attrs, cmd)
}

// sqResolveSpec maps the positional SOURCE (or LABEL=SOURCE) argument to a
// source spec, falling back to the first env-configured target.
func sqResolveSpec(args []string) (string, error) {
	if len(args) > 0 {
		_, spec, err := util.ParseEntry(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid source argument %q: %w", args[0], err)
		}
		return spec, nil
	}

	targets, err := target.Load()
	if err != nil {
		return "", err
	}
	if len(targets) == 0 {
		return "", fmt.Errorf("no source argument and no targets configured")
	}
	return targets[0].DSN(), nil
}

// snapshotRows flattens a snapshot into one row per column, position counted
// from 1 in document order.
func snapshotRows(snap *schema.Snapshot) []SnapshotRow {
	var rows []SnapshotRow
	for _, table := range snap.Tables() {
		cols, _ := snap.Columns(table)
		for i, col := range cols {
			rows = append(rows, SnapshotRow{
				Table:    table,
				Column:   col.Name,
				Type:     col.DataType,
				Nullable: col.Nullable,
				Position: i + 1,
			})
		}
	}
	return rows
}

// tableRows collapses a snapshot into one row per table.
func tableRows(snap *schema.Snapshot) []TableRow {
	var rows []TableRow
	for _, table := range snap.Tables() {
		cols, _ := snap.Columns(table)
		rows = append(rows, TableRow{Table: table, Columns: len(cols)})
	}
	return rows
}

// sqDiff renders the raw JSON delta between two captures of a directory
// source: the two newest by default, or the two the user picks with --pick.
func sqDiff(ctx context.Context, cmd *cli.Command, spec string) error {
	captures, err := file.ListCaptures(spec)
	if err != nil {
		return fmt.Errorf("--diff needs a directory of captures: %w", err)
	}
	if len(captures) < 2 {
		return fmt.Errorf("--diff needs at least 2 captures in %s, found %d", spec, len(captures))
	}

	if cmd.Bool("pick") {
		captures = differ.SelectCaptures(captures)
		if len(captures) != 2 {
			return nil
		}
	} else {
		captures = captures[:2]
	}

	snapshots := make([][]byte, 0, 2)
	for _, c := range captures {
		doc, err := os.ReadFile(c.Path)
		if err != nil {
			return err
		}
		doc, err = source.Unseal(cmd, doc)
		if err != nil {
			return err
		}
		snapshots = append(snapshots, doc)
	}

	return differ.Raw(ctx, cmd, snapshots)
}

// sqCommandBuilder constructs the cli.Command for "sq", wiring metadata,
// flags, and action handlers.
func sqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "sq",
		Usage:     "snapshot query",
		UsageText: "pgdrift sq [SOURCE] [options]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "diff",
				Usage: "find difference between snapshot captures",
				Value: false,
			},
			&cli.StringFlag{
				Name:   "diff_filter",
				Hidden: true,
				Usage:  "comma-separated tables to drop from the diff view",
			},
			&cli.BoolFlag{
				Name:  "pick",
				Usage: "interactively pick the two captures to diff",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "tables",
				Usage: "collapse output to one row per table",
				Value: false,
			},
			passphraseFlag,
			regionFlag,
			svFlag,
		},
		Action: sqCommandAction,
		Meta:   meta,
	}).Build()
}
