// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/pgdrift/pgdrift/internal/config"
	"github.com/pgdrift/pgdrift/internal/meta"
	"github.com/pgdrift/pgdrift/internal/target"
	"github.com/pgdrift/pgdrift/internal/util"
)

// TargetRow is the display shape of one env-configured target. The password
// is masked and the DSN redacted before the row ever reaches the pipeline.
type TargetRow struct {
	Index    int    `json:"index"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	DSN      string `json:"dsn"`
}

// tqDefaultAttrs specifies the default attributes displayed for targets in
// the "tq" command output.
var tqDefaultAttrs = []string{"index", "host", "port", "user", "database"}

// tqCommandAction is the action handler for the "tq" subcommand. It lists the
// env-configured database targets with secrets masked.
func tqCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "tq"

	return NewQueryActionRunner(
		"tq",
		reflect.TypeOf(TargetRow{}),
		tqDefaultAttrs,
		tqFetch,
	).Run(ctx, cmd)
}

// tqFetch loads the targets and converts them to masked display rows.
func tqFetch(_ context.Context, _ *cli.Command) ([]TargetRow, error) {
	targets, err := target.Load()
	if err != nil {
		return nil, err
	}

	rows := make([]TargetRow, 0, len(targets))
	for _, t := range targets {
		rows = append(rows, TargetRow{
			Index:    t.Index,
			Host:     t.Host,
			Port:     t.Port,
			User:     t.User,
			Password: util.MaskSecret(t.Password, util.DefaultMaskVisible),
			Database: t.Database,
			DSN:      t.Redacted(),
		})
	}
	return rows, nil
}

// tqCommandBuilder constructs the cli.Command for "tq", wiring metadata,
// flags, and action handlers.
func tqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "tq",
		Usage:     "target query",
		UsageText: "pgdrift tq [options]",
		Action:    tqCommandAction,
		Meta:      meta,
	}).Build()
}
