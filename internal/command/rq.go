// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/pgdrift/pgdrift/internal/config"
	"github.com/pgdrift/pgdrift/internal/differ"
	"github.com/pgdrift/pgdrift/internal/meta"
)

// reportHeader is the column layout every schema_differences.csv carries.
var reportHeader = []string{"Diff Type", "Table Name", "Column Name", "Database 1", "Database 2", "Detail"}

// rqCommandAction is the action handler for the "rq" subcommand. It reads a
// previously written differences report from a file or stdin and re-slices
// it through the dataset pipeline without re-running any comparison.
func rqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "rq") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(differ.Difference{})) {
		return nil
	}

	config.Config.Namespace = "rq"

	// Get the positional argument (the report file, or default to stdin).
	reportInput := "-"
	if first := cmd.Args().First(); first != "" {
		reportInput = first
	}

	var input io.ReadCloser

	if reportInput == "-" {
		input = os.Stdin
	} else {
		if info, err := os.Stat(reportInput); err != nil {
			return fmt.Errorf("report file does not exist: %s", reportInput)
		} else if info.IsDir() {
			return fmt.Errorf("report input cannot be a directory: %s", reportInput)
		}
		f, err := os.Open(reportInput)
		if err != nil {
			return fmt.Errorf("failed to open report file: %w", err)
		}
		defer f.Close()
		input = f
	}

	diffs, err := parseReport(input)
	if err != nil {
		return err
	}

	attrs := BuildAttrs(cmd, dqDefaultAttrs...)
	log.Debugf("attrs: %v", attrs)
	return EmitSlice(diffs, attrs, cmd)
}

// parseReport reads a differences CSV back into Difference rows. The header
// must match the layout the report writer produces; anything else is
// malformed.
func parseReport(input io.Reader) ([]differ.Difference, error) {
	reader := csv.NewReader(input)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	if len(header) != len(reportHeader) {
		return nil, fmt.Errorf("unrecognized report header: %v", header)
	}
	for i, col := range reportHeader {
		if header[i] != col {
			return nil, fmt.Errorf("unrecognized report header: %v", header)
		}
	}

	diffs := make([]differ.Difference, 0, len(records)-1)
	for _, rec := range records[1:] {
		diffs = append(diffs, differ.Difference{
			Kind:       differ.Kind(rec[0]),
			TableName:  rec[1],
			ColumnName: rec[2],
			DB1:        rec[3],
			DB2:        rec[4],
			Detail:     rec[5],
		})
	}

	return diffs, nil
}

// rqCommandBuilder constructs the cli.Command for "rq", wiring metadata,
// flags, and action handlers.
func rqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "rq",
		Usage:     "report query",
		UsageText: "pgdrift rq [report-file]",
		Action:    rqCommandAction,
		Meta:      meta,
	}).Build()
}
