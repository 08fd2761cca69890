// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Raw renders a colored ASCII JSON delta between two snapshot documents.
// This is presentation-only: it shows how one database's captures changed
// over time and never feeds the structural report.
func Raw(ctx context.Context, cmd *cli.Command, snapshots [][]byte) error {
	log.Debugf(">> differ.Raw()")

	if len(snapshots) < 2 || len(snapshots[0]) == 0 || len(snapshots[1]) == 0 {
		return nil
	}

	log.Debugf("len(snapshots): %d %d", len(snapshots[0]), len(snapshots[1]))

	differ := gojsondiff.New()

	delta, err := differ.Compare(snapshots[0], snapshots[1])
	if err != nil {
		return fmt.Errorf("failed to compare snapshots: %w", err)
	}

	if delta.Modified() {
		var jdoc map[string]interface{}
		if err := json.Unmarshal(snapshots[0], &jdoc); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}

		// Drop any tables the user asked to ignore in the delta view.
		filter := cmd.String("diff_filter")
		for key := range strings.SplitSeq(filter, ",") {
			if key != "" {
				delete(jdoc, key)
			}
		}

		config := formatter.AsciiFormatterConfig{
			ShowArrayIndex: false,
			Coloring:       true,
		}

		formatter := formatter.NewAsciiFormatter(jdoc, config)
		diffString, err := formatter.Format(delta)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, diffString)
		return nil
	}

	fmt.Fprintln(os.Stdout, "The snapshots are identical.")
	return nil
}
