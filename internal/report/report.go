// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pgdrift/pgdrift/internal/differ"
	"github.com/pgdrift/pgdrift/internal/log"
)

// TimestampLayout names report files down to the second.
const TimestampLayout = "20060102_150405"

// sampleLimit caps the per-kind sample lines in the console summary.
const sampleLimit = 5

// Render writes the CSV artifact and prints the console summary to w. It
// returns the CSV path, or "" when there were no differences and no file was
// written.
func Render(w io.Writer, diffs []differ.Difference, dir, timestamp string) (string, error) {
	if len(diffs) == 0 {
		NoDifferences(w)
		return "", nil
	}

	csvPath, err := WriteCSV(diffs, dir, timestamp)
	if err != nil {
		return "", err
	}

	Summary(w, diffs, csvPath)
	return csvPath, nil
}

// NoDifferences prints the all-clear line shown when a run finds nothing.
func NoDifferences(w io.Writer) {
	fmt.Fprintln(w, "\nAll databases are identical - no schema differences detected")
}

// WriteCSV writes every difference, in order, to
// {dir}/{timestamp}-schema_differences.csv. The directory is created if
// absent.
func WriteCSV(diffs []differ.Difference, dir, timestamp string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	csvPath := filepath.Join(dir, timestamp+"-schema_differences.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"Diff Type", "Table Name", "Column Name", "Database 1", "Database 2", "Detail"}); err != nil {
		return "", err
	}
	for _, d := range diffs {
		if err := cw.Write([]string{string(d.Kind), d.TableName, d.ColumnName, d.DB1, d.DB2, d.Detail}); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	log.Debugf("wrote report: path=%s rows=%d", csvPath, len(diffs))
	return csvPath, nil
}

// Summary prints the grouped console summary: a banner, per-kind counts with
// up to five samples each, and the CSV location.
func Summary(w io.Writer, diffs []differ.Difference, csvPath string) {
	fmt.Fprintf(w, "\nSchema Differences Detected (%d total)\n", len(diffs))
	fmt.Fprintln(w, strings.Repeat("=", 80)) //nolint:mnd

	byKind := make(map[differ.Kind][]differ.Difference)
	for _, d := range diffs {
		byKind[d.Kind] = append(byKind[d.Kind], d)
	}

	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		group := byKind[differ.Kind(kind)]
		fmt.Fprintf(w, "\n%s: %d occurrence(s)\n", kind, len(group))

		for i, d := range group {
			if i == sampleLimit {
				fmt.Fprintf(w, "  ... and %d more\n", len(group)-sampleLimit)
				break
			}
			if d.ColumnName != "" {
				fmt.Fprintf(w, "  • %s.%s: %s\n", d.TableName, d.ColumnName, d.Detail)
			} else {
				fmt.Fprintf(w, "  • %s: %s\n", d.TableName, d.Detail)
			}
		}
	}

	// csvPath is empty when the caller suppressed the CSV artifact.
	if csvPath != "" {
		fmt.Fprintf(w, "\nFull Differences report saved to: %s\n", csvPath)
	}
	fmt.Fprintln(w, strings.Repeat("=", 80)) //nolint:mnd
}
