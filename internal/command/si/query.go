// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package si

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pgdrift/pgdrift/internal/hungarian"
	"github.com/pgdrift/pgdrift/internal/schema"
)

// ProcessQuery evaluates one inspector query against a loaded snapshot and
// returns the rendered result. Supported queries:
//
//	tables            list table names
//	TABLE             list the columns of a table
//	TABLE.COLUMN      show one column
//	.TABLE            raw JSON descriptors of a table
//	find SUBSTR       search table and column names
//	hungarian [TABLE] columns embedding their data type in their name
func ProcessQuery(snap *schema.Snapshot, query string) string {
	query = strings.TrimSpace(query)

	switch {
	case query == "tables":
		return strings.Join(snap.Tables(), "\n")
	case strings.HasPrefix(query, "."):
		return rawTable(snap, strings.TrimPrefix(query, "."))
	case strings.HasPrefix(query, "find "):
		return find(snap, strings.TrimSpace(strings.TrimPrefix(query, "find ")))
	case query == "hungarian" || strings.HasPrefix(query, "hungarian "):
		return hungarianColumns(snap, strings.TrimSpace(strings.TrimPrefix(query, "hungarian")))
	}

	// A bare table name wins over the TABLE.COLUMN reading, so tables with
	// dots in their names stay addressable.
	if cols, ok := snap.Columns(query); ok {
		return columnList(cols)
	}

	if table, column, found := strings.Cut(query, "."); found {
		return oneColumn(snap, table, column)
	}

	return fmt.Sprintf("table not found: %s", query)
}

// rawTable renders the descriptor list of one table as indented JSON.
func rawTable(snap *schema.Snapshot, table string) string {
	cols, ok := snap.Columns(table)
	if !ok {
		return fmt.Sprintf("table not found: %s", table)
	}

	out, err := json.MarshalIndent(cols, "", "  ")
	if err != nil {
		return fmt.Sprintf("failed to render %s: %v", table, err)
	}
	return string(out)
}

// columnList renders a table's columns in document order.
func columnList(cols []schema.Column) string {
	var lines []string
	for i, col := range cols {
		lines = append(lines, fmt.Sprintf("%3d  %-32s %-24s %s", i+1, col.Name, col.DataType, col.Nullable))
	}
	return strings.Join(lines, "\n")
}

// oneColumn renders a single TABLE.COLUMN lookup.
func oneColumn(snap *schema.Snapshot, table, column string) string {
	cols, ok := snap.Columns(table)
	if !ok {
		return fmt.Sprintf("table not found: %s", table)
	}

	for _, col := range cols {
		if col.Name == column {
			return fmt.Sprintf("%s.%s  %s  nullable=%s", table, column, col.DataType, col.Nullable)
		}
	}
	return fmt.Sprintf("column not found: %s.%s", table, column)
}

// find searches table and column names for a case-insensitive substring.
func find(snap *schema.Snapshot, substr string) string {
	if substr == "" {
		return "usage: find SUBSTR"
	}

	needle := strings.ToLower(substr)
	var lines []string
	for _, table := range snap.Tables() {
		if strings.Contains(strings.ToLower(table), needle) {
			lines = append(lines, table)
		}
		cols, _ := snap.Columns(table)
		for _, col := range cols {
			if strings.Contains(strings.ToLower(col.Name), needle) {
				lines = append(lines, fmt.Sprintf("%s.%s", table, col.Name))
			}
		}
	}

	return strings.Join(lines, "\n")
}

// hungarianColumns lists the columns whose name embeds their declared data
// type, across the whole snapshot or one table.
func hungarianColumns(snap *schema.Snapshot, table string) string {
	tables := snap.Tables()
	if table != "" {
		if _, ok := snap.Columns(table); !ok {
			return fmt.Sprintf("table not found: %s", table)
		}
		tables = []string{table}
	}

	var lines []string
	for _, t := range tables {
		cols, _ := snap.Columns(t)
		for _, col := range cols {
			if hungarian.IsHungarian(col.DataType, col.Name) {
				lines = append(lines, fmt.Sprintf("%s.%s (%s)", t, col.Name, col.DataType))
			}
		}
	}

	return strings.Join(lines, "\n")
}
