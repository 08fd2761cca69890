// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pgdrift/pgdrift/internal/log"
	"github.com/pgdrift/pgdrift/internal/schema"
)

// Kind classifies one structural difference between two databases.
type Kind string

const (
	KindMissingTable   Kind = "MISSING_TABLE"
	KindExtraTable     Kind = "EXTRA_TABLE"
	KindMissingColumn  Kind = "MISSING_COLUMN"
	KindExtraColumn    Kind = "EXTRA_COLUMN"
	KindColumnMismatch Kind = "COLUMN_MISMATCH"
)

// Difference is one detected structural discrepancy between a pair of
// databases. ColumnName is empty for table-level differences. DB1/DB2 carry
// the labels of the compared pair in enumeration order.
type Difference struct {
	Kind       Kind   `json:"diff_type"`
	TableName  string `json:"table_name"`
	ColumnName string `json:"column_name"`
	Detail     string `json:"detail"`
	DB1        string `json:"db1"`
	DB2        string `json:"db2"`
}

// Entry is one labeled snapshot handed to CompareAll. Entry order fixes the
// db1/db2 sidedness of every emitted Difference.
type Entry struct {
	Label    string
	Snapshot *schema.Snapshot
}

// CompareAll compares every unordered pair of entries, i before j in input
// order, and concatenates the pair results in enumeration order. The output
// is fully deterministic: same entries in, byte-identical differences out.
func CompareAll(entries []Entry) []Difference {
	var all []Difference

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			log.Debugf("comparing %s vs %s", entries[i].Label, entries[j].Label)
			all = append(all, ComparePair(
				entries[i].Label, entries[i].Snapshot,
				entries[j].Label, entries[j].Snapshot,
			)...)
		}
	}

	return all
}

// ComparePair computes the table-level and column-level differences between
// two labeled snapshots. Pure function over the loaded snapshots.
//
// Emission order within the pair: missing tables (sorted), extra tables
// (sorted), then per common table (sorted) the column differences.
func ComparePair(label1 string, snap1 *schema.Snapshot, label2 string, snap2 *schema.Snapshot) []Difference {
	var diffs []Difference

	tables1 := snap1.Tables()
	tables2 := snap2.Tables()

	// Tables only in database 1.
	for _, table := range sortedDiff(tables1, tables2) {
		diffs = append(diffs, Difference{
			Kind:      KindMissingTable,
			TableName: table,
			Detail:    fmt.Sprintf("Table exists in %s but not in %s", label1, label2),
			DB1:       label1,
			DB2:       label2,
		})
	}

	// Tables only in database 2.
	for _, table := range sortedDiff(tables2, tables1) {
		diffs = append(diffs, Difference{
			Kind:      KindExtraTable,
			TableName: table,
			Detail:    fmt.Sprintf("Table exists in %s but not in %s", label2, label1),
			DB1:       label1,
			DB2:       label2,
		})
	}

	// Column-level differences for the common tables.
	for _, table := range sortedIntersect(tables1, tables2) {
		cols1, _ := snap1.Columns(table)
		cols2, _ := snap2.Columns(table)
		diffs = append(diffs, compareColumns(table, cols1, cols2, label1, label2)...)
	}

	return diffs
}

// compareColumns diffs the column lists of one common table: columns only in
// side 1, then only in side 2, then common columns whose data type or
// nullability disagrees, each group in ascending column-name order.
func compareColumns(table string, cols1, cols2 []schema.Column, label1, label2 string) []Difference {
	var diffs []Difference

	byName1 := columnsByName(cols1)
	byName2 := columnsByName(cols2)

	names1 := sortedKeys(byName1)
	names2 := sortedKeys(byName2)

	for _, name := range sortedDiff(names1, names2) {
		col := byName1[name]
		diffs = append(diffs, Difference{
			Kind:       KindMissingColumn,
			TableName:  table,
			ColumnName: name,
			Detail: fmt.Sprintf("Column exists in %s but not in %s (type: %s, nullable: %s)",
				label1, label2, col.DataType, col.Nullable),
			DB1: label1,
			DB2: label2,
		})
	}

	for _, name := range sortedDiff(names2, names1) {
		col := byName2[name]
		diffs = append(diffs, Difference{
			Kind:       KindExtraColumn,
			TableName:  table,
			ColumnName: name,
			Detail: fmt.Sprintf("Column exists in %s but not in %s (type: %s, nullable: %s)",
				label2, label1, col.DataType, col.Nullable),
			DB1: label1,
			DB2: label2,
		})
	}

	for _, name := range sortedIntersect(names1, names2) {
		col1 := byName1[name]
		col2 := byName2[name]

		var clauses []string
		if col1.DataType != col2.DataType {
			clauses = append(clauses, fmt.Sprintf("data_type: %s=%s vs %s=%s",
				label1, col1.DataType, label2, col2.DataType))
		}
		// Nullability compares the exact serialized token, so a document
		// storing "YES" never matches one storing bare true.
		if col1.NullableRaw != col2.NullableRaw {
			clauses = append(clauses, fmt.Sprintf("nullable: %s=%s vs %s=%s",
				label1, col1.Nullable, label2, col2.Nullable))
		}
		if len(clauses) == 0 {
			continue
		}

		diffs = append(diffs, Difference{
			Kind:       KindColumnMismatch,
			TableName:  table,
			ColumnName: name,
			Detail:     strings.Join(clauses, "; "),
			DB1:        label1,
			DB2:        label2,
		})
	}

	return diffs
}

// columnsByName indexes a column list by column name.
func columnsByName(cols []schema.Column) map[string]schema.Column {
	byName := make(map[string]schema.Column, len(cols))
	for _, col := range cols {
		byName[col.Name] = col
	}
	return byName
}

// sortedKeys returns the map keys in ascending lexical order.
func sortedKeys(m map[string]schema.Column) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedDiff returns the members of a not present in b, preserving a's
// ascending order. Both inputs must already be sorted.
func sortedDiff(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) {
		switch {
		case j >= len(b) || a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			j++
		default:
			i++
			j++
		}
	}
	return out
}

// sortedIntersect returns the members present in both a and b, preserving
// ascending order. Both inputs must already be sorted.
func sortedIntersect(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
