// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package si

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgdrift/pgdrift/internal/schema"
)

func testSnapshot() *schema.Snapshot {
	snap := schema.NewSnapshot()
	snap.Add("users", []schema.Column{
		schema.NewColumn("id", "integer", "NO"),
		schema.NewColumn("email", "text", "YES"),
		schema.NewColumn("user_integer", "integer", "YES"),
	})
	snap.Add("orders", []schema.Column{
		schema.NewColumn("order_id", "bigint", "NO"),
	})
	return snap
}

func TestProcessQuery_Tables(t *testing.T) {
	got := ProcessQuery(testSnapshot(), "tables")

	assert.Equal(t, "orders\nusers", got)
}

func TestProcessQuery_TableColumns(t *testing.T) {
	got := ProcessQuery(testSnapshot(), "users")

	assert.Contains(t, got, "id")
	assert.Contains(t, got, "email")
	assert.Contains(t, got, "integer")
	// Document order, positions counted from 1.
	assert.Contains(t, got, "  1  id")
	assert.Contains(t, got, "  2  email")
}

func TestProcessQuery_OneColumn(t *testing.T) {
	got := ProcessQuery(testSnapshot(), "users.email")

	assert.Equal(t, "users.email  text  nullable=YES", got)
}

func TestProcessQuery_RawTable(t *testing.T) {
	got := ProcessQuery(testSnapshot(), ".orders")

	assert.Contains(t, got, `"column_name": "order_id"`)
	assert.Contains(t, got, `"data_type": "bigint"`)
	assert.Contains(t, got, `"is_nullable": "NO"`)
}

func TestProcessQuery_Find(t *testing.T) {
	got := ProcessQuery(testSnapshot(), "find _id")

	assert.Contains(t, got, "orders.order_id")
	assert.NotContains(t, got, "email")
}

func TestProcessQuery_FindMatchesTableNames(t *testing.T) {
	got := ProcessQuery(testSnapshot(), "find users")

	assert.Contains(t, got, "users")
}

func TestProcessQuery_FindCaseInsensitive(t *testing.T) {
	got := ProcessQuery(testSnapshot(), "find EMAIL")

	assert.Contains(t, got, "users.email")
}

func TestProcessQuery_Hungarian(t *testing.T) {
	got := ProcessQuery(testSnapshot(), "hungarian")

	assert.Contains(t, got, "users.user_integer (integer)")
	assert.NotContains(t, got, "users.email")
}

func TestProcessQuery_HungarianScopedToTable(t *testing.T) {
	got := ProcessQuery(testSnapshot(), "hungarian orders")

	assert.Empty(t, got)
}

func TestProcessQuery_TableNotFound(t *testing.T) {
	got := ProcessQuery(testSnapshot(), "missing")

	assert.Equal(t, "table not found: missing", got)
}

func TestProcessQuery_ColumnNotFound(t *testing.T) {
	got := ProcessQuery(testSnapshot(), "users.nope")

	assert.Equal(t, "column not found: users.nope", got)
}

func TestProcessQuery_DottedTableNotFound(t *testing.T) {
	got := ProcessQuery(testSnapshot(), "missing.col")

	assert.Equal(t, "table not found: missing", got)
}
