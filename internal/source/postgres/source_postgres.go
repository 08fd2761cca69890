// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pgdrift/pgdrift/internal/log"
	"github.com/pgdrift/pgdrift/internal/schema"
	"github.com/pgdrift/pgdrift/internal/util"
)

// columnsQuery captures the structural metadata pgdrift compares: every
// public-schema column with its declared type and nullability, in table and
// ordinal order so captures of the same database are stable.
const columnsQuery = `
SELECT table_name, column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_schema = 'public'
ORDER BY table_name, ordinal_position`

// SourcePostgres captures a snapshot from a live PostgreSQL database by
// introspecting information_schema.
type SourcePostgres struct {
	Ctx context.Context
	DSN string
}

// Snapshot connects, introspects, and returns the metadata document with
// tables in ascending name order. The is_nullable values are kept verbatim
// as the YES/NO strings PostgreSQL serves.
func (s *SourcePostgres) Snapshot(ctx context.Context) ([]byte, error) {
	snap, err := s.Capture(ctx)
	if err != nil {
		return nil, err
	}
	return snap.MarshalJSON()
}

// Capture runs the introspection and returns the parsed snapshot directly.
func (s *SourcePostgres) Capture(ctx context.Context) (*schema.Snapshot, error) {
	log.Debugf("connecting: dsn=%s", util.MaskDSN(s.DSN))

	conn, err := pgx.Connect(ctx, s.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, columnsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query information_schema: %w", err)
	}
	defer rows.Close()

	snap := schema.NewSnapshot()
	var table string
	var cols []schema.Column

	for rows.Next() {
		var tableName, columnName, dataType, isNullable string
		if err := rows.Scan(&tableName, &columnName, &dataType, &isNullable); err != nil {
			return nil, fmt.Errorf("failed to scan column row: %w", err)
		}

		if tableName != table {
			if table != "" {
				snap.Add(table, cols)
			}
			table = tableName
			cols = nil
		}
		cols = append(cols, schema.NewColumn(columnName, dataType, isNullable))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read column rows: %w", err)
	}
	if table != "" {
		snap.Add(table, cols)
	}

	log.Debugf("captured %d tables", snap.Len())
	return snap, nil
}

func (s *SourcePostgres) String() string {
	return util.MaskDSN(s.DSN)
}
