// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type SourcePostgresOption = func(ctx context.Context, cmd *cli.Command, s *SourcePostgres) error

// NewSourcePostgres returns a SourcePostgres built from the provided options,
// with WithDefaults applied first.
func NewSourcePostgres(ctx context.Context, cmd *cli.Command, options ...SourcePostgresOption) (*SourcePostgres, error) {
	options = append([]SourcePostgresOption{WithDefaults()}, options...)

	s := &SourcePostgres{Ctx: ctx}

	for _, opt := range options {
		if err := opt(ctx, cmd, s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func WithDefaults() SourcePostgresOption {
	return func(ctx context.Context, cmd *cli.Command, s *SourcePostgres) error {
		return nil
	}
}

// FromDSN sets the connection string. Both postgres:// and postgresql://
// URL forms are accepted, as is the keyword=value form pgx understands.
func FromDSN(dsn string) SourcePostgresOption {
	return func(ctx context.Context, cmd *cli.Command, s *SourcePostgres) error {
		if dsn == "" {
			return fmt.Errorf("empty DSN")
		}
		s.DSN = dsn
		return nil
	}
}
