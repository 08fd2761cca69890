// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package file

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
)

type SourceFileOption = func(ctx context.Context, cmd *cli.Command, s *SourceFile) error

// NewSourceFile returns a SourceFile built from the provided options, with
// WithDefaults applied first.
func NewSourceFile(ctx context.Context, cmd *cli.Command, options ...SourceFileOption) (*SourceFile, error) {
	options = append([]SourceFileOption{WithDefaults()}, options...)

	s := &SourceFile{Ctx: ctx}

	for _, opt := range options {
		if err := opt(ctx, cmd, s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func WithDefaults() SourceFileOption {
	return func(ctx context.Context, cmd *cli.Command, s *SourceFile) error {
		s.Selector = 0
		return nil
	}
}

// FromSpec parses a filesystem source spec, peeling off a trailing ~N
// capture selector (snapshots/prod~1 picks the second-newest capture).
func FromSpec(spec string) SourceFileOption {
	return func(ctx context.Context, cmd *cli.Command, s *SourceFile) error {
		path := spec
		if idx := strings.LastIndex(spec, "~"); idx > 0 {
			n, err := strconv.Atoi(spec[idx+1:])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid capture selector in %s", spec)
			}
			path = spec[:idx]
			s.Selector = n
		}
		s.Path = path
		return nil
	}
}

// WithSelector overrides the capture selector, typically from --sv.
func WithSelector(n int) SourceFileOption {
	return func(ctx context.Context, cmd *cli.Command, s *SourceFile) error {
		if n > 0 {
			s.Selector = n
		}
		return nil
	}
}
