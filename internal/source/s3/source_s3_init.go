// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

type SourceS3Option = func(ctx context.Context, cmd *cli.Command, s *SourceS3) error

// NewSourceS3 returns a SourceS3 built from the provided options, with
// WithDefaults applied first.
func NewSourceS3(ctx context.Context, cmd *cli.Command, options ...SourceS3Option) (*SourceS3, error) {
	options = append([]SourceS3Option{WithDefaults()}, options...)

	s := &SourceS3{Ctx: ctx}

	for _, opt := range options {
		if err := opt(ctx, cmd, s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func WithDefaults() SourceS3Option {
	return func(ctx context.Context, cmd *cli.Command, s *SourceS3) error {
		if cmd != nil {
			s.Region = cmd.String("region")
		}
		return nil
	}
}

// FromURL parses an s3://bucket/key object URL.
func FromURL(rawURL string) SourceS3Option {
	return func(ctx context.Context, cmd *cli.Command, s *SourceS3) error {
		rest, ok := strings.CutPrefix(rawURL, "s3://")
		if !ok {
			return fmt.Errorf("not an s3 URL: %s", rawURL)
		}

		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return fmt.Errorf("s3 URL must be s3://bucket/key: %s", rawURL)
		}

		s.Bucket = bucket
		s.Key = key
		return nil
	}
}

// WithRegion overrides the region resolved from flags and the AWS config
// chain.
func WithRegion(region string) SourceS3Option {
	return func(ctx context.Context, cmd *cli.Command, s *SourceS3) error {
		if region != "" {
			s.Region = region
		}
		return nil
	}
}
