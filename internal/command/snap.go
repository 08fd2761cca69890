// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/pgdrift/pgdrift/internal/config"
	"github.com/pgdrift/pgdrift/internal/meta"
	"github.com/pgdrift/pgdrift/internal/report"
	"github.com/pgdrift/pgdrift/internal/schema"
	"github.com/pgdrift/pgdrift/internal/source"
)

// snapCommandAction is the action handler for the "snap" subcommand. It
// captures a snapshot from every requested source and writes one timestamped
// file per capture, optionally sealed with a passphrase.
func snapCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "snap") {
		return nil
	}

	config.Config.Namespace = "snap"

	entries, err := dqResolveEntries(cmd.Args().Slice())
	if err != nil {
		return err
	}

	var passphrase string
	if cmd.Bool("encrypt") {
		passphrase, err = snapPassphrase(cmd)
		if err != nil {
			return err
		}
	}

	dir := cmd.String("dir")
	timestamp := time.Now().Format(report.TimestampLayout)

	for _, e := range entries {
		src, err := source.Resolve(ctx, cmd, e.spec)
		if err != nil {
			return err
		}

		doc, err := src.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("failed to capture snapshot from %s: %w", src, err)
		}

		if cmd.Bool("encrypt") {
			doc, err = schema.Encrypt(doc, passphrase)
			if err != nil {
				return fmt.Errorf("failed to encrypt snapshot: %w", err)
			}
		}

		// A dir of "-" streams one capture to stdout instead of a file.
		if dir == "-" {
			_, err := os.Stdout.Write(doc)
			return err
		}

		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}

		path := filepath.Join(dir, fmt.Sprintf("%s-%s-schema_metadata.json", timestamp, e.label))
		if err := os.WriteFile(path, doc, 0o644); err != nil { //nolint:mnd
			return fmt.Errorf("failed to write snapshot file: %w", err)
		}

		fmt.Printf("Snapshot saved to: %s\n", path)
	}

	return nil
}

// snapPassphrase resolves the sealing passphrase: the flag, the env, or an
// interactive prompt with confirmation.
func snapPassphrase(cmd *cli.Command) (string, error) {
	if passphrase := cmd.String("passphrase"); passphrase != "" {
		return passphrase, nil
	}
	if passphrase := os.Getenv("PGDRIFT_PASSPHRASE"); passphrase != "" {
		return passphrase, nil
	}

	passphrase, err := schema.GetPassphrase()
	if err != nil {
		return "", err
	}
	confirm, err := schema.GetPassphrase()
	if err != nil {
		return "", err
	}
	if passphrase != confirm {
		return "", fmt.Errorf("passphrases do not match")
	}

	return passphrase, nil
}

// snapCommandBuilder constructs the cli.Command for "snap", wiring metadata,
// flags, and action handlers.
func snapCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "snap",
		Usage:     "capture snapshots",
		UsageText: "pgdrift snap [LABEL=SOURCE ...] [options]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "encrypt",
				Usage: "seal snapshot files with a passphrase",
				Value: false,
			},
			NewDirFlag("snap", meta.Config.Source),
			passphraseFlag,
			regionFlag,
		},
		Action: snapCommandAction,
		Meta:   meta,
	}).Build()
}
