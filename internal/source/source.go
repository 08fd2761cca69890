// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pgdrift/pgdrift/internal/log"
	"github.com/pgdrift/pgdrift/internal/schema"
	"github.com/pgdrift/pgdrift/internal/source/file"
	"github.com/pgdrift/pgdrift/internal/source/postgres"
	"github.com/pgdrift/pgdrift/internal/source/s3"
)

// Source abstracts one place a snapshot document can be acquired from.
type Source interface {
	// Snapshot returns the raw snapshot document. For live databases this
	// is a fresh capture; for files and objects it is the stored bytes,
	// still sealed if the source is encrypted.
	Snapshot(ctx context.Context) ([]byte, error)
	String() string
}

// Resolve returns the Source implementation for a spec string. postgres://
// and postgresql:// specs connect live, s3:// specs fetch an object, and
// everything else is treated as a filesystem path (file, or directory of
// captures, with an optional trailing ~N selector).
func Resolve(ctx context.Context, cmd *cli.Command, spec string) (Source, error) {
	switch {
	case strings.HasPrefix(spec, "postgres://") || strings.HasPrefix(spec, "postgresql://"):
		return postgres.NewSourcePostgres(ctx, cmd, postgres.FromDSN(spec))
	case strings.HasPrefix(spec, "s3://"):
		return s3.NewSourceS3(ctx, cmd, s3.FromURL(spec))
	default:
		return file.NewSourceFile(ctx, cmd, file.FromSpec(spec))
	}
}

// Unseal decrypts an encrypted snapshot document, resolving the passphrase
// from the --passphrase flag, the PGDRIFT_PASSPHRASE env variable, or an
// interactive prompt, in that order. Plaintext documents pass through.
func Unseal(cmd *cli.Command, doc []byte) ([]byte, error) {
	if !schema.IsEncrypted(doc) {
		return doc, nil
	}

	passphrase := cmd.String("passphrase")

	if passphrase == "" {
		passphrase = os.Getenv("PGDRIFT_PASSPHRASE")
	}

	if passphrase == "" {
		var err error
		passphrase, err = schema.GetPassphrase()
		if err != nil {
			return nil, err
		}
	}

	log.Debugf("unsealing encrypted snapshot")
	return schema.Decrypt(doc, passphrase)
}
