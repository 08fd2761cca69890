// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package source acquires snapshot documents from the places pgdrift can
// read them: live PostgreSQL databases (postgres://), local snapshot files
// and directories of timestamped captures, and S3 objects (s3://). Resolve
// sniffs the source spec and returns the right implementation; Loader
// memoizes parsed snapshots in a run-scoped Cache so each source is read at
// most once per report run.
package source
