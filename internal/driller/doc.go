// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller navigates raw JSON documents, such as schema snapshot
// descriptors, to extract useful views for commands that need deeper
// inspection.
package driller
