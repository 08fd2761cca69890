// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"strings"
)

// ParseEntry parses a LABEL=SOURCE positional argument. A bare argument with
// no "=" is a source with no label; the caller derives one. The split happens
// on the first "=" only, since sources may themselves contain "=" (connection
// string parameters). An empty argument, label, or source is an error.
func ParseEntry(arg string) (string, string, error) {
	if arg == "" {
		return "", "", os.ErrInvalid
	}

	idx := strings.Index(arg, "=")
	if idx < 0 {
		return "", arg, nil
	}

	label := arg[:idx]
	source := arg[idx+1:]
	if label == "" || source == "" {
		return "", "", os.ErrInvalid
	}

	return label, source, nil
}
