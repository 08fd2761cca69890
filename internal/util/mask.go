// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"net/url"
	"strings"
)

// DefaultMaskVisible is the number of leading characters left readable when
// masking a secret for display.
const DefaultMaskVisible = 3

// MaskSecret returns a display-safe form of a secret. Values that are empty
// or no longer than visible collapse to "***" so their length is not
// recoverable; anything else keeps its first visible characters followed by
// "***".
func MaskSecret(value string, visible int) string {
	if value == "" || len(value) <= visible {
		return "***"
	}
	return value[:visible] + "***"
}

// MaskDSN masks the password component of a URL-form connection string for
// logging. Strings without a recognizable password pass through unchanged.
func MaskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}

	if u.User == nil {
		return dsn
	}

	password, set := u.User.Password()
	if !set {
		return dsn
	}

	u.User = url.UserPassword(u.User.Username(), MaskSecret(password, DefaultMaskVisible))

	// userinfo percent-escapes '*', which makes the mask unreadable.
	return strings.ReplaceAll(u.String(), "%2A", "*")
}
