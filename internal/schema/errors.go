// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package schema

import "fmt"

// LoadError wraps any failure to materialize a snapshot from its source:
// unreadable file, failed fetch, failed connection, or content that does not
// parse into a mapping of table name to column descriptors.
type LoadError struct {
	SourceID string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load snapshot from %s: %v", e.SourceID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError wraps err as a LoadError for the given source identifier.
func NewLoadError(sourceID string, err error) *LoadError {
	return &LoadError{SourceID: sourceID, Err: err}
}

// MalformedMetadataError reports a well-formed snapshot document whose column
// descriptor lacks a required field. This is fatal to the whole run since a
// diff over incomplete metadata would mislead.
type MalformedMetadataError struct {
	Table  string
	Column string
	Field  string
}

func (e *MalformedMetadataError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("malformed metadata: table %q has a column descriptor missing required field %q", e.Table, e.Field)
	}
	return fmt.Sprintf("malformed metadata: column %s.%s missing required field %q", e.Table, e.Column, e.Field)
}
