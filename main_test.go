// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"reflect"
	"testing"
)

func TestDeduplicateFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "empty args",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "only program and command",
			args:     []string{"pgdrift", "sq"},
			expected: []string{"pgdrift", "sq"},
		},
		{
			name:     "no duplicates",
			args:     []string{"pgdrift", "sq", "--output", "text", "--titles"},
			expected: []string{"pgdrift", "sq", "--output", "text", "--titles"},
		},
		{
			name:     "duplicate flag with value - last wins",
			args:     []string{"pgdrift", "sq", "--output", "json", "--titles", "--output", "text"},
			expected: []string{"pgdrift", "sq", "--titles", "--output", "text"},
		},
		{
			name:     "duplicate boolean flag",
			args:     []string{"pgdrift", "sq", "--titles", "--debug", "--titles"},
			expected: []string{"pgdrift", "sq", "--debug", "--titles"},
		},
		{
			name:     "duplicate flag with equals syntax",
			args:     []string{"pgdrift", "sq", "--output=json", "--titles", "--output=text"},
			expected: []string{"pgdrift", "sq", "--titles", "--output=text"},
		},
		{
			name:     "mixed equals and space syntax - same flag",
			args:     []string{"pgdrift", "sq", "--output=json", "--output", "text"},
			expected: []string{"pgdrift", "sq", "--output", "text"},
		},
		{
			name:     "multiple different flags with duplicates",
			args:     []string{"pgdrift", "dq", "--dir", "a", "--filter", "foo", "--dir", "b", "--filter", "bar"},
			expected: []string{"pgdrift", "dq", "--dir", "b", "--filter", "bar"},
		},
		{
			name:     "positional args preserved",
			args:     []string{"pgdrift", "sq", "/path/to/captures", "--output", "json", "--output", "text"},
			expected: []string{"pgdrift", "sq", "/path/to/captures", "--output", "text"},
		},
		{
			name:     "short flags deduplicated",
			args:     []string{"pgdrift", "sq", "-o", "json", "-o", "text"},
			expected: []string{"pgdrift", "sq", "-o", "text"},
		},
		{
			name:     "different flags not affected",
			args:     []string{"pgdrift", "sq", "--color", "--no-color"},
			expected: []string{"pgdrift", "sq", "--color", "--no-color"},
		},
		{
			name:     "triple duplicate",
			args:     []string{"pgdrift", "sq", "--output", "a", "--output", "b", "--output", "c"},
			expected: []string{"pgdrift", "sq", "--output", "c"},
		},
		{
			name:     "flag at end with no value treated as boolean",
			args:     []string{"pgdrift", "sq", "--titles", "--debug", "--titles"},
			expected: []string{"pgdrift", "sq", "--debug", "--titles"},
		},
		{
			name:     "boolean flag does not consume a following positional",
			args:     []string{"pgdrift", "sq", "--titles", "./captures", "--titles"},
			expected: []string{"pgdrift", "sq", "./captures", "--titles"},
		},
		{
			name:     "repeated boolean flags around positionals",
			args:     []string{"pgdrift", "sq", "--tables", "./captures", "--output", "json", "--tables"},
			expected: []string{"pgdrift", "sq", "./captures", "--output", "json", "--tables"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := deduplicateFlags(tt.args)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("deduplicateFlags(%v) = %v, want %v", tt.args, result, tt.expected)
			}
		})
	}
}

func TestDeduplicateFlagsPreservesOrder(t *testing.T) {
	// Ensure non-duplicate flags maintain their relative order.
	args := []string{"pgdrift", "sq", "--alpha", "--beta", "--gamma"}
	result := deduplicateFlags(args)
	expected := []string{"pgdrift", "sq", "--alpha", "--beta", "--gamma"}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Order not preserved: got %v, want %v", result, expected)
	}
}

func TestDeduplicateFlagsWithPositionalAfterFlags(t *testing.T) {
	// Positional args after flags should be preserved.
	args := []string{"pgdrift", "sq", "--output", "json", "/path", "--output", "text"}
	result := deduplicateFlags(args)
	expected := []string{"pgdrift", "sq", "/path", "--output", "text"}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("got %v, want %v", result, expected)
	}
}

func TestInjectConfigSet(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		key       string
		insertIdx int
		configVal []string
		expected  []string
	}{
		{
			name:      "empty config returns args unchanged",
			args:      []string{"pgdrift", "sq", "--titles"},
			key:       "defaults",
			insertIdx: 2,
			configVal: nil,
			expected:  []string{"pgdrift", "sq", "--titles"},
		},
		{
			name:      "single entry injected",
			args:      []string{"pgdrift", "sq", "--titles"},
			key:       "defaults",
			insertIdx: 2,
			configVal: []string{"--debug"},
			expected:  []string{"pgdrift", "sq", "--debug", "--titles"},
		},
		{
			name:      "multi-word entry split",
			args:      []string{"pgdrift", "sq", "--titles"},
			key:       "defaults",
			insertIdx: 2,
			configVal: []string{"--output text"},
			expected:  []string{"pgdrift", "sq", "--output", "text", "--titles"},
		},
		{
			name:      "multiple entries",
			args:      []string{"pgdrift", "sq"},
			key:       "defaults",
			insertIdx: 2,
			configVal: []string{"--debug", "--output json"},
			expected:  []string{"pgdrift", "sq", "--debug", "--output", "json"},
		},
		{
			name:      "insert at index 3",
			args:      []string{"pgdrift", "sq", "/path/to/captures", "--titles"},
			key:       "defaults",
			insertIdx: 3,
			configVal: []string{"--debug"},
			expected:  []string{"pgdrift", "sq", "/path/to/captures", "--debug", "--titles"},
		},
		{
			name:      "complex multi-word entries",
			args:      []string{"pgdrift", "dq"},
			key:       "dq.defaults",
			insertIdx: 2,
			configVal: []string{"--dir ./reports", "--sort table"},
			expected:  []string{"pgdrift", "dq", "--dir", "./reports", "--sort", "table"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := injectConfigSetTestable(tt.args, tt.configVal, tt.insertIdx)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("injectConfigSet() = %v, want %v", result, tt.expected)
			}
		})
	}
}

// injectConfigSetTestable is a test-friendly version that accepts config values
// directly instead of reading from global config.
func injectConfigSetTestable(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		for _, field := range splitFields(entry) {
			expanded = append(expanded, field)
		}
	}

	return append(args[:insertIdx], append(expanded, args[insertIdx:]...)...)
}

// splitFields splits a string by whitespace, matching strings.Fields behavior.
func splitFields(s string) []string {
	var result []string
	start := -1

	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if start >= 0 {
				result = append(result, s[start:i])
				start = -1
			}
		} else {
			if start < 0 {
				start = i
			}
		}
	}

	if start >= 0 {
		result = append(result, s[start:])
	}

	return result
}
