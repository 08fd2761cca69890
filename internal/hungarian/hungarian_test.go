// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package hungarian

import (
	"testing"
)

func TestIsHungarian(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		colName  string
		expected bool
	}{
		// Token equality tests - name part matches type token exactly.
		{
			name:     "integer token in name",
			typ:      "integer",
			colName:  "user_integer",
			expected: true,
		},
		{
			name:     "text token in name",
			typ:      "text",
			colName:  "text_description",
			expected: true,
		},
		{
			name:     "boolean token in name",
			typ:      "boolean",
			colName:  "flag_boolean",
			expected: true,
		},
		// Multi-word PostgreSQL types tokenize on spaces.
		{
			name:     "varying token from character varying",
			typ:      "character varying",
			colName:  "varying_name",
			expected: true,
		},
		{
			name:     "character token from character varying",
			typ:      "character varying",
			colName:  "character_set",
			expected: true,
		},
		{
			name:     "timestamp token from timestamptz",
			typ:      "timestamp with time zone",
			colName:  "created_timestamp",
			expected: true,
		},
		{
			name:     "precision token from double precision",
			typ:      "double precision",
			colName:  "precision_value",
			expected: true,
		},
		// Substring tests - type token appears as substring in name.
		{
			name:     "uuid as substring",
			typ:      "uuid",
			colName:  "useruuid",
			expected: true,
		},
		{
			name:     "text as substring with dash separator",
			typ:      "text",
			colName:  "description-text",
			expected: true,
		},
		{
			name:     "integer with dot separator",
			typ:      "integer",
			colName:  "integer.primary",
			expected: true,
		},
		{
			name:     "text with trailing digits",
			typ:      "text",
			colName:  "text123",
			expected: true,
		},
		// Case insensitivity tests.
		{
			name:     "uppercase type",
			typ:      "INTEGER",
			colName:  "integer_id",
			expected: true,
		},
		{
			name:     "mixed case column name",
			typ:      "integer",
			colName:  "Integer_ID",
			expected: true,
		},
		// Non-Hungarian tests.
		{
			name:     "no matching tokens",
			typ:      "numeric",
			colName:  "total_amount",
			expected: false,
		},
		{
			name:     "abbreviated type not matched",
			typ:      "integer",
			colName:  "int_count",
			expected: false,
		},
		{
			name:     "boolean prefix convention not matched",
			typ:      "boolean",
			colName:  "is_active",
			expected: false,
		},
		// Edge cases.
		{
			name:     "empty type",
			typ:      "",
			colName:  "something",
			expected: false,
		},
		{
			name:     "empty name",
			typ:      "integer",
			colName:  "",
			expected: false,
		},
		{
			name:     "both empty",
			typ:      "",
			colName:  "",
			expected: false,
		},
		// CamelCase tests.
		{
			name:     "integer with camelCase userInteger",
			typ:      "integer",
			colName:  "userInteger",
			expected: true,
		},
		{
			name:     "varying with camelCase nameVaryingLong",
			typ:      "character varying",
			colName:  "nameVaryingLong",
			expected: true,
		},
		{
			name:     "no match with camelCase orderTotal",
			typ:      "double precision",
			colName:  "orderTotal",
			expected: false,
		},
		// Multiple tokens from type matching.
		{
			name:     "first token matches",
			typ:      "timestamp with time zone",
			colName:  "timestamp_created",
			expected: true,
		},
		{
			name:     "last token matches",
			typ:      "timestamp with time zone",
			colName:  "zone_created",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsHungarian(tt.typ, tt.colName)
			if result != tt.expected {
				t.Errorf("IsHungarian(%q, %q) = %v, expected %v",
					tt.typ, tt.colName, result, tt.expected)
			}
		})
	}
}

// BenchmarkIsHungarian benchmarks the IsHungarian function to ensure it
// performs well with typical column names and types.
func BenchmarkIsHungarian(b *testing.B) {
	tests := []struct {
		name    string
		typ     string
		colName string
	}{
		{"simple", "integer", "user_integer"},
		{"complex", "character varying", "my-varying-name"},
		{"many_tokens", "timestamp with time zone", "zone_time_created"},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				IsHungarian(tt.typ, tt.colName)
			}
		})
	}
}
