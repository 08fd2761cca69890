// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters provides filtering capabilities for query result datasets.
//
// The package parses filter expressions to select subsets of rows based on
// attribute values. Filters are specified as key-operator-target expressions and
// can be combined using a configurable delimiter (default: comma).
//
// Operators include:
//
//   - = : exact match (supports negation with !=)
//   - ^ : prefix match (supports negation with !^)
//   - ~ : regex match (supports negation with !~)
//   - < : less than (numeric comparison)
//   - > : greater than (numeric comparison)
//   - @ : contains substring (supports negation with !@)
//   - / : JSON path match (supports negation with !/)
//
// Examples:
//
//   - "table=users" : matches rows where table equals "users"
//   - "type^character" : matches rows where type starts with "character"
//   - "column~_id$" : matches rows where column matches the regex "_id$"
//   - "columns>5" : matches rows where columns is greater than 5
//   - "table!@tmp" : matches rows where table does not contain "tmp"
//
// Filter Keys and Attributes:
//
// Filter keys are matched against the OutputKey of attributes (see attrs package).
// Keys prefixed with underscore (_) are reserved and silently ignored by this
// package.
//
// Filter Parsing:
//
// The BuildFilters function parses a comma-delimited (or custom-delimited) filter
// specification string. Invalid specifications (unsupported operands or malformed
// expressions) are logged as warnings and skipped, allowing partial filter sets
// to be processed.
//
// Filter Application:
//
// The Apply function filters a list of candidate rows, keeping only those
// that match all provided filter expressions. Attributes specified in the attrs
// parameter are used to determine which fields from the row are included
// in the filtered result.
package filters
