// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package schema holds the snapshot data model: the tables and column
// descriptors captured from one database, the JSON (de)serialization with
// shape validation, and the optional at-rest encryption envelope.
//
// A snapshot document is a JSON object mapping table names to lists of
// column descriptors:
//
//	{
//	  "users": [
//	    {"column_name": "id", "data_type": "integer", "is_nullable": "NO"},
//	    {"column_name": "email", "data_type": "text", "is_nullable": "YES"}
//	  ]
//	}
//
// The is_nullable field may be serialized as a string or a bare JSON
// literal; whichever representation a document stores is preserved and
// compared exactly, never coerced.
package schema
