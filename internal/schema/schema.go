// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
)

// Column describes one column of a table. Nullable carries the display form
// of is_nullable (the string content, or the bare literal spelling for
// non-strings), while NullableRaw carries the exact serialized token so that
// comparison and re-serialization never coerce the stored representation.
type Column struct {
	Name        string
	DataType    string
	Nullable    string
	NullableRaw string
}

// NewColumn builds a Column whose is_nullable representation is the plain
// string value, the form live extraction produces ("YES"/"NO").
func NewColumn(name, dataType, nullable string) Column {
	raw, _ := json.Marshal(nullable)
	return Column{
		Name:        name,
		DataType:    dataType,
		Nullable:    nullable,
		NullableRaw: string(raw),
	}
}

// SameDefinition reports whether two columns declare the identical data type
// and the identical serialized nullability.
func (c Column) SameDefinition(o Column) bool {
	return c.DataType == o.DataType && c.NullableRaw == o.NullableRaw
}

// MarshalJSON writes the wire descriptor, re-emitting is_nullable with its
// original serialized token.
func (c Column) MarshalJSON() ([]byte, error) {
	name, err := json.Marshal(c.Name)
	if err != nil {
		return nil, err
	}
	dataType, err := json.Marshal(c.DataType)
	if err != nil {
		return nil, err
	}

	raw := c.NullableRaw
	if raw == "" {
		raw, _ = toRaw(c.Nullable)
	}

	var buf bytes.Buffer
	buf.WriteString(`{"column_name":`)
	buf.Write(name)
	buf.WriteString(`,"data_type":`)
	buf.Write(dataType)
	buf.WriteString(`,"is_nullable":`)
	buf.WriteString(raw)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// toRaw renders a display-form nullability back into a JSON token.
func toRaw(display string) (string, error) {
	b, err := json.Marshal(display)
	return string(b), err
}

// Snapshot is the captured structural metadata of one database: an ordered
// mapping from table name to that table's column descriptors. Immutable once
// loaded; mutation is limited to Add during construction.
type Snapshot struct {
	names  []string
	tables map[string][]Column
}

// NewSnapshot returns an empty snapshot ready for Add.
func NewSnapshot() *Snapshot {
	return &Snapshot{tables: make(map[string][]Column)}
}

// Add records a table and its columns. Re-adding a table replaces its
// columns without duplicating the name.
func (s *Snapshot) Add(table string, cols []Column) {
	if _, ok := s.tables[table]; !ok {
		s.names = append(s.names, table)
	}
	s.tables[table] = cols
}

// Tables returns all table names in ascending lexical order.
func (s *Snapshot) Tables() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	sort.Strings(out)
	return out
}

// Columns returns the column descriptors of a table in document order.
func (s *Snapshot) Columns(table string) ([]Column, bool) {
	cols, ok := s.tables[table]
	return cols, ok
}

// Len returns the number of tables.
func (s *Snapshot) Len() int {
	return len(s.names)
}

// MarshalJSON serializes the snapshot with tables in ascending name order so
// captures of the same database are byte-reproducible.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.Tables() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		cols, err := json.Marshal(s.tables[name])
		if err != nil {
			return nil, err
		}
		buf.Write(cols)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Parse validates and loads a snapshot document. Shape problems (not JSON,
// not an object of tables, a table that is not a descriptor list) surface as
// plain errors for the loader to classify; a descriptor missing a required
// field surfaces as *MalformedMetadataError.
func Parse(data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("document is not valid JSON")
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, errors.New("document is not an object of tables")
	}

	snap := NewSnapshot()
	var parseErr error
	doc.ForEach(func(key, value gjson.Result) bool {
		table := key.String()
		if !value.IsArray() {
			parseErr = fmt.Errorf("table %q is not a list of column descriptors", table)
			return false
		}

		items := value.Array()
		cols := make([]Column, 0, len(items))
		for _, item := range items {
			if !item.IsObject() {
				parseErr = fmt.Errorf("table %q contains a non-object column descriptor", table)
				return false
			}
			col, err := parseColumn(table, item)
			if err != nil {
				parseErr = err
				return false
			}
			cols = append(cols, col)
		}

		snap.Add(table, cols)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return snap, nil
}

// parseColumn extracts one descriptor, preserving the is_nullable token
// exactly as serialized. A present-but-null is_nullable is legal; a missing
// key, or a non-string column_name/data_type, is malformed.
func parseColumn(table string, item gjson.Result) (Column, error) {
	name := item.Get("column_name")
	if !name.Exists() || name.Type != gjson.String {
		return Column{}, &MalformedMetadataError{Table: table, Field: "column_name"}
	}

	dataType := item.Get("data_type")
	if !dataType.Exists() || dataType.Type != gjson.String {
		return Column{}, &MalformedMetadataError{Table: table, Column: name.String(), Field: "data_type"}
	}

	nullable := item.Get("is_nullable")
	if !nullable.Exists() {
		return Column{}, &MalformedMetadataError{Table: table, Column: name.String(), Field: "is_nullable"}
	}

	display := nullable.String()
	if nullable.Type != gjson.String {
		// Bare literals keep their JSON spelling (true/false/null/1).
		display = nullable.Raw
	}

	return Column{
		Name:        name.String(),
		DataType:    dataType.String(),
		Nullable:    display,
		NullableRaw: nullable.Raw,
	}, nil
}
