// Copyright 2026 podium Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"strconv"

	"github.com/bits-and-blooms/bitset"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Kind is the value type of a column.
type Kind int

const (
	String Kind = iota
	Float
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	default:
		return "string"
	}
}

// Column names of the athlete dataset.
const (
	ColumnSex    = "Sex"
	ColumnAge    = "Age"
	ColumnHeight = "Height"
	ColumnWeight = "Weight"
	ColumnSport  = "Sport"
	ColumnEvent  = "Event"
)

// Schema declares the kind of known columns. Undeclared columns are loaded as strings.
type Schema map[string]Kind

// AthleteSchema is the schema of athlete records.
func AthleteSchema() Schema {
	return Schema{
		ColumnSex:    String,
		ColumnAge:    Float,
		ColumnHeight: Float,
		ColumnWeight: Float,
		ColumnSport:  String,
		ColumnEvent:  String,
	}
}

// RequiredColumns must be present and non-missing for a record to be used.
func RequiredColumns() []string {
	return []string{ColumnSex, ColumnAge, ColumnHeight, ColumnWeight, ColumnSport}
}

// Record is one row keyed by column name. Missing cells are absent from the map.
type Record map[string]any

// Column stores the values of one column. Missing cells are tracked in a bitset.
type Column struct {
	Name    string
	Kind    Kind
	strings []string
	floats  []float64
	missing *bitset.BitSet
	size    int
}

func newColumn(name string, kind Kind) *Column {
	return &Column{Name: name, Kind: kind, missing: bitset.New(0)}
}

func (c *Column) appendString(s string) {
	c.strings = append(c.strings, s)
	c.size++
}

func (c *Column) appendFloat(v float64) {
	c.floats = append(c.floats, v)
	c.size++
}

func (c *Column) appendMissing() {
	c.missing.Set(uint(c.size))
	if c.Kind == Float {
		c.floats = append(c.floats, 0)
	} else {
		c.strings = append(c.strings, "")
	}
	c.size++
}

// Len returns the number of cells.
func (c *Column) Len() int {
	return c.size
}

// IsMissing reports whether the i-th cell is missing.
func (c *Column) IsMissing(i int) bool {
	return c.missing.Test(uint(i))
}

// CountMissing returns the number of missing cells.
func (c *Column) CountMissing() int {
	return int(c.missing.Count())
}

// String returns the i-th cell of a string column.
func (c *Column) String(i int) (string, bool) {
	if c.Kind != String || c.IsMissing(i) {
		return "", false
	}
	return c.strings[i], true
}

// Float returns the i-th cell of a float column.
func (c *Column) Float(i int) (float64, bool) {
	if c.Kind != Float || c.IsMissing(i) {
		return 0, false
	}
	return c.floats[i], true
}

// Value returns the i-th cell as string or float64, nil if missing.
func (c *Column) Value(i int) any {
	if c.IsMissing(i) {
		return nil
	}
	if c.Kind == Float {
		return c.floats[i]
	}
	return c.strings[i]
}

// Format renders the i-th cell for display.
func (c *Column) Format(i int) string {
	if c.IsMissing(i) {
		return "NA"
	}
	if c.Kind == Float {
		return strconv.FormatFloat(c.floats[i], 'f', -1, 64)
	}
	return c.strings[i]
}

// Strings returns the present values of a string column in row order.
func (c *Column) Strings() []string {
	if c.Kind != String {
		return nil
	}
	return lo.Filter(c.strings, func(_ string, i int) bool {
		return !c.IsMissing(i)
	})
}

// Floats returns the present values of a float column in row order.
func (c *Column) Floats() []float64 {
	if c.Kind != Float {
		return nil
	}
	return lo.Filter(c.floats, func(_ float64, i int) bool {
		return !c.IsMissing(i)
	})
}

func (c *Column) subset(indices []int) *Column {
	sub := newColumn(c.Name, c.Kind)
	for _, i := range indices {
		switch {
		case c.IsMissing(i):
			sub.appendMissing()
		case c.Kind == Float:
			sub.appendFloat(c.floats[i])
		default:
			sub.appendString(c.strings[i])
		}
	}
	return sub
}

// Table is an in-memory column store of records.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

func newTable(names []string, schema Schema) *Table {
	t := &Table{index: make(map[string]int, len(names))}
	for _, name := range names {
		kind, ok := schema[name]
		if !ok {
			kind = String
		}
		t.index[name] = len(t.columns)
		t.columns = append(t.columns, newColumn(name, kind))
	}
	return t
}

// Count returns the number of rows.
func (t *Table) Count() int {
	return t.rows
}

// Columns returns column names in header order.
func (t *Table) Columns() []string {
	return lo.Map(t.columns, func(c *Column, _ int) string {
		return c.Name
	})
}

// Column returns a column by name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.WithType(errors.Errorf("column %q not found", name), ErrSchema)
	}
	return t.columns[i], nil
}

// Row returns the i-th record.
func (t *Table) Row(i int) Record {
	record := make(Record, len(t.columns))
	for _, c := range t.columns {
		if v := c.Value(i); v != nil {
			record[c.Name] = v
		}
	}
	return record
}

// SubSet returns a new table holding the given rows in the given order.
func (t *Table) SubSet(indices []int) *Table {
	sub := &Table{index: t.index, rows: len(indices)}
	sub.columns = lo.Map(t.columns, func(c *Column, _ int) *Column {
		return c.subset(indices)
	})
	return sub
}

// Head renders the first n rows for display.
func (t *Table) Head(n int) [][]string {
	n = min(n, t.rows)
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = lo.Map(t.columns, func(c *Column, _ int) string {
			return c.Format(i)
		})
	}
	return rows
}
