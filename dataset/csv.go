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
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/podium-ml/podium/common/log"
	"go.uber.org/zap"
)

// Options controls how raw text rows are converted into a Table.
type Options struct {
	Schema     Schema
	Required   []string
	Delimiter  rune
	NullValues []string
}

// DefaultOptions returns the options for athlete records.
func DefaultOptions() Options {
	return Options{
		Schema:     AthleteSchema(),
		Required:   RequiredColumns(),
		Delimiter:  ',',
		NullValues: []string{"", "NA", "NaN"},
	}
}

// Builder converts text rows into a Table. It is shared by every data source so that
// the same schema rules apply to files and databases.
type Builder struct {
	table *Table
	nulls mapset.Set[string]
}

// NewBuilder validates the header against the required columns.
func NewBuilder(header []string, opts Options) (*Builder, error) {
	names := make([]string, len(header))
	seen := mapset.NewSet[string]()
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if seen.Contains(name) {
			return nil, errors.WithType(errors.Errorf("duplicate column %q", name), ErrSchema)
		}
		seen.Add(name)
		names[i] = name
	}
	for _, name := range opts.Required {
		if !seen.Contains(name) {
			return nil, errors.WithType(errors.Errorf("required column %q not found in header", name), ErrSchema)
		}
	}
	return &Builder{
		table: newTable(names, opts.Schema),
		nulls: mapset.NewSet(opts.NullValues...),
	}, nil
}

// Append converts one row. line is the position reported in errors.
func (b *Builder) Append(record []string, line int) error {
	if len(record) != len(b.table.columns) {
		return errors.WithType(errors.Errorf("line %d: expected %d fields, got %d",
			line, len(b.table.columns), len(record)), ErrSchema)
	}
	// parse first so that a bad row leaves the table untouched
	values := make([]any, len(record))
	for i, text := range record {
		text = strings.TrimSpace(text)
		if b.nulls.Contains(text) {
			continue
		}
		column := b.table.columns[i]
		if column.Kind == Float {
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return errors.WithType(errors.Errorf("column %q line %d: %q is not numeric",
					column.Name, line, text), ErrSchema)
			}
			values[i] = v
		} else {
			values[i] = text
		}
	}
	for i, v := range values {
		column := b.table.columns[i]
		switch v := v.(type) {
		case nil:
			column.appendMissing()
		case float64:
			column.appendFloat(v)
		case string:
			column.appendString(v)
		}
	}
	b.table.rows++
	return nil
}

// Build returns the table.
func (b *Builder) Build() *Table {
	return b.table
}

// ReadCSV parses delimited text with a header row.
func ReadCSV(r io.Reader, opts Options) (*Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.WithType(errors.New("header row not found"), ErrSchema)
	} else if err != nil {
		return nil, errors.WithType(errors.Annotate(err, "read header"), ErrIO)
	}
	builder, err := NewBuilder(header, opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, errors.WithType(errors.Annotate(err, "parse csv"), ErrSchema)
			}
			return nil, errors.WithType(errors.Annotate(err, "read csv"), ErrIO)
		}
		line, _ := reader.FieldPos(0)
		if err = builder.Append(record, line); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return builder.Build(), nil
}

// LoadCSV opens a delimited file and parses it.
func LoadCSV(path string, opts Options) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WithType(errors.Annotatef(err, "open %s", path), ErrIO)
	}
	defer file.Close()
	table, err := ReadCSV(file, opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Debug("load csv",
		zap.String("path", path),
		zap.Int("rows", table.Count()),
		zap.Strings("columns", table.Columns()))
	return table, nil
}
