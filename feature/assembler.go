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

package feature

import (
	"math"

	"github.com/juju/errors"
	"github.com/podium-ml/podium/dataset"
	"github.com/samber/lo"
)

// Vector is an assembled feature vector.
type Vector []float64

// Field is one slot of a feature vector. A field with an Encoding is categorical.
type Field struct {
	Name     string
	Encoding *CategoryEncoding
}

func Numeric(name string) Field {
	return Field{Name: name}
}

func Categorical(name string, encoding *CategoryEncoding) Field {
	return Field{Name: name, Encoding: encoding}
}

// AthleteFields returns {encoded-sex, age, height, weight}.
func AthleteFields(sex *CategoryEncoding) []Field {
	return []Field{
		Categorical(dataset.ColumnSex, sex),
		Numeric(dataset.ColumnAge),
		Numeric(dataset.ColumnHeight),
		Numeric(dataset.ColumnWeight),
	}
}

// Assembler concatenates fields into a vector in a fixed order.
type Assembler struct {
	fields []Field
}

func NewAssembler(fields []Field) *Assembler {
	return &Assembler{fields: fields}
}

// Fields returns field names in vector order.
func (a *Assembler) Fields() []string {
	return lo.Map(a.fields, func(f Field, _ int) string {
		return f.Name
	})
}

// Dim returns the vector length.
func (a *Assembler) Dim() int {
	return len(a.fields)
}

// Assemble builds the vector of one record.
func (a *Assembler) Assemble(values map[string]any) (Vector, error) {
	vec := make(Vector, len(a.fields))
	for i, field := range a.fields {
		value, ok := values[field.Name]
		if !ok || value == nil {
			return nil, errors.WithType(errors.Errorf("field %s is missing", field.Name), ErrMissingField)
		}
		if field.Encoding != nil {
			label, ok := value.(string)
			if !ok {
				return nil, errors.WithType(errors.Errorf("field %s: %v is not a category", field.Name, value), ErrMissingField)
			}
			index, err := field.Encoding.Apply(label)
			if err != nil {
				return nil, errors.Annotatef(err, "field %s", field.Name)
			}
			vec[i] = float64(index)
			continue
		}
		number, ok := toFloat(value)
		if !ok || math.IsNaN(number) {
			return nil, errors.WithType(errors.Errorf("field %s: %v is not a number", field.Name, value), ErrMissingField)
		}
		vec[i] = number
	}
	return vec, nil
}

// AssembleTable builds the vectors of every row.
func (a *Assembler) AssembleTable(t *dataset.Table) ([]Vector, error) {
	vectors := make([]Vector, t.Count())
	for i := range vectors {
		vec, err := a.Assemble(t.Row(i))
		if err != nil {
			return nil, errors.Annotatef(err, "row %d", i)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
