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
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the present values of a numeric column.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
}

// Describe summarizes every numeric column in header order.
func (t *Table) Describe() []Summary {
	var summaries []Summary
	for _, column := range t.columns {
		if column.Kind != Float {
			continue
		}
		summary := Summary{Column: column.Name}
		values := column.Floats()
		summary.Count = len(values)
		switch len(values) {
		case 0:
			summary.Mean, summary.Std = math.NaN(), math.NaN()
			summary.Min, summary.Max = math.NaN(), math.NaN()
		case 1:
			summary.Mean, summary.Std = values[0], math.NaN()
			summary.Min, summary.Max = values[0], values[0]
		default:
			summary.Mean, summary.Std = stat.MeanStdDev(values, nil)
			summary.Min, summary.Max = floats.Min(values), floats.Max(values)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
