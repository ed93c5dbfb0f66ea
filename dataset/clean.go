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
	"github.com/bits-and-blooms/bitset"
	"github.com/juju/errors"
	"github.com/podium-ml/podium/common/random"
)

// DropMissing keeps rows whose required columns are all present. Rows keep their
// relative order and the column set is unchanged.
func (t *Table) DropMissing(required ...string) (*Table, error) {
	dropped := bitset.New(uint(t.rows))
	for _, name := range required {
		column, err := t.Column(name)
		if err != nil {
			return nil, errors.Trace(err)
		}
		dropped.InPlaceUnion(column.missing)
	}
	indices := make([]int, 0, t.rows-int(dropped.Count()))
	for i := 0; i < t.rows; i++ {
		if !dropped.Test(uint(i)) {
			indices = append(indices, i)
		}
	}
	return t.SubSet(indices), nil
}

// CountMissing returns the number of missing cells per column.
func (t *Table) CountMissing() map[string]int {
	counts := make(map[string]int, len(t.columns))
	for _, column := range t.columns {
		counts[column.Name] = column.CountMissing()
	}
	return counts
}

// Split partitions rows into train and test. Each row receives one uniform draw in [0, 1),
// drawn in row order from a generator seeded with seed, and goes to train iff the draw is
// less than fraction.
func (t *Table) Split(fraction float64, seed int64) (train, test *Table, err error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, errors.NotValidf("train fraction %v", fraction)
	}
	draws := random.NewGenerator(seed).UniformDraws(t.rows)
	var trainIndices, testIndices []int
	for i, draw := range draws {
		if draw < fraction {
			trainIndices = append(trainIndices, i)
		} else {
			testIndices = append(testIndices, i)
		}
	}
	return t.SubSet(trainIndices), t.SubSet(testIndices), nil
}
