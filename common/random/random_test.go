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

package random

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

const randomEpsilon = 0.1

func TestUniformDraws(t *testing.T) {
	a := NewGenerator(42).UniformDraws(1000)
	b := NewGenerator(42).UniformDraws(1000)
	assert.Equal(t, a, b)
	for _, v := range a {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
	assert.InDelta(t, 0.5, stat.Mean(a, nil), randomEpsilon)
	// prefix stability
	assert.Equal(t, a[:10], NewGenerator(42).UniformDraws(10))
}

func TestBootstrap(t *testing.T) {
	indices := NewGenerator(0).Bootstrap(100)
	assert.Len(t, indices, 100)
	for _, i := range indices {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 100)
	}
	// sampling with replacement almost surely repeats
	assert.Less(t, len(lo.Uniq(indices)), 100)
}

func TestNormalVector64(t *testing.T) {
	vec := NewGenerator(0).NormalVector64(1000, 1, 2)
	assert.InDelta(t, 1, stat.Mean(vec, nil), randomEpsilon)
	assert.InDelta(t, 2, stat.StdDev(vec, nil), randomEpsilon)
}

func TestSample(t *testing.T) {
	rng := NewGenerator(0)
	excludeSet := mapset.NewSet(0, 1, 2, 3, 4)
	sampled := rng.Sample(0, 10, 5, excludeSet)
	for i := range sampled {
		assert.False(t, excludeSet.Contains(sampled[i]))
	}
	assert.ElementsMatch(t, []int{5, 6, 7, 8, 9}, sampled)
	assert.Len(t, lo.Uniq(rng.Sample(0, 10, 3)), 3)
}
