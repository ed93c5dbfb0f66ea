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
	"math/rand"

	mapset "github.com/deckarep/golang-set/v2"
)

// Generator is a seeded random generator. It is not safe for concurrent use; parallel
// workers derive their own generator from a per-job seed.
type Generator struct {
	*rand.Rand
}

// NewGenerator creates a Generator.
func NewGenerator(seed int64) Generator {
	return Generator{rand.New(rand.NewSource(seed))}
}

// UniformDraws returns n independent draws in [0, 1). The i-th draw only depends on the seed
// and on i.
func (rng Generator) UniformDraws(n int) []float64 {
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = rng.Float64()
	}
	return ret
}

// Bootstrap draws n indices in [0, n) with replacement.
func (rng Generator) Bootstrap(n int) []int {
	ret := make([]int, n)
	for i := range ret {
		ret[i] = rng.Intn(n)
	}
	return ret
}

// NormalVector64 makes a vec filled with normal random floats.
func (rng Generator) NormalVector64(size int, mean, stdDev float64) []float64 {
	ret := make([]float64, size)
	for i := 0; i < len(ret); i++ {
		ret[i] = rng.NormFloat64()*stdDev + mean
	}
	return ret
}

// Sample n values between low and high, but not in exclude.
func (rng Generator) Sample(low, high, n int, exclude ...mapset.Set[int]) []int {
	intervalLength := high - low
	excludeSet := mapset.NewSet[int]()
	for _, set := range exclude {
		excludeSet = excludeSet.Union(set)
	}
	sampled := make([]int, 0, n)
	if n >= intervalLength-excludeSet.Cardinality() {
		for i := low; i < high; i++ {
			if !excludeSet.Contains(i) {
				sampled = append(sampled, i)
				excludeSet.Add(i)
			}
		}
	} else {
		for len(sampled) < n {
			v := rng.Intn(intervalLength) + low
			if !excludeSet.Contains(v) {
				sampled = append(sampled, v)
				excludeSet.Add(v)
			}
		}
	}
	return sampled
}
