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

package model

import (
	"testing"

	"github.com/podium-ml/podium/config"
	"github.com/stretchr/testify/assert"
)

func TestParams_Copy(t *testing.T) {
	// Create parameters
	a := Params{
		NTrees:      1,
		Lr:          0.1,
		RandomState: 0,
	}
	// Create copy
	b := a.Copy()
	b[NTrees] = 2
	b[Lr] = 0.2
	b[RandomState] = 1
	// Check original parameters
	assert.Equal(t, 1, a.GetInt(NTrees, -1))
	assert.Equal(t, 0.1, a.GetFloat64(Lr, -0.1))
	assert.Equal(t, int64(0), a.GetInt64(RandomState, -1))
	// Check copy parameters
	assert.Equal(t, 2, b.GetInt(NTrees, -1))
	assert.Equal(t, 0.2, b.GetFloat64(Lr, -0.1))
	assert.Equal(t, int64(1), b.GetInt64(RandomState, -1))
}

func TestParams_GetFloat64(t *testing.T) {
	p := Params{}
	// Empty case
	assert.Equal(t, 0.1, p.GetFloat64(Lr, 0.1))
	// Normal case
	p[Lr] = 1.0
	assert.Equal(t, 1.0, p.GetFloat64(Lr, 0.1))
	// Wrong type case
	p[Lr] = 1
	assert.Equal(t, 1.0, p.GetFloat64(Lr, 0.1))
	p[Lr] = "hello"
	assert.Equal(t, 0.1, p.GetFloat64(Lr, 0.1))
}

func TestParams_GetInt(t *testing.T) {
	p := Params{}
	assert.Equal(t, -1, p.GetInt(MaxDepth, -1))
	p[MaxDepth] = 0
	assert.Equal(t, 0, p.GetInt(MaxDepth, -1))
	p[MaxDepth] = "hello"
	assert.Equal(t, -1, p.GetInt(MaxDepth, -1))
}

func TestParams_GetInt64(t *testing.T) {
	p := Params{}
	assert.Equal(t, int64(-1), p.GetInt64(RandomState, -1))
	p[RandomState] = int64(0)
	assert.Equal(t, int64(0), p.GetInt64(RandomState, -1))
	// Wrong type case
	p[RandomState] = 0
	assert.Equal(t, int64(0), p.GetInt64(RandomState, -1))
	p[RandomState] = "hello"
	assert.Equal(t, int64(-1), p.GetInt64(RandomState, -1))
}

func TestParams_GetString(t *testing.T) {
	p := Params{Solver: config.SolverGD}
	assert.Equal(t, config.SolverGD, p.GetString(Solver, config.SolverNormal))
	p[Solver] = 1
	assert.Equal(t, config.SolverNormal, p.GetString(Solver, config.SolverNormal))
}

func TestParams_Overwrite(t *testing.T) {
	a := Params{NTrees: 20, MaxDepth: 5}
	b := a.Overwrite(Params{MaxDepth: 8, MaxBins: 16})
	assert.Equal(t, Params{NTrees: 20, MaxDepth: 8, MaxBins: 16}, b)
	assert.Equal(t, Params{NTrees: 20, MaxDepth: 5}, a)
}

func TestNewParamsFromConfig(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Jobs = 4
	assert.Equal(t, Params{
		NTrees:          20,
		MaxDepth:        5,
		MaxBins:         32,
		MinSamplesSplit: 2,
		MaxFeatures:     0,
		RandomState:     int64(42),
		Jobs:            4,
	}, NewForestParams(cfg))
	assert.Equal(t, Params{
		Solver:      config.SolverNormal,
		Reg:         0.0,
		NEpochs:     10,
		Lr:          0.1,
		RandomState: int64(42),
	}, NewLinearParams(cfg))
}
