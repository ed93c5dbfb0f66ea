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
	"reflect"

	"github.com/podium-ml/podium/common/log"
	"github.com/podium-ml/podium/config"
	"go.uber.org/zap"
)

// ParamName is the type of hyper-parameter names.
type ParamName string

// Predefined hyper-parameter names
const (
	NTrees          ParamName = "NTrees"          // number of trees
	MaxDepth        ParamName = "MaxDepth"        // maximum depth of a tree
	MaxBins         ParamName = "MaxBins"         // maximum number of bins per feature
	MinSamplesSplit ParamName = "MinSamplesSplit" // minimum number of samples to split a node
	MaxFeatures     ParamName = "MaxFeatures"     // number of features sampled per split
	RandomState     ParamName = "RandomState"     // random state (seed)
	Solver          ParamName = "Solver"          // linear solver
	Reg             ParamName = "Reg"             // regularization strength
	NEpochs         ParamName = "NEpochs"         // number of epochs
	Lr              ParamName = "Lr"              // learning rate
	Jobs            ParamName = "Jobs"            // number of workers
)

// Params stores hyper-parameters for a model. For example, hyper-parameters for the
// random forest are given by:
//
//	model.Params{
//		model.NTrees:   20,
//		model.MaxDepth: 5,
//		model.MaxBins:  32,
//	}
type Params map[ParamName]any

// Copy hyper-parameters.
func (parameters Params) Copy() Params {
	newParams := make(Params, len(parameters))
	for k, v := range parameters {
		newParams[k] = v
	}
	return newParams
}

// GetInt gets an integer parameter by name. Returns _default if not exists or type doesn't match.
func (parameters Params) GetInt(name ParamName, _default int) int {
	if val, exist := parameters[name]; exist {
		switch val := val.(type) {
		case int:
			return val
		case int64:
			return int(val)
		default:
			log.Logger().Error("type mismatch",
				zap.String("param", string(name)),
				zap.String("expect", "int"),
				zap.Stringer("actual", reflect.TypeOf(val)))
		}
	}
	return _default
}

// GetInt64 gets an int64 parameter by name. Returns _default if not exists or type doesn't match. The
// type will be converted if given int.
func (parameters Params) GetInt64(name ParamName, _default int64) int64 {
	if val, exist := parameters[name]; exist {
		switch val := val.(type) {
		case int64:
			return val
		case int:
			return int64(val)
		default:
			log.Logger().Error("type mismatch",
				zap.String("param", string(name)),
				zap.String("expect", "int64"),
				zap.Stringer("actual", reflect.TypeOf(val)))
		}
	}
	return _default
}

// GetFloat64 gets a float parameter by name. Returns _default if not exists or type doesn't match.
func (parameters Params) GetFloat64(name ParamName, _default float64) float64 {
	if val, exist := parameters[name]; exist {
		switch val := val.(type) {
		case float64:
			return val
		case float32:
			return float64(val)
		case int:
			return float64(val)
		default:
			log.Logger().Error("type mismatch",
				zap.String("param", string(name)),
				zap.String("expect", "float64"),
				zap.Stringer("actual", reflect.TypeOf(val)))
		}
	}
	return _default
}

// GetString gets a string parameter. Returns _default if not exists or type doesn't match.
func (parameters Params) GetString(name ParamName, _default string) string {
	if val, exist := parameters[name]; exist {
		switch val := val.(type) {
		case string:
			return val
		default:
			log.Logger().Error("type mismatch",
				zap.String("param", string(name)),
				zap.String("expect", "string"),
				zap.Stringer("actual", reflect.TypeOf(val)))
		}
	}
	return _default
}

func (parameters Params) Overwrite(params Params) Params {
	merged := parameters.Copy()
	for k, v := range params {
		merged[k] = v
	}
	return merged
}

// NewForestParams creates random forest hyper-parameters from config.
func NewForestParams(cfg *config.Config) Params {
	return Params{
		NTrees:          cfg.Forest.NTrees,
		MaxDepth:        cfg.Forest.MaxDepth,
		MaxBins:         cfg.Forest.MaxBins,
		MinSamplesSplit: cfg.Forest.MinSamplesSplit,
		MaxFeatures:     cfg.Forest.MaxFeatures,
		RandomState:     cfg.Forest.RandomState,
		Jobs:            cfg.Jobs,
	}
}

// NewLinearParams creates linear regression hyper-parameters from config.
func NewLinearParams(cfg *config.Config) Params {
	return Params{
		Solver:      cfg.Linear.Solver,
		Reg:         cfg.Linear.Reg,
		NEpochs:     cfg.Linear.NEpochs,
		Lr:          cfg.Linear.Lr,
		RandomState: cfg.Split.Seed,
	}
}
