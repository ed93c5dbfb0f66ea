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
	"context"

	"github.com/juju/errors"
	"github.com/podium-ml/podium/common/random"
)

// Model is the interface for all models. Any model in this
// package should implement it.
type Model interface {
	SetParams(params Params)
	GetParams() Params
	// Invalid returns true if the model has not been fitted.
	Invalid() bool
}

// Classifier predicts a class index in [0, nClasses).
type Classifier interface {
	Model
	Fit(ctx context.Context, X [][]float64, y []int, nClasses int) error
	Predict(x []float64) int
}

// Regressor predicts a scalar.
type Regressor interface {
	Model
	Fit(ctx context.Context, X [][]float64, y []float64) error
	Predict(x []float64) float64
}

// BaseModel must be included by every model. Hyper-parameters and the random generator
// are managed by the BaseModel.
type BaseModel struct {
	Params    Params           // Hyper-parameters
	rng       random.Generator // Random generator
	randState int64            // Random seed
}

// SetParams sets hyper-parameters for the BaseModel model.
func (model *BaseModel) SetParams(params Params) {
	model.Params = params
	model.randState = model.Params.GetInt64(RandomState, 0)
	model.rng = random.NewGenerator(model.randState)
}

// GetParams returns all hyper-parameters.
func (model *BaseModel) GetParams() Params {
	return model.Params
}

func checkTrainingSet(nX, nY int) error {
	if nX == 0 {
		return errors.NotValidf("empty training set")
	}
	if nX != nY {
		return errors.NotValidf("%d feature vectors with %d labels", nX, nY)
	}
	return nil
}
