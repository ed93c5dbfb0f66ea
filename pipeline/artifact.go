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

package pipeline

import (
	"math"

	"github.com/juju/errors"
	"github.com/podium-ml/podium/common/log"
	"github.com/podium-ml/podium/dataset"
	"github.com/podium-ml/podium/feature"
	"github.com/podium-ml/podium/model"
	"go.uber.org/zap"
)

// Artifact bundles everything produced by training. Predictions decode through the same
// Sport encoding the model was trained on. An Artifact is not modified after training.
type Artifact struct {
	Task       Task
	Sex        *feature.CategoryEncoding
	Sport      *feature.CategoryEncoding
	Assembler  *feature.Assembler
	SexPolicy  feature.SexPolicy
	Classifier model.Classifier
	Regressor  model.Regressor
	Score      model.Score
}

// Input is one athlete entered for prediction.
type Input struct {
	Sex    string
	Age    float64
	Height float64
	Weight float64
}

// Prediction is the decoded sport. Value is the raw regression output, or the class index
// for classification.
type Prediction struct {
	Label string
	Index int
	Value float64
}

// Predict predicts the sport of one athlete.
func (a *Artifact) Predict(in Input) (Prediction, error) {
	sex, fallback, err := a.SexPolicy.Normalize(in.Sex)
	if err != nil {
		return Prediction{}, errors.Trace(err)
	}
	if fallback {
		log.Logger().Warn("unrecognized sex, use male label",
			zap.String("sex", in.Sex),
			zap.String("label", sex))
	}
	x, err := a.Assembler.Assemble(map[string]any{
		dataset.ColumnSex:    sex,
		dataset.ColumnAge:    in.Age,
		dataset.ColumnHeight: in.Height,
		dataset.ColumnWeight: in.Weight,
	})
	if err != nil {
		return Prediction{}, errors.Trace(err)
	}

	var prediction Prediction
	switch a.Task {
	case Classify:
		prediction.Index = a.Classifier.Predict(x)
		prediction.Value = float64(prediction.Index)
	case Regress:
		prediction.Value = a.Regressor.Predict(x)
		if math.IsNaN(prediction.Value) || math.IsInf(prediction.Value, 0) {
			return Prediction{}, errors.WithType(errors.Errorf("regression output %v", prediction.Value), feature.ErrIndexOutOfRange)
		}
		prediction.Index = int(math.Round(prediction.Value))
	default:
		return Prediction{}, errors.NotValidf("task %q", a.Task)
	}
	if prediction.Label, err = a.Sport.Reverse(prediction.Index); err != nil {
		return Prediction{}, errors.Annotatef(err, "decode prediction %v", prediction.Value)
	}
	return prediction, nil
}
