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
	"math"

	"go.uber.org/zap"
)

// Score is the evaluation result on a held-out set. Accuracy is set for classifiers,
// RMSE for regressors.
type Score struct {
	Accuracy float64
	RMSE     float64
	Count    int
}

func (score Score) ZapFields() []zap.Field {
	return []zap.Field{
		zap.Float64("accuracy", score.Accuracy),
		zap.Float64("rmse", score.RMSE),
		zap.Int("n_test", score.Count),
	}
}

// BetterThan compares classification scores.
func (score Score) BetterThan(s Score) bool {
	return score.Accuracy > s.Accuracy
}

// EvaluateClassifier returns the fraction of exact label matches.
func EvaluateClassifier(c Classifier, X [][]float64, y []int) Score {
	if len(X) == 0 {
		return Score{}
	}
	hit := 0
	for i, x := range X {
		if c.Predict(x) == y[i] {
			hit++
		}
	}
	return Score{Accuracy: float64(hit) / float64(len(X)), Count: len(X)}
}

// EvaluateRegressor returns the root mean squared residual.
func EvaluateRegressor(r Regressor, X [][]float64, y []float64) Score {
	if len(X) == 0 {
		return Score{}
	}
	sum := 0.0
	for i, x := range X {
		d := r.Predict(x) - y[i]
		sum += d * d
	}
	return Score{RMSE: math.Sqrt(sum / float64(len(X))), Count: len(X)}
}
