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
	"math"
	"time"

	"github.com/juju/errors"
	"github.com/podium-ml/podium/common/log"
	"github.com/podium-ml/podium/config"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// minReg keeps the normal equations solvable when a feature is constant.
const minReg = 1e-8

// LinearRegression fits y = w·x + b by least squares with an L2 penalty on w.
type LinearRegression struct {
	BaseModel
	Weights []float64
	Bias    float64
	// hyper-parameters
	solver  string
	reg     float64
	nEpochs int
	lr      float64
}

// NewLinearRegression creates a linear regression.
func NewLinearRegression(params Params) *LinearRegression {
	lr := new(LinearRegression)
	lr.SetParams(params)
	return lr
}

func (lr *LinearRegression) SetParams(params Params) {
	lr.BaseModel.SetParams(params)
	lr.solver = lr.Params.GetString(Solver, config.SolverNormal)
	lr.reg = lr.Params.GetFloat64(Reg, 0)
	lr.nEpochs = lr.Params.GetInt(NEpochs, 10)
	lr.lr = lr.Params.GetFloat64(Lr, 0.1)
}

func (lr *LinearRegression) Invalid() bool {
	return lr == nil || lr.Weights == nil
}

func (lr *LinearRegression) Fit(ctx context.Context, X [][]float64, y []float64) error {
	if err := checkTrainingSet(len(X), len(y)); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("fit linear regression",
		zap.String("solver", lr.solver),
		zap.Int("n_samples", len(X)),
		zap.Int("n_features", len(X[0])),
		zap.Float64("reg", lr.reg))
	start := time.Now()
	var err error
	switch lr.solver {
	case config.SolverNormal:
		err = lr.fitNormal(X, y)
	case config.SolverGD:
		err = lr.fitGD(ctx, X, y)
	default:
		err = errors.NotValidf("solver %q", lr.solver)
	}
	if err != nil {
		lr.Weights = nil
		return errors.Trace(err)
	}
	log.Logger().Info("complete fitting linear regression",
		zap.Float64s("weights", lr.Weights),
		zap.Float64("bias", lr.Bias),
		zap.Duration("fit_time", time.Since(start)))
	return nil
}

// fitNormal solves the penalized least squares problem by QR on the augmented system
//
//	[ X  1 ] [w]   [y]
//	[ √λI 0 ] [b] = [0]
func (lr *LinearRegression) fitNormal(X [][]float64, y []float64) error {
	n, p := len(X), len(X[0])
	a := mat.NewDense(n+p, p+1, nil)
	b := mat.NewVecDense(n+p, nil)
	for i, row := range X {
		for j, v := range row {
			a.Set(i, j, v)
		}
		a.Set(i, p, 1)
		b.SetVec(i, y[i])
	}
	penalty := math.Sqrt(max(lr.reg, minReg))
	for j := 0; j < p; j++ {
		a.Set(n+j, j, penalty)
	}
	var w mat.VecDense
	if err := w.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return errors.Trace(err)
		}
		log.Logger().Warn("ill-conditioned least squares", zap.Float64("condition", float64(cond)))
	}
	lr.Weights = make([]float64, p)
	for j := range lr.Weights {
		lr.Weights[j] = w.AtVec(j)
	}
	lr.Bias = w.AtVec(p)
	return nil
}

// fitGD runs full-batch gradient descent on standardized features.
func (lr *LinearRegression) fitGD(ctx context.Context, X [][]float64, y []float64) error {
	n, p := len(X), len(X[0])
	means := make([]float64, p)
	stds := make([]float64, p)
	column := make([]float64, n)
	for j := 0; j < p; j++ {
		for i := range X {
			column[i] = X[i][j]
		}
		means[j], stds[j] = stat.PopMeanStdDev(column, nil)
		if stds[j] == 0 {
			stds[j] = 1
		}
	}
	z := make([][]float64, n)
	for i, row := range X {
		z[i] = make([]float64, p)
		for j, v := range row {
			z[i][j] = (v - means[j]) / stds[j]
		}
	}

	w := lr.rng.NormalVector64(p, 0, 0.01)
	bias := stat.Mean(y, nil)
	gradW := make([]float64, p)
	for epoch := 1; epoch <= lr.nEpochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return errors.Trace(err)
		}
		clear(gradW)
		gradB, loss := 0.0, 0.0
		for i, row := range z {
			residual := floats.Dot(w, row) + bias - y[i]
			floats.AddScaled(gradW, residual, row)
			gradB += residual
			loss += residual * residual
		}
		floats.Scale(2/float64(n), gradW)
		floats.AddScaled(gradW, 2*lr.reg, w)
		floats.AddScaled(w, -lr.lr, gradW)
		bias -= lr.lr * 2 * gradB / float64(n)
		log.Logger().Debug("fit linear regression",
			zap.Int("epoch", epoch),
			zap.Float64("mse", loss/float64(n)))
	}

	// map back to the original feature scale
	lr.Weights = make([]float64, p)
	lr.Bias = bias
	for j := range w {
		lr.Weights[j] = w[j] / stds[j]
		lr.Bias -= w[j] * means[j] / stds[j]
	}
	return nil
}

func (lr *LinearRegression) Predict(x []float64) float64 {
	return floats.Dot(lr.Weights, x) + lr.Bias
}
