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
	"io"
	"time"

	"github.com/juju/errors"
	"github.com/podium-ml/podium/common/log"
	"github.com/podium-ml/podium/common/parallel"
	"github.com/podium-ml/podium/common/random"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// RandomForest is a bagged ensemble of CART classifiers. Tree i is grown on a bootstrap
// sample drawn from a generator seeded with RandomState+i, so the fitted forest only
// depends on the data and the hyper-parameters.
type RandomForest struct {
	BaseModel
	trees    []*decisionTree
	nClasses int
	progress io.Writer
	// hyper-parameters
	nTrees          int
	maxDepth        int
	maxBins         int
	minSamplesSplit int
	maxFeatures     int
	jobs            int
}

// NewRandomForest creates a random forest classifier.
func NewRandomForest(params Params) *RandomForest {
	rf := &RandomForest{progress: io.Discard}
	rf.SetParams(params)
	return rf
}

func (rf *RandomForest) SetParams(params Params) {
	rf.BaseModel.SetParams(params)
	rf.nTrees = rf.Params.GetInt(NTrees, 20)
	rf.maxDepth = rf.Params.GetInt(MaxDepth, 5)
	rf.maxBins = rf.Params.GetInt(MaxBins, 32)
	rf.minSamplesSplit = rf.Params.GetInt(MinSamplesSplit, 2)
	rf.maxFeatures = rf.Params.GetInt(MaxFeatures, 0)
	rf.jobs = rf.Params.GetInt(Jobs, 1)
}

// SetProgressWriter sets where the fitting progress bar is rendered.
func (rf *RandomForest) SetProgressWriter(w io.Writer) {
	rf.progress = w
}

func (rf *RandomForest) Invalid() bool {
	return rf == nil || len(rf.trees) == 0
}

// NumTrees returns the number of fitted trees.
func (rf *RandomForest) NumTrees() int {
	return len(rf.trees)
}

// Fit grows the trees in parallel.
func (rf *RandomForest) Fit(ctx context.Context, X [][]float64, y []int, nClasses int) error {
	if err := checkTrainingSet(len(X), len(y)); err != nil {
		return errors.Trace(err)
	}
	for i, label := range y {
		if label < 0 || label >= nClasses {
			return errors.NotValidf("label %d of row %d in %d classes", label, i, nClasses)
		}
	}
	if rf.nTrees <= 0 || rf.maxDepth <= 0 || rf.maxBins < 2 {
		return errors.NotValidf("forest params %v", rf.Params)
	}
	maxFeatures := rf.maxFeatures
	if maxFeatures <= 0 {
		maxFeatures = defaultMaxFeatures(len(X[0]))
	}

	log.Logger().Info("fit random forest",
		zap.Int("n_samples", len(X)),
		zap.Int("n_features", len(X[0])),
		zap.Int("n_classes", nClasses),
		zap.Int("n_trees", rf.nTrees),
		zap.Int("max_depth", rf.maxDepth),
		zap.Int("max_bins", rf.maxBins),
		zap.Int("max_features", maxFeatures))
	start := time.Now()
	thresholds := binThresholds(X, rf.maxBins)
	bar := progressbar.NewOptions(rf.nTrees,
		progressbar.OptionSetWriter(rf.progress),
		progressbar.OptionSetDescription("fit random forest"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish())
	trees := make([]*decisionTree, rf.nTrees)
	err := parallel.Parallel(ctx, rf.nTrees, rf.jobs, func(_, treeId int) error {
		rng := random.NewGenerator(rf.randState + int64(treeId))
		tree := &decisionTree{
			maxDepth:        rf.maxDepth,
			minSamplesSplit: rf.minSamplesSplit,
			maxFeatures:     maxFeatures,
			nClasses:        nClasses,
		}
		tree.fit(X, y, rng.Bootstrap(len(X)), thresholds, rng)
		trees[treeId] = tree
		return errors.Trace(bar.Add(1))
	})
	if err != nil {
		return errors.Trace(err)
	}
	_ = bar.Finish()
	rf.trees = trees
	rf.nClasses = nClasses
	log.Logger().Info("complete fitting random forest",
		zap.Duration("fit_time", time.Since(start)))
	return nil
}

// Predict returns the majority vote of the trees. Ties go to the lowest class index.
func (rf *RandomForest) Predict(x []float64) int {
	votes := make([]int, rf.nClasses)
	for _, tree := range rf.trees {
		votes[tree.predict(x)]++
	}
	return argmax(votes)
}
