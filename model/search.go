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
	"sync"
	"time"

	"github.com/c-bata/goptuna"
	"github.com/c-bata/goptuna/tpe"
	"github.com/juju/errors"
	"github.com/podium-ml/podium/common/log"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// SearchResult is the best forest found by a search. Score is measured on the validation set
// used to select it.
type SearchResult struct {
	Params Params
	Score  Score
	Model  *RandomForest
	Trials int
}

// ForestSearch searches the number of trees, the depth and the number of bins of a
// random forest. Each trial fits on the train set and scores on the validation set.
type ForestSearch struct {
	ctx      context.Context
	params   Params
	trainX   [][]float64
	trainY   []int
	validX   [][]float64
	validY   []int
	nClasses int

	mu     sync.Mutex
	result SearchResult
}

// NewForestSearch creates a search. params holds the hyper-parameters not searched.
func NewForestSearch(ctx context.Context, params Params, trainX [][]float64, trainY []int,
	validX [][]float64, validY []int, nClasses int) *ForestSearch {
	return &ForestSearch{
		ctx:      ctx,
		params:   params,
		trainX:   trainX,
		trainY:   trainY,
		validX:   validX,
		validY:   validY,
		nClasses: nClasses,
	}
}

// SuggestParams draws forest hyper-parameters from a trial.
func SuggestParams(trial goptuna.Trial) Params {
	return Params{
		NTrees:   lo.Must(trial.SuggestStepInt(string(NTrees), 10, 100, 10)),
		MaxDepth: lo.Must(trial.SuggestInt(string(MaxDepth), 2, 12)),
		MaxBins:  lo.Must(trial.SuggestStepInt(string(MaxBins), 8, 64, 8)),
	}
}

func (s *ForestSearch) Objective(trial goptuna.Trial) (float64, error) {
	params := s.params.Overwrite(SuggestParams(trial))
	m := NewRandomForest(params)
	if err := m.Fit(s.ctx, s.trainX, s.trainY, s.nClasses); err != nil {
		return 0, errors.Trace(err)
	}
	score := EvaluateClassifier(m, s.validX, s.validY)
	log.Logger().Info("forest search trial", append(score.ZapFields(), zap.Any("params", params))...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.result.Trials++
	if s.result.Model == nil || score.BetterThan(s.result.Score) {
		s.result.Params = params
		s.result.Score = score
		s.result.Model = m
	}
	return score.Accuracy, nil
}

// Optimize runs nTrials trials with the TPE sampler.
func (s *ForestSearch) Optimize(nTrials int, seed int64) error {
	start := time.Now()
	study, err := goptuna.CreateStudy("forest",
		goptuna.StudyOptionDirection(goptuna.StudyDirectionMaximize),
		goptuna.StudyOptionSampler(tpe.NewSampler(tpe.SamplerOptionSeed(seed))),
		goptuna.StudyOptionLogger(studyLogger{log.Logger().Sugar()}))
	if err != nil {
		return errors.Trace(err)
	}
	if err = study.Optimize(s.Objective, nTrials); err != nil {
		return errors.Trace(err)
	}
	result := s.Result()
	log.Logger().Info("complete forest search",
		append(result.Score.ZapFields(),
			zap.Any("params", result.Params),
			zap.Duration("search_time", time.Since(start)))...)
	return nil
}

func (s *ForestSearch) Result() SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// studyLogger forwards study events to zap.
type studyLogger struct {
	sugar *zap.SugaredLogger
}

func (l studyLogger) Debug(msg string, fields ...interface{}) {
	l.sugar.Debugw(msg, fields...)
}

func (l studyLogger) Info(msg string, fields ...interface{}) {
	l.sugar.Debugw(msg, fields...)
}

func (l studyLogger) Warn(msg string, fields ...interface{}) {
	l.sugar.Warnw(msg, fields...)
}

func (l studyLogger) Error(msg string, fields ...interface{}) {
	l.sugar.Errorw(msg, fields...)
}
