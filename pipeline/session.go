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
	"context"
	"io"
	"time"

	"github.com/juju/errors"
	"github.com/podium-ml/podium/common/log"
	"github.com/podium-ml/podium/config"
	"github.com/podium-ml/podium/dataset"
	"github.com/podium-ml/podium/feature"
	"github.com/podium-ml/podium/model"
	"github.com/podium-ml/podium/storage"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Task selects the model trained by a session.
type Task string

const (
	Classify Task = "classify"
	Regress  Task = "regress"
)

// Session is the execution context of the pipeline. Every stage runs through a session
// and is traced as a span. Close must be called when the session is no longer used.
type Session struct {
	cfg      *config.Config
	provider trace.TracerProvider
	tracer   trace.Tracer
	progress io.Writer
}

// Open validates the configuration and sets up tracing.
func Open(ctx context.Context, cfg *config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	tp, err := cfg.Tracing.NewTracerProvider()
	if err != nil {
		return nil, errors.Annotate(err, "create trace provider")
	}
	otel.SetTracerProvider(tp)
	otel.SetErrorHandler(log.GetErrorHandler())
	log.Logger().Info("open session",
		zap.String("data", log.RedactDBURL(cfg.Data.Path)),
		zap.Int("jobs", cfg.Jobs),
		zap.Bool("tracing", cfg.Tracing.EnableTracing))
	return &Session{
		cfg:      cfg,
		provider: tp,
		tracer:   tp.Tracer("podium"),
		progress: io.Discard,
	}, nil
}

// Close flushes pending spans and logs.
func (s *Session) Close() {
	if tp, ok := s.provider.(*tracesdk.TracerProvider); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Logger().Error("failed to shutdown trace provider", zap.Error(err))
		}
	}
	log.Logger().Debug("close session")
	log.Sync()
}

func (s *Session) Config() *config.Config {
	return s.cfg
}

// SetProgressWriter sets where forest fitting progress is drawn.
func (s *Session) SetProgressWriter(w io.Writer) {
	s.progress = w
}

// Options returns the parsing options of the configured data source.
func (s *Session) Options() dataset.Options {
	opts := dataset.DefaultOptions()
	opts.Delimiter = s.cfg.Data.DelimiterRune()
	opts.NullValues = s.cfg.Data.NullValues
	return opts
}

// SexPolicy returns the policy used to normalize interactive sex input.
func (s *Session) SexPolicy() feature.SexPolicy {
	return feature.SexPolicy{
		FemaleLabel: s.cfg.Sex.FemaleLabel,
		MaleLabel:   s.cfg.Sex.MaleLabel,
		Strict:      s.cfg.Sex.Strict,
	}
}

func (s *Session) start(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// LoadTable reads the configured data source.
func (s *Session) LoadTable(ctx context.Context) (t *dataset.Table, err error) {
	ctx, span := s.start(ctx, "LoadTable")
	defer func() { endSpan(span, err) }()
	start := time.Now()
	t, err = storage.LoadTable(ctx, s.cfg.Data.Path, s.cfg.Data.Table, s.Options())
	if err != nil {
		return nil, errors.Trace(err)
	}
	span.SetAttributes(attribute.Int("rows", t.Count()))
	log.Logger().Info("load table",
		zap.String("data", log.RedactDBURL(s.cfg.Data.Path)),
		zap.Int("n_rows", t.Count()),
		zap.Strings("columns", t.Columns()),
		zap.Duration("load_time", time.Since(start)))
	return t, nil
}

// Clean drops rows missing any required attribute.
func (s *Session) Clean(ctx context.Context, t *dataset.Table) (cleaned *dataset.Table, err error) {
	_, span := s.start(ctx, "Clean")
	defer func() { endSpan(span, err) }()
	cleaned, err = t.DropMissing(dataset.RequiredColumns()...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	span.SetAttributes(attribute.Int("rows", cleaned.Count()), attribute.Int("dropped", t.Count()-cleaned.Count()))
	log.Logger().Info("drop rows with missing values",
		zap.Int("n_rows", cleaned.Count()),
		zap.Int("n_dropped", t.Count()-cleaned.Count()))
	return cleaned, nil
}

// trainingSet holds the encoded splits shared by training and search.
type trainingSet struct {
	sex       *feature.CategoryEncoding
	sport     *feature.CategoryEncoding
	assembler *feature.Assembler
	train     *dataset.Table
	trainX    [][]float64
	trainY    []int
	testX     [][]float64
	testY     []int
}

func (s *Session) prepare(ctx context.Context, t *dataset.Table) (ts *trainingSet, err error) {
	ctx, span := s.start(ctx, "Prepare")
	defer func() { endSpan(span, err) }()
	cleaned, err := s.Clean(ctx, t)
	if err != nil {
		return nil, errors.Trace(err)
	}

	// encode
	unseen := feature.WithUnseen(feature.UnseenPolicy(s.cfg.Encoding.Unseen))
	policy := s.SexPolicy()
	ts = new(trainingSet)
	if ts.sex, err = feature.FitColumn(cleaned, dataset.ColumnSex, unseen, feature.WithPinned(policy.Labels()...)); err != nil {
		return nil, errors.Trace(err)
	}
	unused, err := policy.Check(ts.sex)
	if err != nil {
		return nil, errors.Annotate(err, "check sex labels")
	}
	if len(unused) > 0 {
		log.Logger().Warn("sex labels never observed", zap.Strings("labels", unused))
	}
	if ts.sport, err = feature.FitColumn(cleaned, dataset.ColumnSport, unseen); err != nil {
		return nil, errors.Trace(err)
	}
	ts.assembler = feature.NewAssembler(feature.AthleteFields(ts.sex))
	log.Logger().Info("fit encodings",
		zap.Strings("sex", ts.sex.Labels()),
		zap.Int("n_sports", ts.sport.Count()))

	// split
	train, test, err := cleaned.Split(s.cfg.Split.TrainFraction, s.cfg.Split.Seed)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ts.train = train
	if ts.trainX, ts.trainY, err = s.assemble(ts, train); err != nil {
		return nil, errors.Annotate(err, "assemble train split")
	}
	if ts.testX, ts.testY, err = s.assemble(ts, test); err != nil {
		return nil, errors.Annotate(err, "assemble test split")
	}
	span.SetAttributes(attribute.Int("n_train", len(ts.trainX)), attribute.Int("n_test", len(ts.testX)))
	log.Logger().Info("split dataset",
		zap.Int("n_train", len(ts.trainX)),
		zap.Int("n_test", len(ts.testX)))
	return ts, nil
}

func (s *Session) assemble(ts *trainingSet, t *dataset.Table) ([][]float64, []int, error) {
	vectors, err := ts.assembler.AssembleTable(t)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	labels, err := ts.sport.ApplyColumn(t, dataset.ColumnSport)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	X := lo.Map(vectors, func(v feature.Vector, _ int) []float64 {
		return v
	})
	return X, labels, nil
}

func (ts *trainingSet) artifact(task Task, policy feature.SexPolicy) *Artifact {
	return &Artifact{
		Task:      task,
		Sex:       ts.sex,
		Sport:     ts.sport,
		Assembler: ts.assembler,
		SexPolicy: policy,
	}
}

// Train cleans, encodes and splits t, then fits and evaluates the model of task.
func (s *Session) Train(ctx context.Context, t *dataset.Table, task Task) (a *Artifact, err error) {
	ctx, span := s.start(ctx, "Train")
	span.SetAttributes(attribute.String("task", string(task)))
	defer func() { endSpan(span, err) }()
	ts, err := s.prepare(ctx, t)
	if err != nil {
		return nil, errors.Trace(err)
	}

	a = ts.artifact(task, s.SexPolicy())
	switch task {
	case Classify:
		rf := model.NewRandomForest(model.NewForestParams(s.cfg))
		rf.SetProgressWriter(s.progress)
		if err = rf.Fit(ctx, ts.trainX, ts.trainY, ts.sport.Count()); err != nil {
			return nil, errors.Trace(err)
		}
		a.Classifier = rf
		a.Score = model.EvaluateClassifier(rf, ts.testX, ts.testY)
	case Regress:
		lr := model.NewLinearRegression(model.NewLinearParams(s.cfg))
		if err = lr.Fit(ctx, ts.trainX, toFloats(ts.trainY)); err != nil {
			return nil, errors.Trace(err)
		}
		a.Regressor = lr
		a.Score = model.EvaluateRegressor(lr, ts.testX, toFloats(ts.testY))
	default:
		return nil, errors.NotValidf("task %q", task)
	}
	logScore(a.Score, task)
	return a, nil
}

func logScore(score model.Score, task Task) {
	if score.Count == 0 {
		log.Logger().Warn("test split is empty, model not scored", zap.String("task", string(task)))
		return
	}
	log.Logger().Info("evaluate model", append(score.ZapFields(), zap.String("task", string(task)))...)
}

// Tune searches forest hyper-parameters on a validation split carved from the train split,
// then refits the best parameters on the whole train split and scores them on the test split.
func (s *Session) Tune(ctx context.Context, t *dataset.Table, trials int) (a *Artifact, result model.SearchResult, err error) {
	ctx, span := s.start(ctx, "Tune")
	span.SetAttributes(attribute.Int("trials", trials))
	defer func() { endSpan(span, err) }()
	ts, err := s.prepare(ctx, t)
	if err != nil {
		return nil, result, errors.Trace(err)
	}
	fit, validation, err := ts.train.Split(s.cfg.Split.TrainFraction, s.cfg.Split.Seed+1)
	if err != nil {
		return nil, result, errors.Trace(err)
	}
	fitX, fitY, err := s.assemble(ts, fit)
	if err != nil {
		return nil, result, errors.Annotate(err, "assemble fit split")
	}
	validX, validY, err := s.assemble(ts, validation)
	if err != nil {
		return nil, result, errors.Annotate(err, "assemble validation split")
	}
	log.Logger().Info("split train set for search",
		zap.Int("n_fit", len(fitX)),
		zap.Int("n_validation", len(validX)))
	search := model.NewForestSearch(ctx, model.NewForestParams(s.cfg),
		fitX, fitY, validX, validY, ts.sport.Count())
	if err = search.Optimize(trials, s.cfg.Split.Seed); err != nil {
		return nil, result, errors.Trace(err)
	}
	result = search.Result()
	if result.Model == nil {
		return nil, result, errors.NotFoundf("forest in %d trials", trials)
	}

	// refit
	rf := model.NewRandomForest(result.Params)
	rf.SetProgressWriter(s.progress)
	if err = rf.Fit(ctx, ts.trainX, ts.trainY, ts.sport.Count()); err != nil {
		return nil, result, errors.Trace(err)
	}
	a = ts.artifact(Classify, s.SexPolicy())
	a.Classifier = rf
	a.Score = model.EvaluateClassifier(rf, ts.testX, ts.testY)
	logScore(a.Score, Classify)
	return a, result, nil
}

func toFloats(labels []int) []float64 {
	return lo.Map(labels, func(label int, _ int) float64 {
		return float64(label)
	})
}
