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

package config

import (
	"context"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/juju/errors"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	SolverNormal = "normal"
	SolverGD     = "gd"

	UnseenError    = "error"
	UnseenReserved = "reserved"
)

// Config is the configuration of podium.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Sex      SexConfig      `mapstructure:"sex"`
	Split    SplitConfig    `mapstructure:"split"`
	Forest   ForestConfig   `mapstructure:"forest"`
	Linear   LinearConfig   `mapstructure:"linear"`
	Encoding EncodingConfig `mapstructure:"encoding"`
	Tune     TuneConfig     `mapstructure:"tune"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Jobs     int            `mapstructure:"jobs" validate:"gte=1"`
}

// DataConfig is the configuration of the data source.
type DataConfig struct {
	Path       string   `mapstructure:"path" validate:"required"`
	Table      string   `mapstructure:"table"`
	Delimiter  string   `mapstructure:"delimiter" validate:"len=1"`
	NullValues []string `mapstructure:"null_values"`
	SampleSize int      `mapstructure:"sample_size" validate:"gte=0"`
}

// DelimiterRune returns the field delimiter.
func (c *DataConfig) DelimiterRune() rune {
	return []rune(c.Delimiter)[0]
}

// SexConfig maps interactive sex input onto dataset labels.
type SexConfig struct {
	FemaleLabel string `mapstructure:"female_label" validate:"required,nefield=MaleLabel"`
	MaleLabel   string `mapstructure:"male_label" validate:"required"`
	Strict      bool   `mapstructure:"strict"`
}

type SplitConfig struct {
	TrainFraction float64 `mapstructure:"train_fraction" validate:"gt=0,lt=1"`
	Seed          int64   `mapstructure:"seed"`
}

// ForestConfig is the configuration of the random forest classifier.
type ForestConfig struct {
	NTrees          int   `mapstructure:"n_trees" validate:"gt=0"`
	MaxDepth        int   `mapstructure:"max_depth" validate:"gt=0"`
	MaxBins         int   `mapstructure:"max_bins" validate:"gte=2"`
	MinSamplesSplit int   `mapstructure:"min_samples_split" validate:"gte=2"`
	MaxFeatures     int   `mapstructure:"max_features" validate:"gte=0"`
	RandomState     int64 `mapstructure:"random_state"`
}

// LinearConfig is the configuration of the linear regression.
type LinearConfig struct {
	Solver  string  `mapstructure:"solver" validate:"oneof=normal gd"`
	Reg     float64 `mapstructure:"reg" validate:"gte=0"`
	NEpochs int     `mapstructure:"n_epochs" validate:"gt=0"`
	Lr      float64 `mapstructure:"lr" validate:"gt=0"`
}

type EncodingConfig struct {
	Unseen string `mapstructure:"unseen" validate:"oneof=error reserved"`
}

type TuneConfig struct {
	Trials int `mapstructure:"trials" validate:"gt=0"`
}

// TracingConfig is the configuration of the span exporter.
type TracingConfig struct {
	EnableTracing     bool    `mapstructure:"enable_tracing"`
	Exporter          string  `mapstructure:"exporter" validate:"oneof=zipkin otlp otlphttp"`
	CollectorEndpoint string  `mapstructure:"collector_endpoint"`
	Sampler           string  `mapstructure:"sampler" validate:"oneof=always never ratio"`
	Ratio             float64 `mapstructure:"ratio" validate:"gte=0,lte=1"`
}

// NewTracerProvider returns a no-op provider unless tracing is enabled.
func (config *TracingConfig) NewTracerProvider() (trace.TracerProvider, error) {
	if !config.EnableTracing {
		return noop.NewTracerProvider(), nil
	}

	var exporter tracesdk.SpanExporter
	var err error
	switch config.Exporter {
	case "zipkin":
		exporter, err = zipkin.New(config.CollectorEndpoint)
	case "otlp":
		client := otlptracegrpc.NewClient(otlptracegrpc.WithInsecure(), otlptracegrpc.WithEndpoint(config.CollectorEndpoint))
		exporter, err = otlptrace.New(context.TODO(), client)
	case "otlphttp":
		client := otlptracehttp.NewClient(otlptracehttp.WithInsecure(), otlptracehttp.WithEndpoint(config.CollectorEndpoint))
		exporter, err = otlptrace.New(context.TODO(), client)
	default:
		return nil, errors.NotSupportedf("exporter %s", config.Exporter)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}

	var sampler tracesdk.Sampler
	switch config.Sampler {
	case "always":
		sampler = tracesdk.AlwaysSample()
	case "never":
		sampler = tracesdk.NeverSample()
	case "ratio":
		sampler = tracesdk.TraceIDRatioBased(config.Ratio)
	default:
		return nil, errors.NotSupportedf("sampler %s", config.Sampler)
	}

	return tracesdk.NewTracerProvider(
		tracesdk.WithSampler(sampler),
		tracesdk.WithBatcher(exporter),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("podium"),
		)),
	), nil
}

func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path:       "athlete_events.csv",
			Delimiter:  ",",
			NullValues: []string{"", "NA", "NaN"},
			SampleSize: 5,
		},
		Sex: SexConfig{
			FemaleLabel: "F",
			MaleLabel:   "M",
		},
		Split: SplitConfig{
			TrainFraction: 0.8,
			Seed:          42,
		},
		Forest: ForestConfig{
			NTrees:          20,
			MaxDepth:        5,
			MaxBins:         32,
			MinSamplesSplit: 2,
			RandomState:     42,
		},
		Linear: LinearConfig{
			Solver:  SolverNormal,
			NEpochs: 10,
			Lr:      0.1,
		},
		Encoding: EncodingConfig{
			Unseen: UnseenError,
		},
		Tune: TuneConfig{
			Trials: 10,
		},
		Tracing: TracingConfig{
			Exporter: "otlp",
			Sampler:  "always",
			Ratio:    1,
		},
		Jobs: 1,
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [data]
	v.SetDefault("data.path", defaultConfig.Data.Path)
	v.SetDefault("data.table", defaultConfig.Data.Table)
	v.SetDefault("data.delimiter", defaultConfig.Data.Delimiter)
	v.SetDefault("data.null_values", defaultConfig.Data.NullValues)
	v.SetDefault("data.sample_size", defaultConfig.Data.SampleSize)
	// [sex]
	v.SetDefault("sex.female_label", defaultConfig.Sex.FemaleLabel)
	v.SetDefault("sex.male_label", defaultConfig.Sex.MaleLabel)
	v.SetDefault("sex.strict", defaultConfig.Sex.Strict)
	// [split]
	v.SetDefault("split.train_fraction", defaultConfig.Split.TrainFraction)
	v.SetDefault("split.seed", defaultConfig.Split.Seed)
	// [forest]
	v.SetDefault("forest.n_trees", defaultConfig.Forest.NTrees)
	v.SetDefault("forest.max_depth", defaultConfig.Forest.MaxDepth)
	v.SetDefault("forest.max_bins", defaultConfig.Forest.MaxBins)
	v.SetDefault("forest.min_samples_split", defaultConfig.Forest.MinSamplesSplit)
	v.SetDefault("forest.max_features", defaultConfig.Forest.MaxFeatures)
	v.SetDefault("forest.random_state", defaultConfig.Forest.RandomState)
	// [linear]
	v.SetDefault("linear.solver", defaultConfig.Linear.Solver)
	v.SetDefault("linear.reg", defaultConfig.Linear.Reg)
	v.SetDefault("linear.n_epochs", defaultConfig.Linear.NEpochs)
	v.SetDefault("linear.lr", defaultConfig.Linear.Lr)
	// [encoding]
	v.SetDefault("encoding.unseen", defaultConfig.Encoding.Unseen)
	// [tune]
	v.SetDefault("tune.trials", defaultConfig.Tune.Trials)
	// [tracing]
	v.SetDefault("tracing.enable_tracing", defaultConfig.Tracing.EnableTracing)
	v.SetDefault("tracing.exporter", defaultConfig.Tracing.Exporter)
	v.SetDefault("tracing.collector_endpoint", defaultConfig.Tracing.CollectorEndpoint)
	v.SetDefault("tracing.sampler", defaultConfig.Tracing.Sampler)
	v.SetDefault("tracing.ratio", defaultConfig.Tracing.Ratio)
	v.SetDefault("jobs", defaultConfig.Jobs)
}

type environmentBinding struct {
	key string
	env string
}

// LoadConfig loads configuration from a TOML or YAML file, the environment and a .env file.
// An empty path uses defaults and the environment only.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Annotate(err, "load .env")
	}

	v := viper.New()
	setDefault(v)
	bindings := []environmentBinding{
		{"data.path", "PODIUM_DATA"},
		{"data.table", "PODIUM_TABLE"},
		{"jobs", "PODIUM_JOBS"},
	}
	for _, binding := range bindings {
		if err := v.BindEnv(binding.key, binding.env); err != nil {
			return nil, errors.Trace(err)
		}
	}
	v.SetEnvPrefix("PODIUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			v.SetConfigType("yaml")
		case ".json":
			v.SetConfigType("json")
		default:
			v.SetConfigType("toml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "read config %s", path)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf, viper.DecodeHook(mapstructure.StringToSliceHookFunc(","))); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// Validate checks value ranges and enumerations.
func (config *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.Struct(config); err != nil {
		return errors.NewNotValid(err, "invalid config")
	}
	return nil
}
