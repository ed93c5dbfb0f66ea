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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/juju/errors"
	"github.com/podium-ml/podium/cmd/version"
	"github.com/podium-ml/podium/common/log"
	"github.com/podium-ml/podium/config"
	"github.com/podium-ml/podium/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "podium",
		Short:         "Predict the sport of an Olympic athlete.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetLogger(log.ParseFlags(cmd.Flags()))
		},
	}
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	rootCommand.PersistentFlags().String("data", "", "CSV file path or database URL")
	rootCommand.PersistentFlags().String("table", "", "table name when data is a database URL")
	rootCommand.PersistentFlags().Int("jobs", 0, "number of jobs for forest fitting")

	rootCommand.AddCommand(
		newTrainCommand(pipeline.Classify, "Train a random forest classifier and predict the sport"),
		newTrainCommand(pipeline.Regress, "Train a linear regression and predict the sport"),
		newTuneCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Show the version of podium",
			Run: func(cmd *cobra.Command, args []string) {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), version.BuildInfo())
			},
		},
	)
	return rootCommand
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("sex", "", "sex of the athlete (Male/Female)")
	cmd.Flags().Float64("age", 0, "age of the athlete")
	cmd.Flags().Float64("height", 0, "height of the athlete")
	cmd.Flags().Float64("weight", 0, "weight of the athlete")
}

func newTrainCommand(task pipeline.Task, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(task),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, session *pipeline.Session, r *reporter) (*pipeline.Artifact, error) {
				t, err := session.LoadTable(ctx)
				if err != nil {
					return nil, errors.Trace(err)
				}
				if err = r.explore(t, session.Config().Data.SampleSize); err != nil {
					return nil, errors.Trace(err)
				}
				a, err := session.Train(ctx, t, task)
				if err != nil {
					return nil, errors.Trace(err)
				}
				r.score(a)
				return a, nil
			})
		},
	}
	addInputFlags(cmd)
	return cmd
}

func newTuneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Search random forest hyper-parameters and predict the sport",
		Long: "Search random forest hyper-parameters and predict the sport.\n\n" +
			"Trials are scored on a validation split carved from the train split. The best parameters\n" +
			"are refit on the whole train split and the reported accuracy is measured on the test split.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, session *pipeline.Session, r *reporter) (*pipeline.Artifact, error) {
				trials := session.Config().Tune.Trials
				if cmd.Flags().Changed("trials") {
					trials, _ = cmd.Flags().GetInt("trials")
				}
				if trials <= 0 {
					return nil, errors.NotValidf("trials %d", trials)
				}
				t, err := session.LoadTable(ctx)
				if err != nil {
					return nil, errors.Trace(err)
				}
				a, result, err := session.Tune(ctx, t, trials)
				if err != nil {
					return nil, errors.Trace(err)
				}
				if err = r.params(result); err != nil {
					return nil, errors.Trace(err)
				}
				r.score(a)
				return a, nil
			})
		},
	}
	cmd.Flags().Int("trials", 0, "number of search trials")
	addInputFlags(cmd)
	return cmd
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	log.Logger().Info("load config", zap.String("config", configPath))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if cmd.Flags().Changed("data") {
		cfg.Data.Path, _ = cmd.Flags().GetString("data")
	}
	if cmd.Flags().Changed("table") {
		cfg.Data.Table, _ = cmd.Flags().GetString("table")
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs, _ = cmd.Flags().GetInt("jobs")
	}
	return cfg, nil
}

type stage func(ctx context.Context, session *pipeline.Session, r *reporter) (*pipeline.Artifact, error)

// run opens a session, trains through train and predicts the athlete read from flags or prompts.
func run(cmd *cobra.Command, train stage) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return errors.Trace(err)
	}
	session, err := pipeline.Open(ctx, cfg)
	if err != nil {
		return errors.Trace(err)
	}
	defer session.Close()
	session.SetProgressWriter(cmd.ErrOrStderr())

	r := newReporter(cmd.OutOrStdout())
	a, err := train(ctx, session, r)
	if err != nil {
		return errors.Trace(err)
	}
	input, err := readInput(cmd.Flags(), cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return errors.Trace(err)
	}
	prediction, err := a.Predict(input)
	if err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("predict sport",
		zap.String("sport", prediction.Label),
		zap.Int("index", prediction.Index),
		zap.Float64("value", prediction.Value))
	r.prediction(prediction)
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
