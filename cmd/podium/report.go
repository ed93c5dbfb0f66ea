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
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/podium-ml/podium/dataset"
	"github.com/podium-ml/podium/model"
	"github.com/podium-ml/podium/pipeline"
	"github.com/samber/lo"
)

// reporter prints the console report.
type reporter struct {
	out io.Writer
}

func newReporter(out io.Writer) *reporter {
	return &reporter{out: out}
}

func (r *reporter) render(header []string, rows [][]string) error {
	table := tablewriter.NewWriter(r.out)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(table.Render())
}

// explore prints the first rows, the numeric summary and the missing value counts.
func (r *reporter) explore(t *dataset.Table, sampleSize int) error {
	if sampleSize > 0 {
		_, _ = fmt.Fprintf(r.out, "First %d rows:\n", min(sampleSize, t.Count()))
		if err := r.render(t.Columns(), t.Head(sampleSize)); err != nil {
			return errors.Trace(err)
		}
	}

	_, _ = fmt.Fprintln(r.out, "Summary:")
	summaries := lo.Map(t.Describe(), func(s dataset.Summary, _ int) []string {
		return []string{s.Column, strconv.Itoa(s.Count),
			formatFloat(s.Mean), formatFloat(s.Std), formatFloat(s.Min), formatFloat(s.Max)}
	})
	if err := r.render([]string{"column", "count", "mean", "std", "min", "max"}, summaries); err != nil {
		return errors.Trace(err)
	}

	_, _ = fmt.Fprintln(r.out, "Missing values:")
	counts := t.CountMissing()
	missing := lo.Map(t.Columns(), func(name string, _ int) []string {
		return []string{name, strconv.Itoa(counts[name])}
	})
	return errors.Trace(r.render([]string{"column", "missing"}, missing))
}

// params prints the best hyper-parameters of a search.
func (r *reporter) params(result model.SearchResult) error {
	names := lo.Map(lo.Keys(result.Params), func(name model.ParamName, _ int) string {
		return string(name)
	})
	sort.Strings(names)
	rows := lo.Map(names, func(name string, _ int) []string {
		return []string{name, fmt.Sprint(result.Params[model.ParamName(name)])}
	})
	_, _ = fmt.Fprintf(r.out, "Best parameters in %d trials:\n", result.Trials)
	return errors.Trace(r.render([]string{"param", "value"}, rows))
}

// score prints the test split score, or n/a when the test split holds no rows.
func (r *reporter) score(a *pipeline.Artifact) {
	name, value := "Accuracy", a.Score.Accuracy
	if a.Task == pipeline.Regress {
		name, value = "RMSE", a.Score.RMSE
	}
	if a.Score.Count == 0 {
		_, _ = fmt.Fprintf(r.out, "Model %s: n/a (empty test split)\n", name)
		return
	}
	_, _ = fmt.Fprintf(r.out, "Model %s: %.2f\n", name, value)
}

func (r *reporter) prediction(p pipeline.Prediction) {
	_, _ = fmt.Fprintf(r.out, "Predicted Sport: %s\n", p.Label)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
