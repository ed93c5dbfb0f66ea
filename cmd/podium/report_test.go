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
	"bytes"
	"testing"

	"github.com/podium-ml/podium/model"
	"github.com/podium-ml/podium/pipeline"
	"github.com/stretchr/testify/assert"
)

func TestReportScore(t *testing.T) {
	var out bytes.Buffer
	r := newReporter(&out)
	r.score(&pipeline.Artifact{Task: pipeline.Classify, Score: model.Score{Accuracy: 0.9, Count: 8}})
	r.score(&pipeline.Artifact{Task: pipeline.Regress, Score: model.Score{RMSE: 0.25, Count: 8}})
	r.score(&pipeline.Artifact{Task: pipeline.Classify})
	r.score(&pipeline.Artifact{Task: pipeline.Regress})
	assert.Equal(t, "Model Accuracy: 0.90\n"+
		"Model RMSE: 0.25\n"+
		"Model Accuracy: n/a (empty test split)\n"+
		"Model RMSE: n/a (empty test split)\n", out.String())
}
