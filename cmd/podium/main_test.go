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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/podium-ml/podium/dataset"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAthletes(t *testing.T) string {
	sports := []string{"Fencing", "Judo", "Rowing"}
	var builder strings.Builder
	builder.WriteString("ID,Name,Sex,Age,Height,Weight,Sport\n")
	for i := 0; i < 150; i++ {
		band := i % 3
		if i%6 == 5 {
			band = 0
		}
		sex := []string{"M", "F"}[i%2]
		_, _ = fmt.Fprintf(&builder, "%d,Athlete %d,%s,%d,%d,%d,%s\n",
			i, i, sex, 20+i%12, 160+20*band+i%4, 55+20*band+i%6, sports[band])
	}
	builder.WriteString("150,Unknown,M,NA,NA,NA,Judo\n")
	path := filepath.Join(t.TempDir(), "athlete_events.csv")
	require.NoError(t, os.WriteFile(path, []byte(builder.String()), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassifyWithFlags(t *testing.T) {
	out, err := execute(t, "", "classify", "--data", writeAthletes(t),
		"--sex", "Female", "--age", "25", "--height", "162", "--weight", "57")
	require.NoError(t, err)
	assert.Contains(t, out, "First 5 rows:")
	assert.Contains(t, out, "Athlete 0")
	assert.Contains(t, out, "Summary:")
	assert.Contains(t, out, "Missing values:")
	assert.Contains(t, out, "Model Accuracy: ")
	assert.Contains(t, out, "Predicted Sport: Fencing\n")
	assert.NotContains(t, out, "Sex (Male/Female): ")
}

func TestClassifyWithPrompts(t *testing.T) {
	out, err := execute(t, "FEMALE\n25\n203\n97\n", "classify", "--data", writeAthletes(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Sex (Male/Female): Age: Height: Weight: ")
	assert.Contains(t, out, "Predicted Sport: Rowing\n")
}

func TestRegress(t *testing.T) {
	out, err := execute(t, "", "regress", "--data", writeAthletes(t),
		"--sex", "Male", "--age", "25", "--height", "162", "--weight", "57")
	require.NoError(t, err)
	assert.Contains(t, out, "Model RMSE: ")
	assert.Contains(t, out, "Predicted Sport: ")
}

func TestTune(t *testing.T) {
	out, err := execute(t, "", "tune", "--data", writeAthletes(t), "--trials", "2",
		"--sex", "Male", "--age", "25", "--height", "182", "--weight", "77")
	require.NoError(t, err)
	assert.Contains(t, out, "Best parameters in 2 trials:")
	assert.Contains(t, out, "Model Accuracy: ")
	assert.Contains(t, out, "Predicted Sport: Judo\n")
}

func TestInvalidInput(t *testing.T) {
	out, err := execute(t, "Male\nold\n", "classify", "--data", writeAthletes(t))
	assert.True(t, errors.Is(err, ErrInputFormat))
	assert.NotContains(t, out, "Predicted Sport")

	out, err = execute(t, "Male\n25\n", "classify", "--data", writeAthletes(t))
	assert.True(t, errors.Is(err, ErrInputFormat))
	assert.NotContains(t, out, "Predicted Sport")
}

func TestMissingData(t *testing.T) {
	_, err := execute(t, "", "classify", "--data", filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, errors.Is(err, dataset.ErrIO))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:")
}

func TestReadInput(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("sex", "", "")
	flags.Float64("age", 0, "")
	flags.Float64("height", 0, "")
	flags.Float64("weight", 0, "")
	require.NoError(t, flags.Parse([]string{"--age", "30", "--weight", "70.5"}))
	var out bytes.Buffer
	input, err := readInput(flags, strings.NewReader(" female \n175\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "female", input.Sex)
	assert.Equal(t, 30.0, input.Age)
	assert.Equal(t, 175.0, input.Height)
	assert.Equal(t, 70.5, input.Weight)
	assert.Equal(t, "Sex (Male/Female): Height: ", out.String())
}
