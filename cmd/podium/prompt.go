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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/podium-ml/podium/pipeline"
	"github.com/spf13/pflag"
)

// ErrInputFormat is returned when an interactive answer cannot be parsed.
const ErrInputFormat = errors.ConstError("input format error")

type prompter struct {
	flags  *pflag.FlagSet
	reader *bufio.Reader
	out    io.Writer
}

// readInput reads the athlete to predict. A flag set on the command line skips its prompt.
func readInput(flags *pflag.FlagSet, in io.Reader, out io.Writer) (pipeline.Input, error) {
	p := &prompter{flags: flags, reader: bufio.NewReader(in), out: out}
	var (
		input pipeline.Input
		err   error
	)
	if input.Sex, err = p.text("sex", "Sex (Male/Female): "); err != nil {
		return input, errors.Trace(err)
	}
	if input.Age, err = p.number("age", "Age: "); err != nil {
		return input, errors.Trace(err)
	}
	if input.Height, err = p.number("height", "Height: "); err != nil {
		return input, errors.Trace(err)
	}
	if input.Weight, err = p.number("weight", "Weight: "); err != nil {
		return input, errors.Trace(err)
	}
	return input, nil
}

func (p *prompter) text(name, prompt string) (string, error) {
	if p.flags.Changed(name) {
		return p.flags.GetString(name)
	}
	return p.ask(name, prompt)
}

func (p *prompter) number(name, prompt string) (float64, error) {
	if p.flags.Changed(name) {
		return p.flags.GetFloat64(name)
	}
	answer, err := p.ask(name, prompt)
	if err != nil {
		return 0, errors.Trace(err)
	}
	value, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return 0, errors.WithType(errors.Errorf("%s: %q is not a number", name, answer), ErrInputFormat)
	}
	return value, nil
}

func (p *prompter) ask(name, prompt string) (string, error) {
	_, _ = fmt.Fprint(p.out, prompt)
	line, err := p.reader.ReadString('\n')
	if err == io.EOF && line == "" {
		return "", errors.WithType(errors.Errorf("%s: no answer", name), ErrInputFormat)
	} else if err != nil && err != io.EOF {
		return "", errors.Annotatef(err, "read %s", name)
	}
	return strings.TrimSpace(line), nil
}
