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

package feature

import (
	"slices"
	"strings"

	"github.com/juju/errors"
	"github.com/podium-ml/podium/dataset"
)

// SexPolicy maps free-form sex input onto the labels used by the dataset.
// "female" (any case) or the female label maps to FemaleLabel, "male" or the male label maps
// to MaleLabel. Any other value falls back to MaleLabel unless Strict is set.
type SexPolicy struct {
	FemaleLabel string
	MaleLabel   string
	Strict      bool
}

func DefaultSexPolicy() SexPolicy {
	return SexPolicy{FemaleLabel: "F", MaleLabel: "M"}
}

// Labels returns the labels in encoding order: male first, then female.
func (p SexPolicy) Labels() []string {
	return []string{p.MaleLabel, p.FemaleLabel}
}

// Normalize returns the dataset label for value. fallback is true when value matched neither
// sex and was mapped to MaleLabel.
func (p SexPolicy) Normalize(value string) (label string, fallback bool, err error) {
	value = strings.TrimSpace(value)
	switch {
	case strings.EqualFold(value, "female") || strings.EqualFold(value, p.FemaleLabel):
		return p.FemaleLabel, false, nil
	case strings.EqualFold(value, "male") || strings.EqualFold(value, p.MaleLabel):
		return p.MaleLabel, false, nil
	case p.Strict:
		return "", false, errors.WithType(errors.Errorf("sex %q is neither male nor female", value), ErrUnknownCategory)
	default:
		return p.MaleLabel, true, nil
	}
}

// Check verifies that encoding only knows the labels of the policy, so that normalized input
// and training rows share indices. Labels of the policy never observed are returned as unused.
func (p SexPolicy) Check(encoding *CategoryEncoding) (unused []string, err error) {
	known := p.Labels()
	for i, label := range encoding.Labels() {
		if !slices.Contains(known, label) {
			return nil, errors.WithType(
				errors.Errorf("sex label %q is neither %q nor %q", label, p.MaleLabel, p.FemaleLabel),
				dataset.ErrSchema)
		}
		if encoding.Freq(i) == 0 {
			unused = append(unused, label)
		}
	}
	return unused, nil
}
