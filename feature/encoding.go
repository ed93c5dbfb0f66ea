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
	"cmp"
	"slices"

	"github.com/juju/errors"
	"github.com/podium-ml/podium/dataset"
)

// UnseenPolicy decides what Apply does with a value not observed during Fit.
type UnseenPolicy string

const (
	// UnseenError fails with ErrUnknownCategory.
	UnseenError UnseenPolicy = "error"
	// UnseenReserved maps every unseen value to the reserved index Count().
	UnseenReserved UnseenPolicy = "reserved"
)

type fitOptions struct {
	unseen UnseenPolicy
	pinned []string
}

// Option configures Fit.
type Option func(*fitOptions)

// WithUnseen sets the unseen value policy.
func WithUnseen(policy UnseenPolicy) Option {
	return func(o *fitOptions) {
		o.unseen = policy
	}
}

// WithPinned assigns the first indices to labels in the given order, whether observed or not.
// The remaining labels follow the frequency order.
func WithPinned(labels ...string) Option {
	return func(o *fitOptions) {
		o.pinned = labels
	}
}

// CategoryEncoding is a fitted bijection between observed labels and [0, Count()).
// Index 0 is the most frequent label; ties are broken by first-seen order.
// It is never mutated after Fit.
type CategoryEncoding struct {
	index  map[string]int
	labels []string
	freq   []int
	unseen UnseenPolicy
}

// freqDict counts labels in first-seen order.
type freqDict struct {
	si  map[string]int
	is  []string
	cnt []int
}

func newFreqDict() *freqDict {
	return &freqDict{si: map[string]int{}}
}

func (d *freqDict) id(s string) int {
	if y, ok := d.si[s]; ok {
		d.cnt[y]++
		return y
	}
	y := len(d.is)
	d.si[s] = y
	d.is = append(d.is, s)
	d.cnt = append(d.cnt, 1)
	return y
}

func (d *freqDict) notCount(s string) int {
	if y, ok := d.si[s]; ok {
		return y
	}
	y := len(d.is)
	d.si[s] = y
	d.is = append(d.is, s)
	d.cnt = append(d.cnt, 0)
	return y
}

// Fit builds an encoding from observed values.
func Fit(values []string, opts ...Option) (*CategoryEncoding, error) {
	options := fitOptions{unseen: UnseenError}
	for _, opt := range opts {
		opt(&options)
	}
	switch options.unseen {
	case UnseenError, UnseenReserved:
	default:
		return nil, errors.NotValidf("unseen policy %q", options.unseen)
	}
	if len(values) == 0 {
		return nil, errors.WithType(errors.New("fit encoding on zero values"), ErrEmptyInput)
	}

	dict := newFreqDict()
	for _, v := range values {
		dict.id(v)
	}
	pinned := make([]int, 0, len(options.pinned))
	for _, label := range options.pinned {
		id := dict.notCount(label)
		if !slices.Contains(pinned, id) {
			pinned = append(pinned, id)
		}
	}
	rest := make([]int, 0, len(dict.is))
	for id := range dict.is {
		if !slices.Contains(pinned, id) {
			rest = append(rest, id)
		}
	}
	slices.SortStableFunc(rest, func(a, b int) int {
		return cmp.Compare(dict.cnt[b], dict.cnt[a])
	})

	encoding := &CategoryEncoding{
		index:  make(map[string]int, len(dict.is)),
		labels: make([]string, 0, len(dict.is)),
		freq:   make([]int, 0, len(dict.is)),
		unseen: options.unseen,
	}
	for _, id := range append(pinned, rest...) {
		encoding.index[dict.is[id]] = len(encoding.labels)
		encoding.labels = append(encoding.labels, dict.is[id])
		encoding.freq = append(encoding.freq, dict.cnt[id])
	}
	return encoding, nil
}

// FitColumn fits an encoding on the present values of a string column.
func FitColumn(t *dataset.Table, name string, opts ...Option) (*CategoryEncoding, error) {
	column, err := t.Column(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	encoding, err := Fit(column.Strings(), opts...)
	if err != nil {
		return nil, errors.Annotatef(err, "fit column %s", name)
	}
	return encoding, nil
}

// Apply returns the index of value.
func (e *CategoryEncoding) Apply(value string) (int, error) {
	if i, ok := e.index[value]; ok {
		return i, nil
	}
	if e.unseen == UnseenReserved {
		return len(e.labels), nil
	}
	return 0, errors.WithType(errors.Errorf("category %q was not observed", value), ErrUnknownCategory)
}

// ApplyColumn encodes every row of a string column. Missing cells are reported as ErrMissingField.
func (e *CategoryEncoding) ApplyColumn(t *dataset.Table, name string) ([]int, error) {
	column, err := t.Column(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	indices := make([]int, column.Len())
	for i := range indices {
		value, ok := column.String(i)
		if !ok {
			return nil, errors.WithType(errors.Errorf("row %d: field %s is missing", i, name), ErrMissingField)
		}
		if indices[i], err = e.Apply(value); err != nil {
			return nil, errors.Annotatef(err, "row %d", i)
		}
	}
	return indices, nil
}

// Reverse returns the label of index. The reserved index is not a label.
func (e *CategoryEncoding) Reverse(index int) (string, error) {
	if index < 0 || index >= len(e.labels) {
		return "", errors.WithType(errors.Errorf("index %d not in [0, %d)", index, len(e.labels)), ErrIndexOutOfRange)
	}
	return e.labels[index], nil
}

// Count returns the number of known labels.
func (e *CategoryEncoding) Count() int {
	return len(e.labels)
}

// Labels returns known labels in index order.
func (e *CategoryEncoding) Labels() []string {
	return slices.Clone(e.labels)
}

// Freq returns the number of times the label at index was observed.
func (e *CategoryEncoding) Freq(index int) int {
	if index < 0 || index >= len(e.freq) {
		return 0
	}
	return e.freq[index]
}

// Unseen returns the unseen value policy.
func (e *CategoryEncoding) Unseen() UnseenPolicy {
	return e.unseen
}
