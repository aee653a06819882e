// Copyright 2026 gorse Project Authors
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

package loader

import (
	"github.com/gorse-io/gorse-sampler/base"
	"github.com/gorse-io/gorse-sampler/dataset"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Example is one positive interaction followed by its sampled negatives. All
// three fields have length 1+k: Items[0] is the positive item, Labels is
// [1, 0, ..., 0] and Users repeats the same user.
type Example struct {
	Users  []int64
	Items  []int64
	Labels []float32
}

// Len returns the number of (user, item, label) triples.
func (e Example) Len() int {
	return len(e.Items)
}

// ExampleSource turns the i-th positive interaction of a table into an Example by
// drawing negatives from a pool.
//
// Every call to Get is an independent draw: asking twice for the same index
// generally returns different negatives unless the generator is reseeded.
// An ExampleSource is not safe for concurrent use; give each worker its own
// replica with Replicate.
type ExampleSource struct {
	pairs     []lo.Tuple2[int64, int64]
	pool      dataset.Pool
	negPerPos int
	rng       base.RandomGenerator
}

// NewExampleSource binds a table of positive interactions to a pool. Every user of
// data must be known to the pool.
func NewExampleSource(data *dataset.Table, pool dataset.Pool, negPerPos int, rng base.RandomGenerator, userCol, itemCol string) (*ExampleSource, error) {
	if negPerPos < 0 {
		return nil, base.ConfigurationErrorf("negatives per positive must not be negative, but got %d", negPerPos)
	}
	pairs, err := data.Pairs(userCol, itemCol)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for _, pair := range pairs {
		if !pool.Contains(pair.A) {
			return nil, base.ConfigurationErrorf("user %d not found in negative pool", pair.A)
		}
	}
	return &ExampleSource{
		pairs:     pairs,
		pool:      pool,
		negPerPos: negPerPos,
		rng:       rng,
	}, nil
}

// Len returns the number of positive interactions.
func (s *ExampleSource) Len() int {
	return len(s.pairs)
}

// NegPerPos returns the number of negatives drawn for each positive.
func (s *ExampleSource) NegPerPos() int {
	return s.negPerPos
}

// Get returns the i-th positive interaction with freshly sampled negatives.
func (s *ExampleSource) Get(index int) (Example, error) {
	if index < 0 || index >= len(s.pairs) {
		return Example{}, base.ConfigurationErrorf("index %d out of range [0, %d)", index, len(s.pairs))
	}
	user, positive := s.pairs[index].Unpack()
	negatives, err := s.pool.Sample(s.rng, user, s.negPerPos)
	if err != nil {
		SamplingFailuresTotal.Inc()
		return Example{}, errors.Trace(err)
	}
	example := Example{
		Users:  make([]int64, 1+s.negPerPos),
		Items:  make([]int64, 0, 1+s.negPerPos),
		Labels: make([]float32, 1+s.negPerPos),
	}
	for i := range example.Users {
		example.Users[i] = user
	}
	example.Items = append(append(example.Items, positive), negatives...)
	example.Labels[0] = 1
	ExamplesTotal.Inc()
	return example, nil
}

// Replicate returns a source sharing the interactions and the pool but drawing
// from an independent generator.
func (s *ExampleSource) Replicate(seed int64) Dataset[Example] {
	replica := *s
	replica.rng = base.NewRandomGenerator(seed)
	return &replica
}
