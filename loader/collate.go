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
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gorse-io/gorse-sampler/base"
	"github.com/samber/lo"
)

// Batch holds the triples of several examples in three aligned flat sequences.
// Examples are laid out one after another and, inside an example, the positive
// comes first followed by the negatives.
type Batch struct {
	Users  []int64
	Items  []int64
	Labels []float32
	// Offsets[i] is the position of the first triple of example i. It has one
	// extra trailing element equal to Len().
	Offsets []int
}

// Len returns the number of triples.
func (b *Batch) Len() int {
	return len(b.Items)
}

// CountExamples returns the number of examples in the batch.
func (b *Batch) CountExamples() int {
	return max(len(b.Offsets)-1, 0)
}

// Example reconstructs the i-th example of the batch.
func (b *Batch) Example(i int) Example {
	begin, end := b.Offsets[i], b.Offsets[i+1]
	return Example{
		Users:  b.Users[begin:end],
		Items:  b.Items[begin:end],
		Labels: b.Labels[begin:end],
	}
}

// Tensors converts the batch to rank-1 tensors: users and items as int64, labels
// as float32.
func (b *Batch) Tensors() (users, items, labels *tensors.Tensor) {
	users = tensors.FromFlatDataAndDimensions(b.Users, len(b.Users))
	items = tensors.FromFlatDataAndDimensions(b.Items, len(b.Items))
	labels = tensors.FromFlatDataAndDimensions(b.Labels, len(b.Labels))
	return
}

// Collate flattens examples into a batch, keeping example order and the order of
// triples inside each example.
func Collate(examples []Example) (*Batch, error) {
	offsets := make([]int, 0, len(examples)+1)
	offsets = append(offsets, 0)
	for i, example := range examples {
		if len(example.Users) != len(example.Items) || len(example.Labels) != len(example.Items) {
			return nil, base.ConfigurationErrorf("example %d has %d users, %d items and %d labels",
				i, len(example.Users), len(example.Items), len(example.Labels))
		}
		offsets = append(offsets, offsets[i]+example.Len())
	}
	batch := &Batch{
		Users: lo.Flatten(lo.Map(examples, func(e Example, _ int) []int64 {
			return e.Users
		})),
		Items: lo.Flatten(lo.Map(examples, func(e Example, _ int) []int64 {
			return e.Items
		})),
		Labels: lo.Flatten(lo.Map(examples, func(e Example, _ int) []float32 {
			return e.Labels
		})),
		Offsets: offsets,
	}
	BatchesTotal.Inc()
	return batch, nil
}
