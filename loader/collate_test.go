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
	"testing"

	"github.com/gorse-io/gorse-sampler/base"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollate(t *testing.T) {
	first := Example{Users: []int64{1, 1}, Items: []int64{10, 12}, Labels: []float32{1, 0}}
	second := Example{Users: []int64{2, 2}, Items: []int64{10, 11}, Labels: []float32{1, 0}}
	batch, err := Collate([]Example{first, second})
	require.NoError(t, err)
	assert.Equal(t, 4, batch.Len())
	assert.Equal(t, 2, batch.CountExamples())
	assert.Equal(t, []int64{1, 1, 2, 2}, batch.Users)
	assert.Equal(t, []int64{10, 12, 10, 11}, batch.Items)
	assert.Equal(t, []float32{1, 0, 1, 0}, batch.Labels)
	assert.Equal(t, []int{0, 2, 4}, batch.Offsets)
	// slice [0:2] is the first example and [2:4] the second
	assert.Equal(t, first, batch.Example(0))
	assert.Equal(t, second, batch.Example(1))
}

func TestCollate_OrderPreserving(t *testing.T) {
	const n, m = 7, 4
	examples := make([]Example, n)
	for i := range examples {
		examples[i] = Example{
			Users:  make([]int64, m),
			Items:  make([]int64, m),
			Labels: make([]float32, m),
		}
		for j := 0; j < m; j++ {
			examples[i].Users[j] = int64(i)
			examples[i].Items[j] = int64(i*m + j)
		}
		examples[i].Labels[0] = 1
	}
	batch, err := Collate(examples)
	require.NoError(t, err)
	assert.Equal(t, n*m, batch.Len())
	assert.Len(t, batch.Users, n*m)
	assert.Len(t, batch.Labels, n*m)
	for i := 0; i < n*m; i += m {
		assert.Equal(t, examples[i/m].Users, batch.Users[i:i+m])
		assert.Equal(t, examples[i/m].Items, batch.Items[i:i+m])
		assert.Equal(t, examples[i/m].Labels, batch.Labels[i:i+m])
		assert.Equal(t, examples[i/m], batch.Example(i/m))
	}
}

func TestCollate_VariableLength(t *testing.T) {
	batch, err := Collate([]Example{
		{Users: []int64{1}, Items: []int64{10}, Labels: []float32{1}},
		{Users: []int64{2, 2, 2}, Items: []int64{10, 11, 12}, Labels: []float32{1, 0, 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, batch.Len())
	assert.Equal(t, []int64{10, 11, 12}, batch.Example(1).Items)
}

func TestCollate_Empty(t *testing.T) {
	batch, err := Collate(nil)
	require.NoError(t, err)
	assert.Zero(t, batch.Len())
	assert.Zero(t, batch.CountExamples())
}

func TestCollate_Misaligned(t *testing.T) {
	_, err := Collate([]Example{{Users: []int64{1}, Items: []int64{10, 11}, Labels: []float32{1, 0}}})
	assert.True(t, errors.Is(err, base.ErrConfiguration))
	_, err = Collate([]Example{{Users: []int64{1, 1}, Items: []int64{10, 11}, Labels: []float32{1}}})
	assert.True(t, errors.Is(err, base.ErrConfiguration))
}

func TestBatch_Tensors(t *testing.T) {
	batch, err := Collate([]Example{
		{Users: []int64{1, 1}, Items: []int64{10, 12}, Labels: []float32{1, 0}},
		{Users: []int64{2, 2}, Items: []int64{10, 11}, Labels: []float32{1, 0}},
	})
	require.NoError(t, err)
	users, items, labels := batch.Tensors()
	assert.Equal(t, []int{4}, users.Shape().Dimensions)
	assert.Equal(t, []int{4}, items.Shape().Dimensions)
	assert.Equal(t, []int{4}, labels.Shape().Dimensions)
	assert.Equal(t, []int64{1, 1, 2, 2}, users.Value())
	assert.Equal(t, []int64{10, 12, 10, 11}, items.Value())
	assert.Equal(t, []float32{1, 0, 1, 0}, labels.Value())
}
