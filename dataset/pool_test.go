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

package dataset

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/gorse-sampler/base"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	u1, u2, u3 = 1, 2, 3
	a, b, c    = 10, 11, 12
)

// (u1,a) (u1,b) (u2,a) and (u3,c), which puts c in the catalog.
func newScenarioTable(t *testing.T) *Table {
	table, err := NewTableFromPairs([]int64{u1, u1, u2, u3}, []int64{a, b, a, c})
	require.NoError(t, err)
	return table
}

func newRandomTable(t *testing.T, numUsers, numItems, numRows int, seed int64) *Table {
	rng := base.NewRandomGenerator(seed)
	users := make([]int64, numRows)
	items := make([]int64, numRows)
	for i := range users {
		users[i] = int64(rng.Intn(numUsers))
		items[i] = int64(rng.Intn(numItems)) * 7
	}
	table, err := NewTableFromPairs(users, items)
	require.NoError(t, err)
	return table
}

func observedItems(t *testing.T, table *Table) (map[int64]mapset.Set[int64], mapset.Set[int64]) {
	pairs, err := table.Pairs(DefaultUserColumn, DefaultItemColumn)
	require.NoError(t, err)
	observed := make(map[int64]mapset.Set[int64])
	all := mapset.NewSet[int64]()
	for _, pair := range pairs {
		if _, ok := observed[pair.A]; !ok {
			observed[pair.A] = mapset.NewSet[int64]()
		}
		observed[pair.A].Add(pair.B)
		all.Add(pair.B)
	}
	return observed, all
}

func TestBuildNegativePool(t *testing.T) {
	pool, err := BuildNegativePool(newScenarioTable(t), DefaultUserColumn, DefaultItemColumn)
	require.NoError(t, err)
	assert.Equal(t, []int64{u1, u2, u3}, pool.Users())
	assert.Equal(t, []int64{a, b, c}, pool.Items())
	assert.Equal(t, 3, pool.CountUsers())
	assert.Equal(t, 3, pool.CountItems())

	negatives, ok := pool.Negatives(u1)
	assert.True(t, ok)
	assert.Equal(t, []int64{c}, negatives)
	negatives, ok = pool.Negatives(u2)
	assert.True(t, ok)
	assert.Equal(t, []int64{b, c}, negatives)
	_, ok = pool.Negatives(4)
	assert.False(t, ok)
	assert.True(t, pool.Contains(u3))
	assert.False(t, pool.Contains(4))
	assert.Equal(t, 2, pool.CountNegatives(u3))

	_, err = BuildNegativePool(newScenarioTable(t), "user", DefaultItemColumn)
	assert.True(t, errors.Is(err, base.ErrConfiguration))
	_, err = BuildNegativePool(newScenarioTable(t), DefaultUserColumn, "item")
	assert.True(t, errors.Is(err, base.ErrConfiguration))
}

func TestNegativePool_Invariants(t *testing.T) {
	table := newRandomTable(t, 50, 40, 600, 0)
	observed, all := observedItems(t, table)
	pool, err := BuildNegativePool(table, DefaultUserColumn, DefaultItemColumn)
	require.NoError(t, err)
	assert.Equal(t, len(observed), pool.CountUsers())
	for user, seen := range observed {
		negatives, ok := pool.Negatives(user)
		require.True(t, ok)
		negativeSet := mapset.NewSet(negatives...)
		assert.Equal(t, len(negatives), negativeSet.Cardinality())
		assert.True(t, negativeSet.Intersect(seen).IsEmpty())
		assert.True(t, negativeSet.Union(seen).Equal(all))
	}
}

func TestNegativePool_Deterministic(t *testing.T) {
	table := newRandomTable(t, 20, 30, 200, 1)
	first, err := BuildNegativePool(table, DefaultUserColumn, DefaultItemColumn)
	require.NoError(t, err)
	second, err := BuildNegativePool(table, DefaultUserColumn, DefaultItemColumn)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNegativePool_EmptyPool(t *testing.T) {
	table, err := NewTableFromPairs([]int64{u1, u1, u2}, []int64{a, b, a})
	require.NoError(t, err)
	pool, err := BuildNegativePool(table, DefaultUserColumn, DefaultItemColumn)
	require.NoError(t, err)
	negatives, ok := pool.Negatives(u1)
	assert.True(t, ok)
	assert.Empty(t, negatives)

	rng := base.NewRandomGenerator(0)
	sampled, err := pool.Sample(rng, u1, 0)
	assert.NoError(t, err)
	assert.Empty(t, sampled)
	_, err = pool.Sample(rng, u1, 1)
	assert.True(t, errors.Is(err, base.ErrSampling))
}

func testPoolSample(t *testing.T, pool Pool) {
	rng := base.NewRandomGenerator(0)
	sampled, err := pool.Sample(rng, u1, 1)
	assert.NoError(t, err)
	assert.Equal(t, []int64{c}, sampled)
	sampled, err = pool.Sample(rng, u2, 2)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []int64{b, c}, sampled)

	_, err = pool.Sample(rng, u1, 2)
	assert.True(t, errors.Is(err, base.ErrSampling))
	_, err = pool.Sample(rng, u1, -1)
	assert.True(t, errors.Is(err, base.ErrConfiguration))
	_, err = pool.Sample(rng, 4, 1)
	assert.True(t, errors.Is(err, base.ErrConfiguration))
	assert.Equal(t, 1, pool.CountNegatives(u1))
	assert.Equal(t, 0, pool.CountNegatives(4))
}

func testPoolSampleDistinct(t *testing.T, pool Pool, table *Table) {
	observed, _ := observedItems(t, table)
	rng := base.NewRandomGenerator(0)
	for user, seen := range observed {
		available := pool.CountNegatives(user)
		for _, n := range []int{1, available / 4, available / 2, available} {
			sampled, err := pool.Sample(rng, user, n)
			require.NoError(t, err)
			assert.Len(t, sampled, n)
			sampledSet := mapset.NewSet(sampled...)
			assert.Equal(t, n, sampledSet.Cardinality())
			assert.True(t, sampledSet.Intersect(seen).IsEmpty())
		}
	}
}

func TestNegativePool_Sample(t *testing.T) {
	pool, err := BuildNegativePool(newScenarioTable(t), DefaultUserColumn, DefaultItemColumn)
	require.NoError(t, err)
	testPoolSample(t, pool)

	table := newRandomTable(t, 30, 100, 500, 2)
	pool, err = BuildNegativePool(table, DefaultUserColumn, DefaultItemColumn)
	require.NoError(t, err)
	testPoolSampleDistinct(t, pool, table)
}

func TestRejectionPool_Sample(t *testing.T) {
	pool, err := BuildRejectionPool(newScenarioTable(t), DefaultUserColumn, DefaultItemColumn)
	require.NoError(t, err)
	assert.Equal(t, []int64{a, b, c}, pool.Items())
	assert.True(t, pool.Contains(u1))
	testPoolSample(t, pool)

	table := newRandomTable(t, 30, 100, 500, 2)
	pool, err = BuildRejectionPool(table, DefaultUserColumn, DefaultItemColumn)
	require.NoError(t, err)
	testPoolSampleDistinct(t, pool, table)

	_, err = BuildRejectionPool(table, "user", DefaultItemColumn)
	assert.True(t, errors.Is(err, base.ErrConfiguration))
}

func TestPool_SameNegatives(t *testing.T) {
	table := newRandomTable(t, 20, 30, 200, 3)
	materialized, err := BuildNegativePool(table, DefaultUserColumn, DefaultItemColumn)
	require.NoError(t, err)
	rejection, err := BuildRejectionPool(table, DefaultUserColumn, DefaultItemColumn)
	require.NoError(t, err)
	rng := base.NewRandomGenerator(0)
	for _, user := range materialized.Users() {
		negatives, _ := materialized.Negatives(user)
		assert.Equal(t, len(negatives), rejection.CountNegatives(user))
		sampled, err := rejection.Sample(rng, user, len(negatives))
		require.NoError(t, err)
		assert.ElementsMatch(t, negatives, sampled)
	}
}

func TestNegativePool_Uniform(t *testing.T) {
	// u2 has negatives {b, c}; each should be drawn about half of the time.
	for _, build := range []func(*Table, string, string) (Pool, error){
		func(table *Table, u, i string) (Pool, error) { return BuildNegativePool(table, u, i) },
		func(table *Table, u, i string) (Pool, error) { return BuildRejectionPool(table, u, i) },
	} {
		pool, err := build(newScenarioTable(t), DefaultUserColumn, DefaultItemColumn)
		require.NoError(t, err)
		rng := base.NewRandomGenerator(0)
		count := 0
		for i := 0; i < 10000; i++ {
			sampled, err := pool.Sample(rng, u2, 1)
			require.NoError(t, err)
			if sampled[0] == b {
				count++
			}
		}
		assert.InDelta(t, 5000, count, 300)
	}
}
