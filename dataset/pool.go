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
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/gorse-sampler/base"
	"github.com/gorse-io/gorse-sampler/base/log"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Pool provides negative items for users. A pool is immutable once built and
// safe for concurrent reads; randomness comes from the caller's generator.
type Pool interface {
	// Contains reports whether the user appeared in the table the pool was built from.
	Contains(user int64) bool
	// CountUsers returns the number of users in the pool.
	CountUsers() int
	// CountItems returns the number of items in the catalog.
	CountItems() int
	// CountNegatives returns the number of items the user never interacted with.
	CountNegatives(user int64) int
	// Sample draws n distinct negative items of the user uniformly at random.
	Sample(rng base.RandomGenerator, user int64, n int) ([]int64, error)
}

// catalog is the result of grouping an interaction table by user.
type catalog struct {
	users    []int64
	items    []int64
	observed map[int64]mapset.Set[int64]
}

func newCatalog(table *Table, userCol, itemCol string) (*catalog, error) {
	users, err := table.Column(userCol)
	if err != nil {
		return nil, errors.Trace(err)
	}
	items, err := table.Column(itemCol)
	if err != nil {
		return nil, errors.Trace(err)
	}
	c := &catalog{
		items:    lo.Uniq(items),
		observed: make(map[int64]mapset.Set[int64]),
	}
	slices.Sort(c.items)
	for i, user := range users {
		seen, ok := c.observed[user]
		if !ok {
			seen = mapset.NewThreadUnsafeSet[int64]()
			c.observed[user] = seen
			c.users = append(c.users, user)
		}
		seen.Add(items[i])
	}
	slices.Sort(c.users)
	return c, nil
}

// NegativePool materializes, for every user, the sorted list of items the user
// never interacted with: all items of the table minus the user's observed items.
// Memory is O(users * items); see RejectionPool for the lazy alternative.
type NegativePool struct {
	users     []int64
	items     []int64
	negatives map[int64][]int64
}

// BuildNegativePool builds a negative pool from the full interaction table. Users
// who interacted with every item are kept with an empty pool.
func BuildNegativePool(table *Table, userCol, itemCol string) (*NegativePool, error) {
	c, err := newCatalog(table, userCol, itemCol)
	if err != nil {
		return nil, errors.Trace(err)
	}
	all := mapset.NewThreadUnsafeSet(c.items...)
	pool := &NegativePool{
		users:     c.users,
		items:     c.items,
		negatives: make(map[int64][]int64, len(c.users)),
	}
	emptyPools := 0
	for _, user := range c.users {
		negatives := all.Difference(c.observed[user]).ToSlice()
		slices.Sort(negatives)
		pool.negatives[user] = negatives
		if len(negatives) == 0 {
			emptyPools++
		}
	}
	log.Logger().Info("build negative pool",
		zap.Int("n_users", len(pool.users)),
		zap.Int("n_items", len(pool.items)),
		zap.Int("n_empty_pools", emptyPools))
	return pool, nil
}

// Users returns the sorted users of the pool.
func (p *NegativePool) Users() []int64 {
	return p.users
}

// Items returns the sorted item catalog.
func (p *NegativePool) Items() []int64 {
	return p.items
}

func (p *NegativePool) CountUsers() int {
	return len(p.users)
}

func (p *NegativePool) CountItems() int {
	return len(p.items)
}

// Negatives returns the negative items of a user. The returned slice must not be modified.
func (p *NegativePool) Negatives(user int64) ([]int64, bool) {
	negatives, ok := p.negatives[user]
	return negatives, ok
}

func (p *NegativePool) Contains(user int64) bool {
	_, ok := p.negatives[user]
	return ok
}

func (p *NegativePool) CountNegatives(user int64) int {
	return len(p.negatives[user])
}

// Sample draws n distinct negatives without replacement. It fails with
// base.ErrSampling if the user has fewer than n negatives, including an empty pool.
func (p *NegativePool) Sample(rng base.RandomGenerator, user int64, n int) ([]int64, error) {
	negatives, ok := p.negatives[user]
	if !ok {
		return nil, base.ConfigurationErrorf("user %d not found in negative pool", user)
	}
	if err := checkSampleSize(user, n, len(negatives)); err != nil {
		return nil, err
	}
	return lo.Map(rng.Sample(0, len(negatives), n), func(i int, _ int) int64 {
		return negatives[i]
	}), nil
}

func checkSampleSize(user int64, n, available int) error {
	if n < 0 {
		return base.ConfigurationErrorf("number of negatives must not be negative, but got %d", n)
	}
	if n > available {
		return base.SamplingErrorf("user %d has %d negatives, but %d are required", user, available, n)
	}
	return nil
}
