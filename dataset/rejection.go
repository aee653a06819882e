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
	"github.com/bits-and-blooms/bitset"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/gorse-sampler/base"
	"github.com/gorse-io/gorse-sampler/base/log"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// RejectionPool keeps only the observed items of every user, as a bitset over the
// item catalog, and draws negatives by rejection sampling. It uses O(users * items / 8)
// bytes instead of materializing negative lists.
type RejectionPool struct {
	items    []int64
	observed map[int64]*bitset.BitSet
}

// BuildRejectionPool builds a rejection pool from the full interaction table.
func BuildRejectionPool(table *Table, userCol, itemCol string) (*RejectionPool, error) {
	c, err := newCatalog(table, userCol, itemCol)
	if err != nil {
		return nil, errors.Trace(err)
	}
	index := make(map[int64]uint, len(c.items))
	for i, item := range c.items {
		index[item] = uint(i)
	}
	pool := &RejectionPool{
		items:    c.items,
		observed: make(map[int64]*bitset.BitSet, len(c.users)),
	}
	for _, user := range c.users {
		bits := bitset.New(uint(len(c.items)))
		c.observed[user].Each(func(item int64) bool {
			bits.Set(index[item])
			return false
		})
		pool.observed[user] = bits
	}
	log.Logger().Info("build rejection pool",
		zap.Int("n_users", len(c.users)),
		zap.Int("n_items", len(c.items)))
	return pool, nil
}

// Items returns the sorted item catalog.
func (p *RejectionPool) Items() []int64 {
	return p.items
}

func (p *RejectionPool) CountUsers() int {
	return len(p.observed)
}

func (p *RejectionPool) CountItems() int {
	return len(p.items)
}

func (p *RejectionPool) Contains(user int64) bool {
	_, ok := p.observed[user]
	return ok
}

func (p *RejectionPool) CountNegatives(user int64) int {
	bits, ok := p.observed[user]
	if !ok {
		return 0
	}
	return len(p.items) - int(bits.Count())
}

// Sample draws n distinct negatives without replacement. Dense requests, n at least
// half of the available negatives, enumerate the complement instead of rejecting.
func (p *RejectionPool) Sample(rng base.RandomGenerator, user int64, n int) ([]int64, error) {
	bits, ok := p.observed[user]
	if !ok {
		return nil, base.ConfigurationErrorf("user %d not found in negative pool", user)
	}
	available := len(p.items) - int(bits.Count())
	if err := checkSampleSize(user, n, available); err != nil {
		return nil, err
	}
	sampled := make([]int64, 0, n)
	if 2*n >= available {
		candidates := make([]int64, 0, available)
		for i, item := range p.items {
			if !bits.Test(uint(i)) {
				candidates = append(candidates, item)
			}
		}
		for _, i := range rng.Sample(0, len(candidates), n) {
			sampled = append(sampled, candidates[i])
		}
		return sampled, nil
	}
	picked := mapset.NewThreadUnsafeSet[int]()
	for len(sampled) < n {
		i := rng.Intn(len(p.items))
		if !bits.Test(uint(i)) && !picked.Contains(i) {
			picked.Add(i)
			sampled = append(sampled, p.items[i])
		}
	}
	return sampled, nil
}
