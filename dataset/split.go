// Copyright 2020 gorse Project Authors
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
	"github.com/gorse-io/gorse-sampler/base"
	"github.com/juju/errors"
)

// RatioSplit splits a table into a train set and a test set. The test set receives
// int(rows * testRatio) random rows.
func RatioSplit(table *Table, testRatio float64, seed int64) (train, test *Table, err error) {
	if testRatio < 0 || testRatio > 1 {
		return nil, nil, base.ConfigurationErrorf("test ratio must be in [0, 1], but got %v", testRatio)
	}
	rng := base.NewRandomGenerator(seed)
	perm := rng.Perm(table.Len())
	testSize := int(float64(table.Len()) * testRatio)
	if test, err = table.Subset(perm[:testSize]); err != nil {
		return nil, nil, errors.Trace(err)
	}
	if train, err = table.Subset(perm[testSize:]); err != nil {
		return nil, nil, errors.Trace(err)
	}
	return train, test, nil
}

// UserLOOSplit holds out one random interaction of every user having more than one
// interaction. Users with a single interaction stay in the train set.
func UserLOOSplit(table *Table, userCol string, seed int64) (train, test *Table, err error) {
	users, err := table.Column(userCol)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	rows := make(map[int64][]int)
	for i, user := range users {
		rows[user] = append(rows[user], i)
	}
	rng := base.NewRandomGenerator(seed)
	heldOut := make([]bool, table.Len())
	// iterate rows rather than the map so that the split only depends on the seed
	for _, user := range users {
		userRows := rows[user]
		if len(userRows) > 1 {
			heldOut[userRows[rng.Intn(len(userRows))]] = true
			rows[user] = nil
		}
	}
	var trainIndex, testIndex []int
	for i, out := range heldOut {
		if out {
			testIndex = append(testIndex, i)
		} else {
			trainIndex = append(trainIndex, i)
		}
	}
	if train, err = table.Subset(trainIndex); err != nil {
		return nil, nil, errors.Trace(err)
	}
	if test, err = table.Subset(testIndex); err != nil {
		return nil, nil, errors.Trace(err)
	}
	return train, test, nil
}
