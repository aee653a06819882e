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
	"sort"

	"github.com/gorse-io/gorse-sampler/base"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

const (
	DefaultUserColumn = "userID"
	DefaultItemColumn = "itemID"
)

// Table is an ordered set of interactions stored column by column. Every column
// has the same number of rows. Tables are never modified after construction.
type Table struct {
	names   []string
	columns map[string][]int64
	rows    int
}

// NewTable creates a table from named columns of equal length.
func NewTable(columns map[string][]int64) (*Table, error) {
	t := &Table{columns: make(map[string][]int64, len(columns))}
	t.rows = -1
	for name, values := range columns {
		if t.rows >= 0 && len(values) != t.rows {
			return nil, base.ConfigurationErrorf("column %s has %d rows, expected %d", name, len(values), t.rows)
		}
		t.rows = len(values)
		t.names = append(t.names, name)
		t.columns[name] = values
	}
	t.rows = max(t.rows, 0)
	sort.Strings(t.names)
	return t, nil
}

// NewTableFromPairs creates a table with the default user and item columns.
func NewTableFromPairs(users, items []int64) (*Table, error) {
	return NewTable(map[string][]int64{
		DefaultUserColumn: users,
		DefaultItemColumn: items,
	})
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Columns returns the sorted column names.
func (t *Table) Columns() []string {
	return t.names
}

// Column returns the values of a column. The returned slice must not be modified.
func (t *Table) Column(name string) ([]int64, error) {
	values, ok := t.columns[name]
	if !ok {
		return nil, base.ConfigurationErrorf("column %s not found in table with columns %v", name, t.names)
	}
	return values, nil
}

// Pairs returns the (user, item) pairs of the table in row order.
func (t *Table) Pairs(userCol, itemCol string) ([]lo.Tuple2[int64, int64], error) {
	users, err := t.Column(userCol)
	if err != nil {
		return nil, errors.Trace(err)
	}
	items, err := t.Column(itemCol)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return lo.Zip2(users, items), nil
}

// Subset creates a table from the given rows, in the given order.
func (t *Table) Subset(indices []int) (*Table, error) {
	for _, i := range indices {
		if i < 0 || i >= t.rows {
			return nil, base.ConfigurationErrorf("row %d out of range [0, %d)", i, t.rows)
		}
	}
	sub := &Table{
		names:   t.names,
		columns: make(map[string][]int64, len(t.columns)),
		rows:    len(indices),
	}
	for name, values := range t.columns {
		sub.columns[name] = lo.Map(indices, func(i int, _ int) int64 {
			return values[i]
		})
	}
	return sub, nil
}
