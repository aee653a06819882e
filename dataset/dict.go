// Copyright 2025 gorse Project Authors
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

// FreqDict maps raw string identifiers to dense int64 indices in order of first
// appearance and counts how often each identifier was seen.
type FreqDict struct {
	si  map[string]int64
	is  []string
	cnt []int
}

func NewFreqDict() *FreqDict {
	return &FreqDict{si: map[string]int64{}}
}

// Count returns the number of distinct identifiers.
func (d *FreqDict) Count() int {
	return len(d.is)
}

// Id returns the index of s, assigning a new one if needed, and counts one occurrence.
func (d *FreqDict) Id(s string) int64 {
	if y, ok := d.si[s]; ok {
		d.cnt[y]++
		return y
	}
	y := int64(len(d.is))
	d.si[s] = y
	d.is = append(d.is, s)
	d.cnt = append(d.cnt, 1)
	return y
}

// Lookup returns the index of s without assigning or counting.
func (d *FreqDict) Lookup(s string) (int64, bool) {
	y, ok := d.si[s]
	return y, ok
}

// String returns the identifier for an index.
func (d *FreqDict) String(id int64) (string, bool) {
	if id < 0 || id >= int64(len(d.is)) {
		return "", false
	}
	return d.is[id], true
}

// Freq returns the number of occurrences of an index.
func (d *FreqDict) Freq(id int64) int {
	if id < 0 || id >= int64(len(d.cnt)) {
		return 0
	}
	return d.cnt[id]
}
