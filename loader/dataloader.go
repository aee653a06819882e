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
	"context"
	"iter"

	"github.com/gorse-io/gorse-sampler/base"
	"github.com/gorse-io/gorse-sampler/base/parallel"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Dataset is a finite sequence of examples addressed by index.
type Dataset[E any] interface {
	Len() int
	Get(index int) (E, error)
}

// Replicable datasets can be copied for concurrent workers. Replicas must not share
// mutable state, in particular random generators.
type Replicable[E any] interface {
	Dataset[E]
	Replicate(seed int64) Dataset[E]
}

// CollateFunc assembles fetched examples into a batch.
type CollateFunc[E, B any] func([]E) (B, error)

// Options configures a DataLoader.
type Options struct {
	// BatchSize is the number of examples per batch. The last batch may be shorter.
	BatchSize int
	// Shuffle visits examples in a new random order in every epoch.
	Shuffle bool
	// Workers is the number of goroutines fetching examples of a batch. Datasets
	// that are not Replicable are always fetched by one goroutine.
	Workers int
	// Seed seeds the shuffling and the worker replicas.
	Seed int64
}

// DataLoader iterates over a dataset in batches.
type DataLoader[E, B any] struct {
	dataset  Dataset[E]
	replicas []Dataset[E]
	collate  CollateFunc[E, B]
	options  Options
	rng      base.RandomGenerator
}

// NewDataLoader creates a loader. Replicas for workers are created once, so every
// worker keeps its own random stream across epochs.
func NewDataLoader[E, B any](dataset Dataset[E], collate CollateFunc[E, B], options Options) (*DataLoader[E, B], error) {
	if options.BatchSize <= 0 {
		return nil, base.ConfigurationErrorf("batch size must be positive, but got %d", options.BatchSize)
	}
	options.Workers = max(options.Workers, 1)
	loader := &DataLoader[E, B]{
		dataset: dataset,
		collate: collate,
		options: options,
		rng:     base.NewRandomGenerator(options.Seed),
	}
	if replicable, ok := dataset.(Replicable[E]); ok && options.Workers > 1 {
		loader.replicas = make([]Dataset[E], options.Workers)
		for i := range loader.replicas {
			loader.replicas[i] = replicable.Replicate(loader.rng.Int63())
		}
	} else {
		loader.options.Workers = 1
		loader.replicas = []Dataset[E]{dataset}
	}
	return loader, nil
}

// Len returns the number of batches per epoch.
func (l *DataLoader[E, B]) Len() int {
	return (l.dataset.Len() + l.options.BatchSize - 1) / l.options.BatchSize
}

// Options returns the effective options.
func (l *DataLoader[E, B]) Options() Options {
	return l.options
}

// Batches iterates over one epoch. Iteration stops after the first error, which is
// yielded together with a zero batch. Batches must not be iterated concurrently.
func (l *DataLoader[E, B]) Batches(ctx context.Context) iter.Seq2[B, error] {
	return func(yield func(B, error) bool) {
		var zero B
		indices := lo.Range(l.dataset.Len())
		if l.options.Shuffle {
			l.rng.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
		for begin := 0; begin < len(indices); begin += l.options.BatchSize {
			if err := ctx.Err(); err != nil {
				yield(zero, errors.Trace(err))
				return
			}
			batch, err := l.load(ctx, indices[begin:min(begin+l.options.BatchSize, len(indices))])
			if err != nil {
				yield(zero, errors.Trace(err))
				return
			}
			if !yield(batch, nil) {
				return
			}
		}
	}
}

func (l *DataLoader[E, B]) load(ctx context.Context, indices []int) (B, error) {
	var zero B
	examples := make([]E, len(indices))
	err := parallel.Parallel(ctx, len(indices), l.options.Workers, func(workerId, jobId int) error {
		example, err := l.replicas[workerId].Get(indices[jobId])
		if err != nil {
			return errors.Trace(err)
		}
		examples[jobId] = example
		return nil
	})
	if err != nil {
		return zero, errors.Trace(err)
	}
	return l.collate(examples)
}
