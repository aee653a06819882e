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
	"time"

	"github.com/gorse-io/gorse-sampler/base"
	"github.com/gorse-io/gorse-sampler/base/log"
	"github.com/gorse-io/gorse-sampler/config"
	"github.com/gorse-io/gorse-sampler/dataset"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Loader builds the negative pool of a full interaction table once and creates
// batch loaders for any slice of that table.
type Loader struct {
	config *config.Config
	pool   dataset.Pool
	rng    base.RandomGenerator
}

// GetOptions configures the batches of one call to Loader.Get.
type GetOptions struct {
	NegPerPos int
	BatchSize int
	Shuffle   bool
	Workers   int
}

// NewLoader validates the configuration and builds the negative pool from the full
// table. A nil configuration means the default configuration.
func NewLoader(full *dataset.Table, cfg *config.Config) (*Loader, error) {
	if cfg == nil {
		cfg = config.GetDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	start := time.Now()
	var (
		pool dataset.Pool
		err  error
	)
	switch cfg.Sampler.PoolStrategy {
	case config.PoolStrategyRejection:
		pool, err = dataset.BuildRejectionPool(full, cfg.Dataset.UserColumn, cfg.Dataset.ItemColumn)
	default:
		pool, err = dataset.BuildNegativePool(full, cfg.Dataset.UserColumn, cfg.Dataset.ItemColumn)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	PoolUsers.Set(float64(pool.CountUsers()))
	PoolItems.Set(float64(pool.CountItems()))
	log.Logger().Debug("create loader",
		zap.String("pool_strategy", cfg.Sampler.PoolStrategy),
		zap.Int("n_interactions", full.Len()),
		zap.Duration("build_time", time.Since(start)))
	return &Loader{
		config: cfg,
		pool:   pool,
		rng:    base.NewLockedRandomGenerator(cfg.Sampler.Seed),
	}, nil
}

// Pool returns the negative pool shared by all batch loaders.
func (l *Loader) Pool() dataset.Pool {
	return l.pool
}

// DefaultGetOptions returns the options found in the configuration.
func (l *Loader) DefaultGetOptions() GetOptions {
	return GetOptions{
		NegPerPos: l.config.Sampler.NegPerPos,
		BatchSize: l.config.Loader.BatchSize,
		Shuffle:   l.config.Loader.Shuffle,
		Workers:   l.config.Loader.Workers,
	}
}

// Get creates a batch loader over the positive interactions of data. Every user of
// data must appear in the full table. Each call draws fresh seeds, so loaders
// created by successive calls sample independently, and the sequence of loaders is
// reproducible for a fixed configured seed. Get is safe for concurrent use.
func (l *Loader) Get(data *dataset.Table, opts GetOptions) (*DataLoader[Example, *Batch], error) {
	source, err := NewExampleSource(data, l.pool, opts.NegPerPos,
		base.NewRandomGenerator(l.rng.Int63()), l.config.Dataset.UserColumn, l.config.Dataset.ItemColumn)
	if err != nil {
		return nil, errors.Trace(err)
	}
	dataLoader, err := NewDataLoader[Example, *Batch](source, Collate, Options{
		BatchSize: opts.BatchSize,
		Shuffle:   opts.Shuffle,
		Workers:   opts.Workers,
		Seed:      l.rng.Int63(),
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return dataLoader, nil
}
