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

package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/gorse-io/gorse-sampler/base"
	"github.com/gorse-io/gorse-sampler/dataset"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

const (
	PoolStrategyMaterialized = "materialized"
	PoolStrategyRejection    = "rejection"
)

// Config is the configuration for the sampler.
type Config struct {
	Dataset DatasetConfig `mapstructure:"dataset"`
	Sampler SamplerConfig `mapstructure:"sampler"`
	Loader  LoaderConfig  `mapstructure:"loader"`
}

// DatasetConfig names the columns of the interaction table.
type DatasetConfig struct {
	UserColumn string `mapstructure:"user_column" validate:"required"`
	ItemColumn string `mapstructure:"item_column" validate:"required"`
}

// SamplerConfig configures negative sampling.
type SamplerConfig struct {
	NegPerPos    int    `mapstructure:"neg_per_pos" validate:"gte=0"`
	PoolStrategy string `mapstructure:"pool_strategy" validate:"oneof=materialized rejection"`
	Seed         int64  `mapstructure:"seed"`
}

// LoaderConfig configures batching.
type LoaderConfig struct {
	BatchSize int  `mapstructure:"batch_size" validate:"gt=0"`
	Shuffle   bool `mapstructure:"shuffle"`
	Workers   int  `mapstructure:"workers" validate:"gt=0"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			UserColumn: dataset.DefaultUserColumn,
			ItemColumn: dataset.DefaultItemColumn,
		},
		Sampler: SamplerConfig{
			NegPerPos:    4,
			PoolStrategy: PoolStrategyMaterialized,
		},
		Loader: LoaderConfig{
			BatchSize: 256,
			Shuffle:   true,
			Workers:   1,
		},
	}
}

// Validate checks the configuration. Violations satisfy errors.Is(err, base.ErrConfiguration).
func (config *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(config); err != nil {
		return errors.WithType(errors.Annotate(err, "invalid config"), base.ErrConfiguration)
	}
	return nil
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [dataset]
	v.SetDefault("dataset.user_column", defaultConfig.Dataset.UserColumn)
	v.SetDefault("dataset.item_column", defaultConfig.Dataset.ItemColumn)
	// [sampler]
	v.SetDefault("sampler.neg_per_pos", defaultConfig.Sampler.NegPerPos)
	v.SetDefault("sampler.pool_strategy", defaultConfig.Sampler.PoolStrategy)
	v.SetDefault("sampler.seed", defaultConfig.Sampler.Seed)
	// [loader]
	v.SetDefault("loader.batch_size", defaultConfig.Loader.BatchSize)
	v.SetDefault("loader.shuffle", defaultConfig.Loader.Shuffle)
	v.SetDefault("loader.workers", defaultConfig.Loader.Workers)
}

type configBinding struct {
	key string
	env string
}

var bindings = []configBinding{
	{"dataset.user_column", "GORSE_SAMPLER_USER_COLUMN"},
	{"dataset.item_column", "GORSE_SAMPLER_ITEM_COLUMN"},
	{"sampler.neg_per_pos", "GORSE_SAMPLER_NEG_PER_POS"},
	{"sampler.pool_strategy", "GORSE_SAMPLER_POOL_STRATEGY"},
	{"sampler.seed", "GORSE_SAMPLER_SEED"},
	{"loader.batch_size", "GORSE_SAMPLER_BATCH_SIZE"},
	{"loader.shuffle", "GORSE_SAMPLER_SHUFFLE"},
	{"loader.workers", "GORSE_SAMPLER_WORKERS"},
}

// LoadConfig loads configuration from a TOML file and environment variables. An
// empty path loads defaults and environment variables only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	for _, binding := range bindings {
		if err := v.BindEnv(binding.key, binding.env); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}
