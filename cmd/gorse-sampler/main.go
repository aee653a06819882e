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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gorse-io/gorse-sampler/base/log"
	"github.com/gorse-io/gorse-sampler/cmd/version"
	"github.com/gorse-io/gorse-sampler/config"
	"github.com/gorse-io/gorse-sampler/dataset"
	"github.com/gorse-io/gorse-sampler/loader"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var samplerCommand = &cobra.Command{
	Use:   "gorse-sampler",
	Short: "Generate batches of positive and sampled negative interactions.",
	Run: func(cmd *cobra.Command, args []string) {
		// Show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}

		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)
		defer log.CloseLogger()

		// load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		log.Logger().Info("load config", zap.String("config", configPath))
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err = run(ctx, cmd, conf); err != nil {
			log.Logger().Fatal("failed to generate batches", zap.Error(err))
		}
	},
}

func run(ctx context.Context, cmd *cobra.Command, conf *config.Config) error {
	// load interactions
	dataPath, _ := cmd.PersistentFlags().GetString("data")
	if dataPath == "" {
		return errors.New("data path is required")
	}
	mapIDs, _ := cmd.PersistentFlags().GetBool("map-ids")
	full, dicts, err := dataset.LoadCSVFile(dataPath, dataset.CSVOptions{
		Columns: []string{conf.Dataset.UserColumn, conf.Dataset.ItemColumn},
		MapIDs:  mapIDs,
	})
	if err != nil {
		return errors.Trace(err)
	}
	fields := []zap.Field{zap.String("data", dataPath), zap.Int("n_interactions", full.Len())}
	if dict, ok := dicts[conf.Dataset.UserColumn]; ok {
		fields = append(fields, zap.Int("n_users", dict.Count()))
	}
	if dict, ok := dicts[conf.Dataset.ItemColumn]; ok {
		fields = append(fields, zap.Int("n_items", dict.Count()))
	}
	log.Logger().Info("load interactions", fields...)

	// split interactions
	train := full
	testRatio, _ := cmd.PersistentFlags().GetFloat64("test-ratio")
	if testRatio > 0 {
		var test *dataset.Table
		train, test, err = dataset.RatioSplit(full, testRatio, conf.Sampler.Seed)
		if err != nil {
			return errors.Trace(err)
		}
		log.Logger().Info("split interactions",
			zap.Int("n_train", train.Len()),
			zap.Int("n_test", test.Len()))
	}

	// create loader
	l, err := loader.NewLoader(full, conf)
	if err != nil {
		return errors.Trace(err)
	}
	epochs, _ := cmd.PersistentFlags().GetInt("epochs")
	for epoch := 1; epoch <= epochs; epoch++ {
		dataLoader, err := l.Get(train, l.DefaultGetOptions())
		if err != nil {
			return errors.Trace(err)
		}
		start := time.Now()
		bar := progressbar.Default(int64(dataLoader.Len()), fmt.Sprintf("epoch %d/%d", epoch, epochs))
		nBatches, nExamples, nRows := 0, 0, 0
		for batch, err := range dataLoader.Batches(ctx) {
			if err != nil {
				return errors.Trace(err)
			}
			nBatches++
			nExamples += batch.CountExamples()
			nRows += batch.Len()
			_ = bar.Add(1)
		}
		_ = bar.Finish()
		log.Logger().Info("complete epoch",
			zap.Int("epoch", epoch),
			zap.Int("n_batches", nBatches),
			zap.Int("n_examples", nExamples),
			zap.Int("n_rows", nRows),
			zap.Duration("elapsed", time.Since(start)))
	}
	return nil
}

func init() {
	log.AddFlags(samplerCommand.PersistentFlags())
	samplerCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	samplerCommand.PersistentFlags().BoolP("version", "v", false, "gorse-sampler version")
	samplerCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	samplerCommand.PersistentFlags().String("data", "", "path of interactions in CSV format")
	samplerCommand.PersistentFlags().Float64("test-ratio", 0, "ratio of interactions held out from batches")
	samplerCommand.PersistentFlags().Int("epochs", 1, "number of epochs")
	samplerCommand.PersistentFlags().Bool("map-ids", false, "map string identifiers to dense indices")
}

func main() {
	if err := samplerCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
