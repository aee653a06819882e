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

package parallel

import (
	"context"
	"sync"

	"github.com/juju/errors"
)

const chanSize = 1024

// Parallel runs nJobs jobs on nWorkers workers. worker receives the id of the
// executing worker, in [0, nWorkers), and the id of the job. The first failing job
// stops all workers and its error is returned; a panic inside a job is returned as
// an error too. The ctx argument allows callers to cancel outstanding work.
func Parallel(ctx context.Context, nJobs, nWorkers int, worker func(workerId, jobId int) error) error {
	if nWorkers <= 1 {
		for i := 0; i < nJobs; i++ {
			if err := ctx.Err(); err != nil {
				return errors.Trace(err)
			}
			if err := worker(0, i); err != nil {
				return errors.Trace(err)
			}
		}
		return nil
	}
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c := make(chan int, chanSize)
	// producer
	go func() {
		defer close(c)
		for i := 0; i < nJobs; i++ {
			select {
			case <-jobCtx.Done():
				return
			case c <- i:
			}
		}
	}()
	// consumer
	var wg sync.WaitGroup
	errs := make([]error, nJobs)
	for j := 0; j < nWorkers; j++ {
		workerId := j
		wg.Go(func() {
			jobId := -1
			defer func() {
				if r := recover(); r != nil && jobId >= 0 {
					errs[jobId] = errors.Errorf("panic in job %d: %v", jobId, r)
					cancel()
				}
			}()
			for {
				select {
				case <-jobCtx.Done():
					return
				case id, ok := <-c:
					if !ok {
						return
					}
					jobId = id
					if err := worker(workerId, jobId); err != nil {
						errs[jobId] = err
						cancel()
						return
					}
				}
			}
		})
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	for _, err := range errs {
		if err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}
