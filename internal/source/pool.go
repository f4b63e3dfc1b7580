// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"runtime"
	"sync"
)

// Result is the outcome of processing one input.
type Result[T any] struct {
	Value T
	Err   error
}

// Map applies fn to every input using at most concurrency goroutines and
// returns the results in input order. If concurrency <= 0 it defaults to
// runtime.NumCPU(). Inputs not started before ctx is done get ctx's error.
func Map[In, Out any](ctx context.Context, inputs []In, concurrency int, fn func(context.Context, In) (Out, error)) []Result[Out] {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	results := make([]Result[Out], len(inputs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(concurrency, len(inputs)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i].Err = err
					continue
				}
				v, err := fn(ctx, inputs[i])
				results[i] = Result[Out]{Value: v, Err: err}
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
