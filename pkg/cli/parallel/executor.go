// Package parallel provides bounded parallel execution of independent tasks.
//
// The orchestrator uses it to fan out live-status queries during store
// listing without letting an unbounded store count overwhelm the cluster
// API server.
package parallel

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	// minConcurrency is the minimum number of concurrent tasks.
	minConcurrency = 2
	// maxConcurrencyCap caps concurrency to avoid overwhelming the cluster API.
	maxConcurrencyCap = 8
)

// DefaultMaxConcurrency returns the default maximum concurrency based on available CPUs.
func DefaultMaxConcurrency() int64 {
	numCPU := int64(runtime.NumCPU())

	return min(max(numCPU, minConcurrency), maxConcurrencyCap)
}

// Executor provides controlled parallel execution of tasks.
type Executor struct {
	maxConcurrency int64
}

// NewExecutor creates a new parallel executor with the specified max concurrency.
// If maxConcurrency <= 0, DefaultMaxConcurrency() is used.
func NewExecutor(maxConcurrency int64) *Executor {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency()
	}

	return &Executor{maxConcurrency: maxConcurrency}
}

// Task represents a unit of work that can be executed in parallel.
type Task func(ctx context.Context) error

// Execute runs all tasks concurrently with controlled parallelism.
// It returns the first error encountered, canceling remaining tasks.
// If all tasks succeed, it returns nil.
func (executor *Executor) Execute(ctx context.Context, tasks ...Task) error {
	if len(tasks) == 0 {
		return nil
	}

	if len(tasks) == 1 {
		return tasks[0](ctx)
	}

	sem := semaphore.NewWeighted(executor.maxConcurrency)
	group, groupCtx := errgroup.WithContext(ctx)

	for _, task := range tasks {
		group.Go(func() error {
			acquireErr := sem.Acquire(groupCtx, 1)
			if acquireErr != nil {
				return fmt.Errorf("acquire semaphore: %w", acquireErr)
			}

			defer sem.Release(1)

			return task(groupCtx)
		})
	}

	waitErr := group.Wait()
	if waitErr != nil {
		return fmt.Errorf("parallel execution: %w", waitErr)
	}

	return nil
}
