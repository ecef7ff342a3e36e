package parallel_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekeep/storekeep/pkg/cli/parallel"
)

func TestDefaultMaxConcurrency_Bounds(t *testing.T) {
	t.Parallel()

	concurrency := parallel.DefaultMaxConcurrency()

	assert.GreaterOrEqual(t, concurrency, int64(2))
	assert.LessOrEqual(t, concurrency, int64(8))
}

func TestExecute_NoTasks(t *testing.T) {
	t.Parallel()

	executor := parallel.NewExecutor(4)

	require.NoError(t, executor.Execute(context.Background()))
}

func TestExecute_RunsEveryTask(t *testing.T) {
	t.Parallel()

	executor := parallel.NewExecutor(4)

	var counter atomic.Int64

	tasks := make([]parallel.Task, 20)
	for i := range tasks {
		tasks[i] = func(context.Context) error {
			counter.Add(1)

			return nil
		}
	}

	require.NoError(t, executor.Execute(context.Background(), tasks...))
	assert.Equal(t, int64(20), counter.Load())
}

func TestExecute_ReturnsFirstError(t *testing.T) {
	t.Parallel()

	executor := parallel.NewExecutor(2)

	err := executor.Execute(
		context.Background(),
		func(context.Context) error { return nil },
		func(context.Context) error { return assert.AnError },
	)

	require.Error(t, err)
	require.ErrorIs(t, err, assert.AnError)
}
