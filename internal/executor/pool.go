package executor

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/vk/repartd/internal/cluster"
	"github.com/vk/repartd/internal/ctxlog"
	"github.com/vk/repartd/internal/task"
)

// Pool is the concrete TaskExecutor. It fans a batch out across worker
// connections, at most maxParallel in flight, and runs each task's query on
// every one of its placements. Requiring success on all replicas is what
// lets downstream fetch tasks source from any replica of their producer.
type Pool struct {
	sender cluster.Sender
	as     cluster.Identity
}

// NewPool creates a Pool that delivers task queries through the given
// sender under the given execution identity.
func NewPool(sender cluster.Sender, as cluster.Identity) *Pool {
	return &Pool{sender: sender, as: as}
}

// ExecuteTaskList implements TaskExecutor. The first task failure cancels
// the remaining in-flight work and is returned; there is no partial-success
// continuation.
func (p *Pool) ExecuteTaskList(ctx context.Context, mode RowModify, tasks []*task.Task, maxParallel int64) error {
	if len(tasks) == 0 {
		return nil
	}
	if maxParallel < 1 {
		maxParallel = 1
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Executing task batch.", "tasks", len(tasks), "max_parallel", maxParallel, "row_modify", int(mode))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(maxParallel)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, t := range tasks {
		if err := sem.Acquire(runCtx, 1); err != nil {
			// A failed task canceled the run; stop launching.
			break
		}
		wg.Add(1)
		go func(t *task.Task) {
			defer wg.Done()
			defer sem.Release(1)

			if err := p.runTask(runCtx, t); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				cancel()
			}
		}(t)
	}

	wg.Wait()
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// runTask sends the task's query to each of its placements in order. Every
// placement must succeed.
func (p *Pool) runTask(ctx context.Context, t *task.Task) error {
	if len(t.Placements) == 0 {
		return fmt.Errorf("task %s has no placements", t.Identity())
	}
	for _, node := range t.Placements {
		if err := p.sender.SendCommandsInTransaction(ctx, node, p.as, []string{t.QueryString}); err != nil {
			return fmt.Errorf("task %s on %s: %w", t.Identity(), node.Addr(), err)
		}
	}
	return nil
}
