package dag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/repartd/internal/ctxlog"
	"github.com/vk/repartd/internal/executor"
	"github.com/vk/repartd/internal/task"
)

// ErrStuck is returned when the drain loop stops with tasks that never
// became ready: a dependency outside the task collection, or a cycle. The
// original algorithm reported success in this case; the explicit check keeps
// a malformed graph from silently under-executing.
var ErrStuck = errors.New("task graph cannot make progress")

// ExecuteInDependencyOrder runs every task in allTasks except the top-level
// ones, in dependency order. Top-level tasks belong to the caller (they are
// the outer query's final step); seeding them into the completed set keeps
// them out of every batch while still satisfying anything that depends on
// them.
//
// Readiness is recomputed from scratch each wave with a full rescan. That is
// quadratic in pathological graphs, but DAG depth is a handful of waves in
// practice and the rescan avoids the bookkeeping of incremental ready
// queues. A wave is a barrier: the executor call must commit every task in
// the batch before the next scan starts, because downstream tasks read
// intermediate files the current wave produces.
func ExecuteInDependencyOrder(ctx context.Context, allTasks, topLevelTasks []*task.Task, exec executor.TaskExecutor, maxParallel int64) error {
	logger := ctxlog.FromContext(ctx)

	completed := task.NewCompletedSet()
	completed.AddAll(topLevelTasks)

	wave := 0
	for {
		var batch []*task.Task
		for _, t := range allTasks {
			if completed.Contains(t.Identity()) {
				continue
			}
			if completed.AllDependenciesCompleted(t) {
				batch = append(batch, t)
			}
		}
		if len(batch) == 0 {
			break
		}

		wave++
		logger.Debug("Dispatching wave.", "wave", wave, "tasks", len(batch))
		if err := exec.ExecuteTaskList(ctx, executor.RowModifyNone, batch, maxParallel); err != nil {
			return fmt.Errorf("wave %d: %w", wave, err)
		}
		completed.AddAll(batch)
	}

	if stuck := unreachedTasks(allTasks, completed); len(stuck) > 0 {
		return fmt.Errorf("%w: %s", ErrStuck, strings.Join(stuck, ", "))
	}

	logger.Debug("All waves dispatched.", "waves", wave, "completed", completed.Len())
	return nil
}

// unreachedTasks lists the identities of tasks whose dependencies never all
// completed.
func unreachedTasks(allTasks []*task.Task, completed *task.CompletedSet) []string {
	var stuck []string
	for _, t := range allTasks {
		if !completed.Contains(t.Identity()) {
			stuck = append(stuck, t.Identity().String())
		}
	}
	return stuck
}
