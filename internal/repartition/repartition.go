package repartition

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vk/repartd/internal/cluster"
	"github.com/vk/repartd/internal/ctxlog"
	"github.com/vk/repartd/internal/dag"
	"github.com/vk/repartd/internal/executor"
	"github.com/vk/repartd/internal/task"
)

// Runner executes repartition runs against one worker fleet. It owns no
// connections itself; the sender and executor collaborators do the remote
// work.
type Runner struct {
	membership  cluster.Membership
	sender      cluster.Sender
	exec        executor.TaskExecutor
	tracker     ModificationTracker
	maxParallel int64
}

// NewRunner wires a Runner from its collaborators. tracker may be nil when
// no enclosing unit of work exists.
func NewRunner(membership cluster.Membership, sender cluster.Sender, exec executor.TaskExecutor, tracker ModificationTracker, maxParallel int64) *Runner {
	return &Runner{
		membership:  membership,
		sender:      sender,
		exec:        exec,
		tracker:     tracker,
		maxParallel: maxParallel,
	}
}

// ExecuteDependedTasks runs every task in allTasks except the top-level
// ones, in dependency order. topLevelTasks are executed by the caller as the
// outer query's final step; allTasks is the fully expanded collection
// (task.AndExecutionList of the top-level tasks).
//
// The sequence is fixed: guard, classify, synthesize fetch queries,
// provision job schemas everywhere, drain the graph wave by wave, reclaim
// temp directories. Any failure aborts the run at that point; reclamation
// only happens after a fully successful drain.
func (r *Runner) ExecuteDependedTasks(ctx context.Context, topLevelTasks, allTasks []*task.Task) error {
	logger := ctxlog.FromContext(ctx).With("run_id", uuid.NewString())
	ctx = ctxlog.WithLogger(ctx, logger)

	if r.tracker != nil && r.tracker.ModificationsHappened() {
		return ErrPriorModification
	}

	fetchTasks, mergeTasks := task.SplitTaskGroups(allTasks)
	logger.Debug("Classified task collection.",
		"all", len(allTasks), "fetch", len(fetchTasks), "merge", len(mergeTasks))

	if err := BuildFetchQueries(fetchTasks); err != nil {
		return err
	}

	jobIDs, err := r.createTemporarySchemas(ctx, mergeTasks)
	if err != nil {
		return err
	}

	if err := dag.ExecuteInDependencyOrder(ctx, allTasks, topLevelTasks, r.exec, r.maxParallel); err != nil {
		return fmt.Errorf("executing task graph: %w", err)
	}

	if err := r.removeTempJobDirs(ctx, jobIDs); err != nil {
		return err
	}

	logger.Info("Repartition run completed.", "tasks", len(allTasks), "jobs", len(jobIDs))
	return nil
}
