package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/repartd/internal/cluster"
	"github.com/vk/repartd/internal/ctxlog"
	"github.com/vk/repartd/internal/executor"
	"github.com/vk/repartd/internal/repartition"
)

// Run executes the configured invocation: either the out-of-band schema
// sweep or a full job run followed by the top-level tasks.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	membership := cluster.NewStaticMembership(a.model.Workers)
	maxParallel := int64(a.config.MaxParallel)
	runner := repartition.NewRunner(membership, a.sender, a.exec, repartition.NewTxState(), maxParallel)

	if a.config.Sweep {
		return runner.CleanupSchemas(ctx)
	}

	if len(a.model.TopLevelTasks) == 0 {
		return errors.New("job defines no top-level tasks")
	}

	a.logger.Info("Starting repartition run.",
		"tasks", len(a.model.AllTasks), "top_level", len(a.model.TopLevelTasks))
	if err := runner.ExecuteDependedTasks(ctx, a.model.TopLevelTasks, a.model.AllTasks); err != nil {
		return fmt.Errorf("repartition run failed: %w", err)
	}

	// The engine never dispatches top-level tasks; as the standalone caller,
	// the app runs them itself as the outer query's final step.
	a.logger.Info("Executing top-level tasks.", "count", len(a.model.TopLevelTasks))
	if err := a.exec.ExecuteTaskList(ctx, executor.RowModifyNone, a.model.TopLevelTasks, maxParallel); err != nil {
		return fmt.Errorf("executing top-level tasks: %w", err)
	}

	a.logger.Info("Run finished.")
	return nil
}
