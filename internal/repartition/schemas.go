package repartition

import (
	"context"
	"fmt"

	"github.com/vk/repartd/internal/cluster"
	"github.com/vk/repartd/internal/command"
	"github.com/vk/repartd/internal/ctxlog"
	"github.com/vk/repartd/internal/task"
)

// UniqueJobIDs collects the distinct job ids referenced by the merge tasks,
// preserving first-seen order. Dedup is a linear membership scan; the number
// of distinct jobs per run is small, typically one.
func UniqueJobIDs(mergeTasks []*task.Task) []uint64 {
	var jobIDs []uint64
	for _, t := range mergeTasks {
		if !jobIDExists(jobIDs, t.JobID) {
			jobIDs = append(jobIDs, t.JobID)
		}
	}
	return jobIDs
}

func jobIDExists(jobIDs []uint64, jobID uint64) bool {
	for _, existing := range jobIDs {
		if existing == jobID {
			return true
		}
	}
	return false
}

// createTemporarySchemas makes every job schema the merge tasks need exist
// on every worker before any task touches it, one transaction per worker.
// It returns the job id list so reclamation reuses it without re-deriving.
func (r *Runner) createTemporarySchemas(ctx context.Context, mergeTasks []*task.Task) ([]uint64, error) {
	jobIDs := UniqueJobIDs(mergeTasks)
	if len(jobIDs) == 0 {
		return nil, nil
	}

	ctxlog.FromContext(ctx).Debug("Creating job schemas on all workers.", "job_ids", jobIDs)
	createCommand := command.CreateSchemas(jobIDs)
	if err := cluster.Broadcast(ctx, r.membership, r.sender, cluster.MaintenanceIdentity, []string{createCommand}); err != nil {
		return nil, fmt.Errorf("creating job schemas: %w", err)
	}
	return jobIDs, nil
}

// removeTempJobDirs deletes the temporary on-disk job directories for the
// given job ids on every worker.
func (r *Runner) removeTempJobDirs(ctx context.Context, jobIDs []uint64) error {
	if len(jobIDs) == 0 {
		return nil
	}

	ctxlog.FromContext(ctx).Debug("Removing temporary job directories.", "job_ids", jobIDs)
	deleteCommand := command.DeleteJobDirs(jobIDs)
	if err := cluster.Broadcast(ctx, r.membership, r.sender, cluster.MaintenanceIdentity, []string{deleteCommand}); err != nil {
		return fmt.Errorf("removing job directories: %w", err)
	}
	return nil
}

// CleanupSchemas drops every job schema matching the engine's naming prefix
// on every worker. It is not part of the per-run happy path: it exists for
// out-of-band cleanup after crashes and is safe to run repeatedly.
func (r *Runner) CleanupSchemas(ctx context.Context) error {
	ctxlog.FromContext(ctx).Info("Sweeping job schemas on all workers.")
	if err := cluster.Broadcast(ctx, r.membership, r.sender, cluster.MaintenanceIdentity, []string{command.CleanupSchemas()}); err != nil {
		return fmt.Errorf("sweeping job schemas: %w", err)
	}
	return nil
}
