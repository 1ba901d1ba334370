package executor

import (
	"context"

	"github.com/vk/repartd/internal/task"
)

// RowModify describes the row-modification behavior of a task batch. The
// scheduler always dispatches repartition batches with RowModifyNone; the
// other levels exist for the plain select/modify paths that share this
// interface.
type RowModify int

const (
	RowModifyNone RowModify = iota
	RowModifyReadOnly
	RowModifyCommutative
	RowModifyNoncommutative
)

// TaskExecutor runs one batch of tasks and returns only once every task has
// resolved. Any task failure, on any placement, fails the whole batch; retry
// policy, if any, lives behind this interface, never in the scheduler.
type TaskExecutor interface {
	ExecuteTaskList(ctx context.Context, mode RowModify, tasks []*task.Task, maxParallel int64) error
}
