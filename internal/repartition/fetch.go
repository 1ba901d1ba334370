package repartition

import (
	"fmt"

	"github.com/vk/repartd/internal/command"
	"github.com/vk/repartd/internal/task"
)

// BuildFetchQueries synthesizes and assigns the query string of every fetch
// task. Each fetch task depends on exactly one map task, the one that wrote
// the partition file being fetched.
//
// The producer's first placement is always the fetch source. When the map
// task ran with replication, the batch executor has already guaranteed that
// every replica succeeded before any fetch task becomes ready, so any
// replica is a valid source; the first is chosen for determinism.
func BuildFetchQueries(fetchTasks []*task.Task) error {
	for _, fetchTask := range fetchTasks {
		queryString, err := fetchQueryString(fetchTask)
		if err != nil {
			return err
		}
		fetchTask.QueryString = queryString
	}
	return nil
}

// fetchQueryString builds the fetch command for one fetch task from its
// producing map task.
func fetchQueryString(fetchTask *task.Task) (string, error) {
	if fetchTask.Type != task.MapOutputFetchTask {
		return "", fmt.Errorf("%w: task %s is %s, expected %s",
			ErrMalformedDAG, fetchTask.Identity(), fetchTask.Type, task.MapOutputFetchTask)
	}
	if len(fetchTask.DependedTasks) != 1 {
		return "", fmt.Errorf("%w: fetch task %s has %d depended tasks, expected exactly one map task",
			ErrMalformedDAG, fetchTask.Identity(), len(fetchTask.DependedTasks))
	}

	mapTask := fetchTask.DependedTasks[0]
	if mapTask.Type != task.MapTask {
		return "", fmt.Errorf("%w: fetch task %s depends on %s task %s, expected %s",
			ErrMalformedDAG, fetchTask.Identity(), mapTask.Type, mapTask.Identity(), task.MapTask)
	}
	if len(mapTask.Placements) == 0 {
		return "", fmt.Errorf("%w: map task %s has no placements", ErrMalformedDAG, mapTask.Identity())
	}

	source := mapTask.Placements[0]
	return command.FetchPartitionFile(mapTask.JobID, mapTask.TaskID,
		fetchTask.PartitionID, fetchTask.UpstreamTaskID, source), nil
}
