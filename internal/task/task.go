package task

import (
	"fmt"

	"github.com/vk/repartd/internal/cluster"
)

// Type distinguishes the kinds of tasks a physical plan can contain.
type Type int

const (
	// SelectTask reads from shards; used by non-repartition paths.
	SelectTask Type = iota
	// ModifyTask changes rows on shards; used by non-repartition paths.
	ModifyTask
	// MapTask partitions a shard's rows into per-destination files.
	MapTask
	// MapOutputFetchTask copies one partition file from the worker that
	// produced it to the worker that will merge it.
	MapOutputFetchTask
	// MergeTask combines fetched partition files into one result.
	MergeTask
)

var typeNames = map[Type]string{
	SelectTask:         "select",
	ModifyTask:         "modify",
	MapTask:            "map",
	MapOutputFetchTask: "map_output_fetch",
	MergeTask:          "merge",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType converts a type name, as it appears in job files, into a Type.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown task type %q", name)
}

// Task is one unit of remote work bound to worker placements. Tasks are
// built once by the planner before execution starts; the engine reads them
// and tracks completion in its own bookkeeping, the single exception being
// the one-time assignment of fetch tasks' QueryString.
type Task struct {
	JobID  uint64
	TaskID uint32
	Type   Type

	// QueryString is the command text run on the worker. For fetch tasks it
	// is synthesized by the engine rather than supplied by the planner.
	QueryString string

	// DependedTasks lists the tasks that must complete before this one may
	// run. Entries belong to the same overall task collection; the edges
	// form a DAG.
	DependedTasks []*Task

	// Placements holds the candidate worker locations, one per replica.
	Placements []cluster.WorkerNode

	// PartitionID and UpstreamTaskID are only meaningful for fetch tasks:
	// which partition file to move, and the merge task awaiting it.
	PartitionID    uint32
	UpstreamTaskID uint32
}

// Identity returns the task's (job, task) key.
func (t *Task) Identity() Identity {
	return Identity{JobID: t.JobID, TaskID: t.TaskID}
}

// Identity is the (jobID, taskID) pair that uniquely names a task within a
// run. It is comparable and serves directly as a map key.
type Identity struct {
	JobID  uint64
	TaskID uint32
}

func (id Identity) String() string {
	return fmt.Sprintf("%d/%d", id.JobID, id.TaskID)
}
