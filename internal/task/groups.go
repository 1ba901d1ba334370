package task

// SplitTaskGroups partitions the task list into the fetch-task and
// merge-task groups with a single linear scan, preserving the original
// relative order. Either group may come back empty; a run with no
// intermediate fetch step is valid.
func SplitTaskGroups(all []*Task) (fetchTasks, mergeTasks []*Task) {
	for _, t := range all {
		switch t.Type {
		case MapOutputFetchTask:
			fetchTasks = append(fetchTasks, t)
		case MergeTask:
			mergeTasks = append(mergeTasks, t)
		}
	}
	return fetchTasks, mergeTasks
}

// AndExecutionList expands the top-level tasks into the full collection that
// must execute: every task reachable through DependedTasks, deduplicated by
// identity, in breadth-first discovery order starting from the top-level
// list itself.
func AndExecutionList(topLevelTasks []*Task) []*Task {
	var all []*Task
	seen := make(map[Identity]struct{})

	queue := make([]*Task, len(topLevelTasks))
	copy(queue, topLevelTasks)

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		id := t.Identity()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		all = append(all, t)
		queue = append(queue, t.DependedTasks...)
	}
	return all
}
