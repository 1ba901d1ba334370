// Package executor dispatches a batch of ready tasks to their worker
// placements in parallel, bounded by a configured pool size. The scheduler
// treats it as a single blocking call: the batch either fully succeeds or
// the run fails.
package executor
