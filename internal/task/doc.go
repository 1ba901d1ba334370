// Package task defines the unit of remote work handled by the engine: the
// Task model produced by the planner, the (job, task) identity used for
// dependency bookkeeping, and the completed-set that backs readiness
// detection.
package task
