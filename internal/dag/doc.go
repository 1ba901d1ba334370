// Package dag drains a task graph wave by wave: each wave is the set of
// tasks whose dependencies have all completed, dispatched as one batch, and
// no wave starts before the previous one has fully committed.
package dag
