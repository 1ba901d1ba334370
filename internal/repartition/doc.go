// Package repartition orchestrates one repartition query run: the pre-flight
// modification guard, fetch-query synthesis, per-job schema provisioning on
// every worker, the dependency-ordered drain of the task graph, and the
// post-run reclamation of temporary job state.
package repartition
