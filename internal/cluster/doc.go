// Package cluster models the worker fleet: node addresses, membership
// lookups, and the per-worker single-transaction command channel used for
// schema provisioning and cleanup.
package cluster
