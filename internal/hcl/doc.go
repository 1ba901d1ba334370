// Package hcl loads cluster topology and job task files written in HCL and
// resolves them into the engine's task and worker models. Job files are a
// harness around the engine: in an embedded deployment the planner hands the
// task collection over directly.
package hcl
