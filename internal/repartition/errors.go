package repartition

import "errors"

// ErrPriorModification means a data-modifying statement already ran earlier
// in the enclosing unit of work. Repartition runs do not carry that
// transaction to the workers, so the workers could never see those
// modifications; the run must fail before any worker is contacted.
var ErrPriorModification = errors.New("repartition run cannot follow data modifications in the same unit of work")

// ErrMalformedDAG means the planner handed over a graph that violates the
// engine's structural invariants. This is an internal fault, not a
// user-recoverable error.
var ErrMalformedDAG = errors.New("malformed task graph")
