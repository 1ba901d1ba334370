// Package command builds the parameterized command strings sent to the
// worker-side command interpreter. The parameter order of each template is
// the wire contract; the exact syntax belongs to the workers.
package command
