package cluster

import (
	"context"
	"net"
	"strconv"
)

// WorkerNode identifies one worker by node name and port.
type WorkerNode struct {
	Name string
	Port int
}

// Addr returns the node's dialable "host:port" address.
func (n WorkerNode) Addr() string {
	return net.JoinHostPort(n.Name, strconv.Itoa(n.Port))
}

// Identity is the execution identity (role) a command batch runs under on
// the worker side. Broadcasts always pass it explicitly rather than relying
// on whoever issued the enclosing query, so schema objects end up owned by
// the same role on every worker.
type Identity string

// MaintenanceIdentity owns all job schemas and temp directories created by
// this engine.
const MaintenanceIdentity Identity = "repartd_maintenance"

// Membership answers which workers are currently active and readable. It is
// consulted fresh before every broadcast so node-list changes between phases
// are picked up.
type Membership interface {
	ActiveReadableNodes(ctx context.Context) ([]WorkerNode, error)
}

// Sender delivers a command list to a single worker inside one transaction.
// The batch is atomic per worker; there is no cross-worker atomicity.
type Sender interface {
	SendCommandsInTransaction(ctx context.Context, node WorkerNode, as Identity, commands []string) error
}

// StaticMembership is a fixed node list, typically loaded from the cluster
// topology file.
type StaticMembership struct {
	nodes []WorkerNode
}

// NewStaticMembership copies the given node list into a Membership.
func NewStaticMembership(nodes []WorkerNode) *StaticMembership {
	copied := make([]WorkerNode, len(nodes))
	copy(copied, nodes)
	return &StaticMembership{nodes: copied}
}

// ActiveReadableNodes returns the configured node list.
func (m *StaticMembership) ActiveReadableNodes(ctx context.Context) ([]WorkerNode, error) {
	nodes := make([]WorkerNode, len(m.nodes))
	copy(nodes, m.nodes)
	return nodes, nil
}
