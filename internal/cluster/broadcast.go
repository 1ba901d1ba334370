package cluster

import (
	"context"
	"fmt"

	"github.com/vk/repartd/internal/ctxlog"
)

// Broadcast sends the command list to every currently active, readable
// worker, one transaction per worker. The membership lookup happens at call
// time. The first worker failure aborts the broadcast; partial provisioning
// is never acceptable because the workers that missed the batch would later
// fail with a confusing secondary error.
func Broadcast(ctx context.Context, membership Membership, sender Sender, as Identity, commands []string) error {
	logger := ctxlog.FromContext(ctx)

	nodes, err := membership.ActiveReadableNodes(ctx)
	if err != nil {
		return fmt.Errorf("listing active workers: %w", err)
	}
	logger.Debug("Broadcasting command list.", "workers", len(nodes), "commands", len(commands), "as", string(as))

	for _, node := range nodes {
		if err := sender.SendCommandsInTransaction(ctx, node, as, commands); err != nil {
			return fmt.Errorf("worker %s: %w", node.Addr(), err)
		}
	}
	return nil
}
