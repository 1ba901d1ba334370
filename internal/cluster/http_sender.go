package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vk/repartd/internal/ctxlog"
)

// transactionPath is the worker endpoint that applies a command batch in one
// transaction.
const transactionPath = "/transaction"

// transactionRequest is the wire payload for one transactional batch.
type transactionRequest struct {
	Role     string   `json:"role"`
	Commands []string `json:"commands"`
}

// HTTPSender delivers command batches to workers as JSON over HTTP. A non-2xx
// status from the worker fails the batch.
type HTTPSender struct {
	client *http.Client
}

// NewHTTPSender creates a sender around the given client. Passing nil uses a
// client with a conservative default timeout.
func NewHTTPSender(client *http.Client) *HTTPSender {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPSender{client: client}
}

// SendCommandsInTransaction posts the command list to the worker's
// transaction endpoint and treats any non-2xx response as a rejection of the
// whole batch.
func (s *HTTPSender) SendCommandsInTransaction(ctx context.Context, node WorkerNode, as Identity, commands []string) error {
	logger := ctxlog.FromContext(ctx)

	payload, err := json.Marshal(transactionRequest{Role: string(as), Commands: commands})
	if err != nil {
		return fmt.Errorf("encoding command batch: %w", err)
	}

	url := fmt.Sprintf("http://%s%s", node.Addr(), transactionPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request for %s: %w", node.Addr(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("Sending transactional command batch.", "worker", node.Addr(), "commands", len(commands))
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending command batch to %s: %w", node.Addr(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("worker %s rejected command batch: status %d: %s", node.Addr(), resp.StatusCode, string(body))
	}
	return nil
}
