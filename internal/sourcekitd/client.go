package sourcekitd

import (
	"context"
	"fmt"
	"net"

	"github.com/sourcegraph/jsonrpc2"
)

// RPCClient speaks JSON-RPC 2.0 to a backend daemon over a stream
// connection. Requests suspend the calling goroutine only; replies are
// demultiplexed by the jsonrpc2 connection.
type RPCClient struct {
	conn *jsonrpc2.Conn
}

// Dial connects to the backend daemon. network/addr follow net.Dial
// ("unix", "/run/skd.sock" in the default deployment).
func Dial(ctx context.Context, network, addr string) (*RPCClient, error) {
	netConn, err := (&net.Dialer{}).DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend at %s: %w", addr, err)
	}
	stream := jsonrpc2.NewBufferedStream(netConn, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, noopHandler{})
	return &RPCClient{conn: conn}, nil
}

func (c *RPCClient) Complete(ctx context.Context, req CompleteRequest) (*Completion, error) {
	var result Completion
	if err := c.conn.Call(ctx, "codecomplete.open", req, &result); err != nil {
		return nil, fmt.Errorf("backend completion failed: %w", err)
	}
	return &result, nil
}

func (c *RPCClient) CompletionClose(ctx context.Context, handle string) error {
	if err := c.conn.Call(ctx, "codecomplete.close", struct {
		Handle string `json:"handle"`
	}{handle}, nil); err != nil {
		return fmt.Errorf("backend close failed: %w", err)
	}
	return nil
}

func (c *RPCClient) VariableTypes(ctx context.Context, req VariableTypesRequest) ([]VariableType, error) {
	var result struct {
		VariableTypes []VariableType `json:"variable_types"`
	}
	if err := c.conn.Call(ctx, "collect.variabletype", req, &result); err != nil {
		return nil, fmt.Errorf("backend type collection failed: %w", err)
	}
	return result.VariableTypes, nil
}

// Close tears down the RPC connection.
func (c *RPCClient) Close() error {
	return c.conn.Close()
}

// noopHandler drops backend-initiated notifications; the daemon only
// ever answers our calls.
type noopHandler struct{}

func (noopHandler) Handle(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) {}
