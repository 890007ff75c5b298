// Package chain wraps the RISE chain capabilities: the low-latency shred
// push feed, receipt waiting, and one-shot tip transactions.
package chain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// Shred is one record from the low-latency push feed. Shreds are
// provider-defined; the payload is kept opaque.
type Shred = json.RawMessage

// ShredHandlers receives pushed shreds and delivered subscription errors
type ShredHandlers struct {
	OnShred func(Shred)
	OnError func(error)
}

// ShredWatcher is the chain capability's push-subscription primitive.
// WatchShreds returns the unsubscribe function for deterministic teardown.
type ShredWatcher interface {
	WatchShreds(ctx context.Context, h ShredHandlers) (func(), error)
}

// WSClient implements ShredWatcher over the chain's WebSocket endpoint
type WSClient struct {
	rpc *rpc.Client
}

// DialWS connects to the chain's WebSocket endpoint
func DialWS(ctx context.Context, wsURL string) (*WSClient, error) {
	client, err := rpc.DialContext(ctx, wsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to shred endpoint: %w", err)
	}
	return &WSClient{rpc: client}, nil
}

// WatchShreds subscribes to the shred feed and delivers records until the
// subscription errors or the returned unsubscribe function is called.
func (c *WSClient) WatchShreds(ctx context.Context, h ShredHandlers) (func(), error) {
	ch := make(chan Shred, 64)
	sub, err := c.rpc.Subscribe(ctx, "rise", ch, "shreds")
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to shreds: %w", err)
	}

	go func() {
		for {
			select {
			case shred, ok := <-ch:
				if !ok {
					return
				}
				if h.OnShred != nil {
					h.OnShred(shred)
				}
			case err := <-sub.Err():
				if err != nil && h.OnError != nil {
					h.OnError(err)
				}
				return
			}
		}
	}()

	return sub.Unsubscribe, nil
}

// Close tears down the WebSocket connection
func (c *WSClient) Close() {
	c.rpc.Close()
}
