package sse

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

var clientIDCounter atomic.Int64

type client struct {
	id     string
	events chan Event
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

func newClient(ctx context.Context, bufferSize int) *client {
	clientCtx, cancel := context.WithCancel(ctx)
	return &client{
		id:     fmt.Sprintf("sse-client-%d", clientIDCounter.Add(1)),
		events: make(chan Event, bufferSize),
		ctx:    clientCtx,
		cancel: cancel,
	}
}

// send delivers event without blocking. It returns false for a closed or
// slow client.
func (c *client) send(event Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.events <- event:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	close(c.events)
}
