// Package sse fans run events out to Server-Sent Events clients.
package sse

import (
	"context"
	"time"
)

// Event is one SSE message: "event: <Type>\ndata: <JSON>\n\n".
type Event struct {
	Type string
	Data any
	ID   string
}

// Event types published for crawl runs.
const (
	EventTypeRunStarted  = "run:started"
	EventTypeRunProgress = "run:progress"
	EventTypeRunRecord   = "run:record"
	EventTypeRunTerminal = "run:terminal"

	eventTypeConnected = "connected"
)

// Defaults.
const (
	DefaultEventBufferSize   = 256
	DefaultClientBufferSize  = 64
	DefaultHeartbeatInterval = 15 * time.Second
	DefaultMaxClients        = 100
)

// Broker distributes published events to subscribers.
type Broker interface {
	// Publish queues an event. It fails instead of blocking when the queue
	// is full.
	Publish(ctx context.Context, event Event) error
	// Subscribe returns a channel of events and a cleanup function. The
	// channel is closed on unsubscribe, client disconnect or Stop.
	Subscribe(ctx context.Context) (<-chan Event, func(), error)
	Start(ctx context.Context) error
	Stop() error
	ClientCount() int
}

// BrokerOption configures a broker.
type BrokerOption func(*broker)

// WithEventBufferSize sets the publish queue size.
func WithEventBufferSize(size int) BrokerOption {
	return func(b *broker) {
		if size > 0 {
			b.eventBufferSize = size
		}
	}
}

// WithClientBufferSize sets the per-client buffer size.
func WithClientBufferSize(size int) BrokerOption {
	return func(b *broker) {
		if size > 0 {
			b.clientBufferSize = size
		}
	}
}

// WithMaxClients limits concurrent subscribers. Zero means unlimited.
func WithMaxClients(n int) BrokerOption {
	return func(b *broker) {
		if n >= 0 {
			b.maxClients = n
		}
	}
}

// WithHeartbeatInterval sets how often idle streams get a comment line.
func WithHeartbeatInterval(d time.Duration) BrokerOption {
	return func(b *broker) {
		if d > 0 {
			b.heartbeatInterval = d
		}
	}
}
