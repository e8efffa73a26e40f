package sse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonesrussell/north-cloud/job-crawler/internal/logger"
)

var (
	// ErrBufferFull is returned by Publish when the queue is full.
	ErrBufferFull = errors.New("publish buffer full")
	// ErrTooManyClients is returned by Subscribe at the client limit.
	ErrTooManyClients = errors.New("too many SSE clients")
)

type broker struct {
	log     logger.Logger
	mu      sync.RWMutex
	clients map[string]*client
	publish chan Event

	cancel context.CancelFunc
	wg     sync.WaitGroup

	eventBufferSize   int
	clientBufferSize  int
	heartbeatInterval time.Duration
	maxClients        int
}

// NewBroker creates a broker. Call Start before publishing.
func NewBroker(log logger.Logger, opts ...BrokerOption) Broker {
	if log == nil {
		log = logger.NewNop()
	}
	b := &broker{
		log:               log,
		clients:           make(map[string]*client),
		eventBufferSize:   DefaultEventBufferSize,
		clientBufferSize:  DefaultClientBufferSize,
		heartbeatInterval: DefaultHeartbeatInterval,
		maxClients:        DefaultMaxClients,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.publish = make(chan Event, b.eventBufferSize)
	return b
}

func (b *broker) Start(ctx context.Context) error {
	ctx, b.cancel = context.WithCancel(ctx)

	b.wg.Add(1)
	go b.broadcastLoop(ctx)

	b.log.Info("SSE broker started",
		logger.Int("event_buffer_size", b.eventBufferSize),
		logger.Int("client_buffer_size", b.clientBufferSize),
		logger.Int("max_clients", b.maxClients),
	)
	return nil
}

func (b *broker) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	b.log.Info("SSE broker stopped")
	return nil
}

func (b *broker) Publish(ctx context.Context, event Event) error {
	select {
	case b.publish <- event:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish cancelled: %w", ctx.Err())
	default:
		return fmt.Errorf("%w: dropped %s", ErrBufferFull, event.Type)
	}
}

func (b *broker) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	b.mu.Lock()
	if b.maxClients > 0 && len(b.clients) >= b.maxClients {
		b.mu.Unlock()
		b.log.Warn("Max SSE clients reached, rejecting connection", logger.Int("max_clients", b.maxClients))
		return nil, nil, ErrTooManyClients
	}
	c := newClient(ctx, b.clientBufferSize)
	b.clients[c.id] = c
	b.mu.Unlock()

	b.log.Debug("Client subscribed", logger.String("client_id", c.id))

	go func() {
		<-c.ctx.Done()
		b.remove(c.id)
	}()

	return c.events, func() { b.remove(c.id) }, nil
}

func (b *broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *broker) broadcastLoop(ctx context.Context) {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.publish:
			b.broadcast(event)
		case <-ctx.Done():
			b.disconnectAll()
			return
		}
	}
}

func (b *broker) broadcast(event Event) {
	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for _, c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		if !c.send(event) {
			b.log.Warn("Client buffer full, closing slow connection",
				logger.String("client_id", c.id),
				logger.String("event_type", event.Type),
			)
			b.remove(c.id)
		}
	}
}

func (b *broker) remove(id string) {
	b.mu.Lock()
	c, ok := b.clients[id]
	delete(b.clients, id)
	b.mu.Unlock()

	if ok {
		c.close()
		b.log.Debug("Client disconnected", logger.String("client_id", id))
	}
}

func (b *broker) disconnectAll() {
	b.mu.Lock()
	clients := b.clients
	b.clients = make(map[string]*client)
	b.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}
