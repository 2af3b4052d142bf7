// Package hub fans domain events out to every live push connection.
//
// Delivery contract: at-most-once, no replay. Each connection owns a bounded
// queue drained by its own writer goroutine; Broadcast only enqueues, so it
// never waits on network I/O. A connection whose queue is full, or whose write
// fails, is treated as dead and unregistered. A client that reconnects must
// re-read state over request/response to resynchronize.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"clinicdesk/pkg/platform/sentinel"
)

const (
	defaultMaxConnections = 512
	defaultQueueSize      = 16
)

// Event is anything the hub can serialize and push. Kind labels metrics and
// logs; the wire form is the event's JSON encoding.
type Event interface {
	Kind() string
}

// Relay forwards serialized events to other server instances. Publish must
// not block on network I/O.
type Relay interface {
	Publish(payload []byte)
}

// Hub owns the set of live push connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool

	maxConnections int
	queueSize      int
	logger         *slog.Logger
	metrics        *Metrics
	relay          Relay
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the logger for connection lifecycle and inbound frame errors.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(h *Hub) {
		h.metrics = m
	}
}

// WithMaxConnections caps the connection set. Register refuses beyond it.
func WithMaxConnections(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.maxConnections = n
		}
	}
}

// WithQueueSize bounds each connection's outbound queue.
func WithQueueSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.queueSize = n
		}
	}
}

// WithRelay forwards every locally originated broadcast to other instances.
func WithRelay(r Relay) Option {
	return func(h *Hub) {
		h.relay = r
	}
}

// New constructs an empty Hub.
func New(opts ...Option) *Hub {
	h := &Hub{
		clients:        make(map[*Client]struct{}),
		maxConnections: defaultMaxConnections,
		queueSize:      defaultQueueSize,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds conn to the connection set and starts its writer.
// Returns sentinel.ErrCapacity when the ceiling is reached and
// sentinel.ErrClosed after Close.
func (h *Hub) Register(conn Conn) (*Client, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, sentinel.ErrClosed
	}
	if len(h.clients) >= h.maxConnections {
		h.mu.Unlock()
		h.metrics.incRejected()
		return nil, sentinel.ErrCapacity
	}
	c := newClient(h, conn, h.queueSize)
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.metrics.setConnections(n)
	go c.writeLoop()
	return c, nil
}

// Unregister removes c and closes its connection. Unregistering a client that
// is already gone is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.unregister(c, reasonClosed)
}

func (h *Hub) unregister(c *Client, reason string) {
	if c == nil {
		return
	}
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	c.shutdown()
	h.metrics.setConnections(n)
	if reason != reasonClosed {
		h.metrics.incDropped(reason)
		h.logger.Warn("push connection dropped",
			"client_id", c.ID(),
			"reason", reason,
		)
	}
}

// Broadcast serializes ev once and enqueues it for every live connection.
// It never blocks on a connection and never reports delivery failures to the
// caller; dead connections are unregistered.
func (h *Hub) Broadcast(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to serialize event",
			"kind", ev.Kind(),
			"error", err,
		)
		return
	}
	h.Deliver(ctx, ev.Kind(), payload)
	if h.relay != nil {
		h.relay.Publish(payload)
	}
}

// Deliver fans out an already serialized event to local connections only.
// The relay uses it for events that originated on another instance.
func (h *Hub) Deliver(ctx context.Context, kind string, payload []byte) {
	var dead []*Client
	delivered := 0

	h.mu.RLock()
	for c := range h.clients {
		if c.enqueue(payload) {
			delivered++
			continue
		}
		dead = append(dead, c)
	}
	h.mu.RUnlock()

	for _, c := range dead {
		h.unregister(c, reasonOverflow)
	}

	h.metrics.observeBroadcast(kind, delivered)
	h.logger.DebugContext(ctx, "event broadcast",
		"kind", kind,
		"delivered", delivered,
		"dropped", len(dead),
	)
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// AtCapacity reports whether Register would currently refuse a connection.
func (h *Hub) AtCapacity() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed || len(h.clients) >= h.maxConnections
}

// Close unregisters every connection and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c, reasonClosed)
	}
}
