package hub

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/google/uuid"
)

const (
	reasonClosed      = "closed"
	reasonOverflow    = "queue_full"
	reasonWriteFailed = "write_failed"
)

// Conn is the outbound half of a push connection. Each Write sends one frame.
type Conn interface {
	io.Writer
	Close() error
}

// Client is one registered push connection.
type Client struct {
	id   string
	hub  *Hub
	conn Conn

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(h *Hub, conn Conn, queueSize int) *Client {
	return &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, queueSize),
		done: make(chan struct{}),
	}
}

// ID identifies the connection in logs.
func (c *Client) ID() string {
	return c.id
}

// Done is closed once the client has been unregistered.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// enqueue hands payload to the writer without blocking. It reports false when
// the client is gone or its queue is full.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			if _, err := c.conn.Write(payload); err != nil {
				c.hub.logger.Debug("push write failed",
					"client_id", c.id,
					"error", err,
				)
				c.hub.unregister(c, reasonWriteFailed)
				return
			}
		}
	}
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

type inboundFrame struct {
	Type string `json:"type"`
}

var pongFrame = []byte(`{"type":"pong"}`)

// HandleInbound processes one frame received from the client. Malformed
// frames are logged and discarded; they never close the connection.
// A ping is answered with a pong to this client only. Everything else is
// ignored.
func (h *Hub) HandleInbound(c *Client, raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		h.metrics.incInbound("malformed")
		h.logger.Warn("discarding malformed inbound frame",
			"client_id", c.ID(),
			"size", len(raw),
			"error", err,
		)
		return
	}
	switch frame.Type {
	case "ping":
		h.metrics.incInbound("ping")
		if !c.enqueue(pongFrame) {
			h.unregister(c, reasonOverflow)
		}
	default:
		h.metrics.incInbound("ignored")
		h.logger.Debug("ignoring inbound frame",
			"client_id", c.ID(),
			"type", frame.Type,
		)
	}
}
