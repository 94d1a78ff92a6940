package realtime

import (
	"encoding/json"
	"sync"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
)

const (
	EventOrderUpdate      = "orderUpdate"
	EventAdminOrderUpdate = "adminOrderUpdate"
	EventError            = "error"
	EventJoin             = "join"
)

// Message is the envelope of every frame exchanged with a client.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Event: event, Data: raw})
}

// Client is one live connection.
type Client struct {
	principal identity.Principal
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// guarded by Hub.mu
	joined map[kernel.UUID]struct{}
}

func newClient(principal identity.Principal, buffer int) *Client {
	return &Client{
		principal: principal,
		send:      make(chan []byte, buffer),
		done:      make(chan struct{}),
		joined:    make(map[kernel.UUID]struct{}),
	}
}

func (c *Client) Principal() identity.Principal {
	return c.principal
}

// Messages is drained by the connection's single writer.
func (c *Client) Messages() <-chan []byte {
	return c.send
}

// Done is closed once the client is disconnected.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// SendError queues an error event for this client only.
func (c *Client) SendError(message string) bool {
	frame, err := encode(EventError, message)
	if err != nil {
		return false
	}
	return c.enqueue(frame)
}

// enqueue never blocks. It reports false when the queue is full or the client is gone.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
