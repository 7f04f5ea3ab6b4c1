package websocket

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/egor/engadvisor/metrics"
)

// outbound is addressed either to one client or to all clients of a session.
type outbound struct {
	client    *Client
	sessionID string
	data      []byte
}

// Hub tracks live WebSocket clients and routes messages to the clients of
// a session.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Messages waiting for delivery
	direct chan outbound

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	count   atomic.Int64
	metrics *metrics.Recorder
	logger  *zap.Logger
}

// NewHub creates a Hub. rec may be nil.
func NewHub(logger *zap.Logger, rec *metrics.Recorder) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		direct:     make(chan outbound),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		metrics:    rec,
		logger:     logger,
	}
}

// Run processes registrations and messages until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.count.Add(1)
			h.metrics.ClientConnected()
			h.logger.Debug("client connected", zap.String("session", client.SessionID), zap.Int("clients", len(h.clients)))
		case client := <-h.unregister:
			h.remove(client)
		case msg := <-h.direct:
			for client := range h.clients {
				if msg.client != nil && client != msg.client {
					continue
				}
				if msg.client == nil && client.SessionID != msg.sessionID {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					h.remove(client)
				}
			}
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.count.Add(-1)
	h.metrics.ClientDisconnected()
	h.logger.Debug("client disconnected", zap.String("session", client.SessionID), zap.Int("clients", len(h.clients)))
}

// Register adds client to the hub.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes client from the hub and closes its send channel.
// Unregistering twice is harmless.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendToSession delivers data to every client of sessionID.
func (h *Hub) SendToSession(sessionID string, data []byte) {
	h.deliver(outbound{sessionID: sessionID, data: data})
}

// sendTo delivers data to client if it is still registered.
func (h *Hub) sendTo(client *Client, data []byte) {
	h.deliver(outbound{client: client, data: data})
}

func (h *Hub) deliver(msg outbound) {
	select {
	case h.direct <- msg:
	case <-h.done:
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	return int(h.count.Load())
}
