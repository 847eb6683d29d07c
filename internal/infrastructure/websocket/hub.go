// Package websocket pushes dashboard snapshots to browser pages and reads
// their selection change events.
package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/infrastructure/queue"
)

// Encoder turns a snapshot into the message sent to the browser.
type Encoder func(st domain.DashboardState) ([]byte, error)

// Hub tracks connected pages per topic and fans snapshots out to them.
type Hub struct {
	encode Encoder
	log    zerolog.Logger

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

var _ queue.Sink = (*Hub)(nil)

func NewHub(encode Encoder, log zerolog.Logger) *Hub {
	return &Hub{
		encode:  encode,
		log:     log.With().Str("component", "ws_hub").Logger(),
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Register adds c to its topic.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.topic] == nil {
		h.clients[c.topic] = make(map[*Client]struct{})
	}
	h.clients[c.topic][c] = struct{}{}
}

// Unregister removes c and closes its send queue.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	clients, ok := h.clients[c.topic]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.clients, c.topic)
	}
}

// Clients returns the number of pages connected to topic.
func (h *Hub) Clients(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

// Deliver sends the snapshot to every page of n.Topic. Pages that cannot keep
// up are disconnected.
func (h *Hub) Deliver(_ context.Context, n queue.Notification) {
	h.mu.RLock()
	if len(h.clients[n.Topic]) == 0 {
		h.mu.RUnlock()
		return
	}
	h.mu.RUnlock()

	msg, err := h.encode(n.State)
	if err != nil {
		h.log.Error().Err(err).Str("topic", n.Topic).Msg("snapshot encoding failed")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[n.Topic] {
		select {
		case c.send <- msg:
		default:
			h.log.Warn().Str("topic", n.Topic).Msg("slow client disconnected")
			h.removeLocked(c)
		}
	}
}

// Send queues msg for c alone, used for the initial snapshot.
func (h *Hub) Send(c *Client, msg []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.topic][c]; !ok {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// IsUnexpectedClose reports whether err is a close other than a normal or
// going-away one.
func IsUnexpectedClose(err error) bool {
	return websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
