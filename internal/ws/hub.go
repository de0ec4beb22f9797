package ws

import (
	"sync"

	"github.com/google/uuid"
)

// jsonWriter is the slice of *websocket.Conn the hub needs; tests substitute
// a fake.
type jsonWriter interface {
	WriteJSON(v any) error
}

// Client is one authenticated websocket connection. A client is bound to at
// most one conversation topic at a time; subscribing again moves it.
type Client struct {
	ID     uuid.UUID
	UserID int64

	mu   sync.Mutex
	conn jsonWriter
}

func NewClient(userID int64, conn jsonWriter) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		conn:   conn,
	}
}

// Send writes one frame. Serialized per connection; gorilla conns do not
// allow concurrent writers.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub is the process-wide registry mapping conversation topics to the
// connections subscribed to them, so a broadcast touches only that topic's
// subscribers. The binding table is ephemeral: reconnecting clients must
// re-subscribe.
type Hub struct {
	mu     sync.RWMutex
	topics map[int64]map[*Client]struct{}
	bound  map[*Client]int64
}

func NewHub() *Hub {
	return &Hub{
		topics: make(map[int64]map[*Client]struct{}),
		bound:  make(map[*Client]int64),
	}
}

// Subscribe binds the client to a conversation topic, replacing any previous
// binding.
func (h *Hub) Subscribe(c *Client, conversationID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.unbindLocked(c)
	if h.topics[conversationID] == nil {
		h.topics[conversationID] = make(map[*Client]struct{})
	}
	h.topics[conversationID][c] = struct{}{}
	h.bound[c] = conversationID
}

// Remove drops the client from the registry. Called on disconnect.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unbindLocked(c)
}

func (h *Hub) unbindLocked(c *Client) {
	if topic, ok := h.bound[c]; ok {
		if subs, ok := h.topics[topic]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.topics, topic)
			}
		}
		delete(h.bound, c)
	}
}

// TopicOf returns the client's current topic, or 0 if unbound.
func (h *Hub) TopicOf(c *Client) int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bound[c]
}

// Broadcast sends the payload to every connection subscribed to the topic,
// optionally excluding one client. Failed writes are best-effort; the dead
// connection's read loop cleans it up.
func (h *Hub) Broadcast(conversationID int64, payload any, exclude *Client) {
	h.mu.RLock()
	subs := make([]*Client, 0, len(h.topics[conversationID]))
	for c := range h.topics[conversationID] {
		if c != exclude {
			subs = append(subs, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range subs {
		_ = c.Send(payload)
	}
}
