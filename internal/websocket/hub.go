package websocket

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/ikkim/directorio-backend/pkg/logger"
)

// Client message types
const (
	MessageName = "name" // value is a company name; the slug is derived from it
	MessageSlug = "slug" // value is a manually typed slug
)

// Server message types
const (
	MessageCandidate = "candidate"
	MessageResult    = "result"
	MessageError     = "error"
)

// Watcher checks slug candidates for one connection and reports results
// asynchronously.
type Watcher interface {
	Input(name string) string
	SetCandidate(candidate string)
	Close()
}

type ClientMessage struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type ServerMessage struct {
	Type      string `json:"type"`
	Candidate string `json:"candidate,omitempty"`
	Status    string `json:"status,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Client is one live slug check connection.
type Client struct {
	Hub     *Hub
	Conn    *Conn
	ID      string
	OwnerID uint // 0 for anonymous wizard sessions
	Send    chan []byte
	Watcher Watcher

	mu     sync.Mutex
	closed bool

	MessageCount  int
	LastResetTime time.Time
	RateMu        sync.Mutex
}

func NewClient(hub *Hub, conn *Conn, id string, ownerID uint) *Client {
	return &Client{
		Hub:     hub,
		Conn:    conn,
		ID:      id,
		OwnerID: ownerID,
		Send:    make(chan []byte, 16),
	}
}

// Deliver queues a message for the client. Messages to a closed or saturated
// client are dropped.
func (c *Client) Deliver(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal slug message", err, nil)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
		logger.Warn("Slug client send buffer full, message dropped", map[string]interface{}{
			"client_id": c.ID,
		})
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.Watcher != nil {
		c.Watcher.Close()
	}
	close(c.Send)
}

// Hub tracks live slug check connections.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
	}
}

// Run processes registrations until Shutdown is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Debug("Slug client registered", map[string]interface{}{
				"client_id": client.ID,
				"owner_id":  client.OwnerID,
				"total":     total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Shutdown closes every connection and stops Run.
func (h *Hub) Shutdown() {
	close(h.done)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleClientMessage feeds one client message to the client's watcher and
// echoes the candidate being checked.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"client_id": client.ID,
			"count":     count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		client.Deliver(ServerMessage{Type: MessageError, Reason: "bad_message"})
		return
	}

	var candidate string
	switch msg.Type {
	case MessageName:
		candidate = client.Watcher.Input(msg.Value)
	case MessageSlug:
		candidate = strings.TrimSpace(msg.Value)
		client.Watcher.SetCandidate(candidate)
	default:
		client.Deliver(ServerMessage{Type: MessageError, Reason: "unknown_type"})
		return
	}
	client.Deliver(ServerMessage{Type: MessageCandidate, Candidate: candidate})
}
