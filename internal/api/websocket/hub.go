package websocket

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fortuna/plutus/internal/publisher"
)

// Hub maintains the set of active clients and fans out refresh events
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan publisher.SeasonRefreshed
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	totalConnections int64
	totalMessages    int64
	metricsMu        sync.Mutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan publisher.SeasonRefreshed, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	log.Println("✓ WebSocket hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues a refresh event for every subscribed client
func (h *Hub) Broadcast(event publisher.SeasonRefreshed) {
	select {
	case h.broadcast <- event:
	default:
		log.Println("⚠️  Broadcast buffer full, dropping message")
	}
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.metricsMu.Lock()
	h.totalConnections++
	h.metricsMu.Unlock()

	log.Printf("client %s connected (total: %d)", c.ID, len(h.clients))
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		log.Printf("client %s disconnected (total: %d)", c.ID, len(h.clients))
	}
}

func (h *Hub) broadcastEvent(event publisher.SeasonRefreshed) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	message := ServerMessage{
		Type:      MessageTypeSeasonRefreshed,
		Payload:   event,
		Timestamp: time.Now(),
	}

	sent, dropped := 0, 0
	for _, c := range clients {
		if !c.getFilter().Matches(event) {
			continue
		}
		if c.trySend(message) {
			sent++
			continue
		}
		// too slow, disconnect
		dropped++
		h.unregisterClient(c)
	}

	h.metricsMu.Lock()
	h.totalMessages += int64(sent)
	h.metricsMu.Unlock()

	if dropped > 0 {
		log.Printf("⚠️  Dropped %d slow clients", dropped)
	}
}

// ClientCount returns the number of active clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Metrics returns hub counters
func (h *Hub) Metrics() map[string]interface{} {
	active := h.ClientCount()

	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":    active,
		"total_connections": h.totalConnections,
		"total_messages":    h.totalMessages,
	}
}

// shutdown closes all client connections
func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	log.Printf("Shutting down hub (%d active clients)", len(h.clients))

	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}
