// Package websocket pushes salary refresh notifications to connected clients.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fortuna/plutus/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server represents the WebSocket server
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a WebSocket server and subscribes it to salaries' refreshes
func NewServer(port string, salaries *service.SalaryService) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		port:   port,
		hub:    NewHub(),
		ctx:    ctx,
		cancel: cancel,
	}

	if salaries != nil {
		salaries.OnRefresh(s.NotifyRefreshed)
	}

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: s.Handler(),
	}
	return s
}

// Handler exposes the routes, for embedding and tests
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/salaries", s.handleSalaries)
	mux.HandleFunc("/ws/health", s.handleHealth)
	return mux
}

// Hub returns the client hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start runs the hub and blocks serving connections
func (s *Server) Start() error {
	go s.hub.Run(s.ctx)

	log.Printf("WebSocket server listening on :%s", s.port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleSalaries upgrades the connection and subscribes it to refreshes
func (s *Server) handleSalaries(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := NewClient(conn, s.hub)
	s.hub.Register(client)

	client.trySend(ServerMessage{
		Type:      MessageTypeWelcome,
		Payload:   map[string]string{"client_id": client.ID},
		Timestamp: time.Now(),
	})

	go client.writePump(s.ctx)
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"clients": s.hub.ClientCount(),
		"metrics": s.hub.Metrics(),
	})
}

// NotifyRefreshed broadcasts a freshly scraped snapshot
func (s *Server) NotifyRefreshed(snap *service.Snapshot) {
	s.hub.Broadcast(snap.Event())
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	return s.server.Shutdown(ctx)
}
