package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Narayanansankar/ParkingDashboard/internal/models"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"` // "dashboard", "pong", "error"
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// ClientConnection represents a connected WebSocket client
type ClientConnection struct {
	ID    string
	Conn  *websocket.Conn
	Send  chan WebSocketMessage
	Close chan bool
}

// WebSocketHub manages all connected WebSocket clients
type WebSocketHub struct {
	clients    map[string]*ClientConnection
	broadcast  chan WebSocketMessage
	register   chan *ClientConnection
	unregister chan string
	mu         sync.RWMutex
	done       chan bool
}

var wsHub *WebSocketHub

// InitWebSocketHub initializes the WebSocket hub
func InitWebSocketHub() *WebSocketHub {
	wsHub = &WebSocketHub{
		clients:    make(map[string]*ClientConnection),
		broadcast:  make(chan WebSocketMessage, 256),
		register:   make(chan *ClientConnection),
		unregister: make(chan string),
		done:       make(chan bool),
	}

	go wsHub.run()

	return wsHub
}

// run manages the hub's event loop. The dashboard payload only goes
// out when a poll actually succeeds, not on a metronome.
func (h *WebSocketHub) run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Info().Str("client_id", client.ID).Int("total", total).Msg("websocket client connected")

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Info().Str("client_id", clientID).Int("total", total).Msg("websocket client disconnected")

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// client's send channel is full, skip this message
				}
			}
			h.mu.RUnlock()
		}
	}
}

// broadcastDashboard pushes a fresh dashboard view to every client.
func broadcastDashboard(view models.DashboardView) {
	if wsHub == nil {
		return
	}

	data, err := json.Marshal(view)
	if err != nil {
		log.Error().Err(err).Msg("marshal dashboard broadcast")
		return
	}

	msg := WebSocketMessage{
		Type:      "dashboard",
		Timestamp: time.Now(),
		Data:      json.RawMessage(data),
	}

	select {
	case wsHub.broadcast <- msg:
	default:
		// channel full, skip this broadcast
	}
}

// Register adds a new client to the hub
func (h *WebSocketHub) Register(client *ClientConnection) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(clientID string) {
	h.unregister <- clientID
}

// GetWebSocketHub returns the WebSocket hub
func GetWebSocketHub() *WebSocketHub {
	return wsHub
}

// StopWebSocketHub gracefully stops the hub
func StopWebSocketHub() {
	if wsHub != nil {
		wsHub.done <- true
	}
}
