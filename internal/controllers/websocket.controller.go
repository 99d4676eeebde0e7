package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Narayanansankar/ParkingDashboard/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// public dashboard, same policy as the REST endpoints
		return true
	},
}

// HandleWebSocket upgrades the connection and streams dashboard
// updates. The current view is sent immediately on connect so a fresh
// tab does not wait a whole poll interval for data.
func HandleWebSocket(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &services.ClientConnection{
		ID:    uuid.NewString(),
		Conn:  ws,
		Send:  make(chan services.WebSocketMessage, 256),
		Close: make(chan bool),
	}

	hub := services.GetWebSocketHub()
	hub.Register(client)

	go readPump(client, hub)
	go writePump(client)

	view := services.CurrentDashboard(c.Query("lang"))
	select {
	case client.Send <- services.WebSocketMessage{
		Type:      "dashboard",
		Timestamp: time.Now(),
		Data:      view,
	}:
	default:
	}
}

// readPump reads messages from the WebSocket client
func readPump(client *services.ClientConnection, hub *services.WebSocketHub) {
	defer func() {
		hub.Unregister(client.ID)
		client.Conn.Close()
	}()

	for {
		var msg services.WebSocketMessage
		err := client.Conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", client.ID).Msg("websocket read error")
			}
			return
		}

		switch msg.Type {
		case "ping":
			select {
			case client.Send <- services.WebSocketMessage{Type: "pong", Timestamp: time.Now()}:
			case <-client.Close:
				return
			default:
				return
			}

		case "unsubscribe":
			return

		default:
			log.Debug().Str("type", msg.Type).Msg("unknown websocket message type")
		}
	}
}

// writePump writes messages to the WebSocket client
func writePump(client *services.ClientConnection) {
	defer func() {
		client.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteJSON(msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Warn().Err(err).Str("client_id", client.ID).Msg("websocket write error")
				}
				return
			}

		case <-client.Close:
			client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
