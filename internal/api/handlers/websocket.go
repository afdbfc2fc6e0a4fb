package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/sportsbuddy/sportsbuddy/internal/services"
)

type WebSocketHandler struct {
	hub      *services.Hub
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *services.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS is enforced by the HTTP middleware
			},
		},
	}
}

// HandleWebSocket upgrades the connection and subscribes it to analytics
// refresh events
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Errorf("Failed to upgrade websocket: %v", err)
		return
	}

	h.hub.Register(conn)

	// Drain (and discard) client messages so pings are answered and the
	// connection can be unregistered on close.
	go func() {
		defer h.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
