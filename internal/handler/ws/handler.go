package ws

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type StreamHandler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewStreamHandler accepts upgrades from allowedOrigins only; "*" allows any origin.
func NewStreamHandler(hub *Hub, allowedOrigins []string) *StreamHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &StreamHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Stream godoc
// @Summary Live spot and reservation events
// @Tags spots
// @Success 101
// @Router /spots/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("failed to upgrade to websocket", "error", err)
		return
	}
	h.hub.Attach(c.Request.Context(), conn)
}
