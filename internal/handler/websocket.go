package handler

import (
	"github.com/labstack/echo/v4"
	ws "github.com/zizouhuweidi/trivia/internal/websocket"
)

// WebSocketHandler streams question change events to connected clients
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
	}
}

// Register registers the websocket route
func (h *WebSocketHandler) Register(e *echo.Echo) {
	e.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket upgrades the connection and subscribes it to the hub
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	return ws.ServeWS(h.hub, c.Response().Writer, c.Request())
}
