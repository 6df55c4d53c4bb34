package router

import (
	"github.com/labstack/echo/v4"

	"carelink/internal/adapter/api/handler"
)

// SetupWebSocketRouter registers the realtime endpoint. The handshake
// credential is checked inside the handler, not by middleware, because the
// token may arrive as a query parameter.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
