package handler

import (
	ws "carelink/internal/infrastructure/websocket"
)

// Dispatch exposes the unexported dispatch method to external test packages.
func (h *WebSocketHandler) Dispatch(client *ws.Client, event ws.Event) {
	h.dispatch(client, event)
}
