package router

import (
	"github.com/labstack/echo/v4"

	"carelink/internal/adapter/api/handler"
	"carelink/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	healthHandler *handler.HealthHandler,
	conversationHandler *handler.ConversationHandler,
	wsHandler *handler.WebSocketHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	SetupHealthRouter(e, healthHandler)
	SetupConversationRouter(e, conversationHandler, authMiddleware)
	SetupWebSocketRouter(e, wsHandler)
}
