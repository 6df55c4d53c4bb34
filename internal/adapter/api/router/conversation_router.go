package router

import (
	"github.com/labstack/echo/v4"

	"carelink/internal/adapter/api/handler"
	"carelink/internal/adapter/api/middleware"
)

// SetupConversationRouter wires conversation provisioning and history
// retrieval. Every route requires a bearer credential.
func SetupConversationRouter(e *echo.Echo, conversationHandler *handler.ConversationHandler, authMiddleware *middleware.AuthMiddleware) {
	conversationGroup := e.Group("/conversations")
	conversationGroup.Use(authMiddleware.Authenticate)
	conversationGroup.POST("", conversationHandler.CreateConversation)
	conversationGroup.GET("", conversationHandler.ListConversations)

	messageGroup := e.Group("/messages")
	messageGroup.Use(authMiddleware.Authenticate)
	messageGroup.GET("/:conversationId", conversationHandler.GetMessages)
}
