package handler

import (
	"github.com/labstack/echo/v4"

	"carelink/internal/adapter/api/middleware"
	"carelink/internal/usecase"
	"carelink/pkg/errors"
	"carelink/pkg/response"
)

type ConversationHandler struct {
	conversationUseCase *usecase.ConversationUseCase
}

func NewConversationHandler(conversationUseCase *usecase.ConversationUseCase) *ConversationHandler {
	return &ConversationHandler{
		conversationUseCase: conversationUseCase,
	}
}

type createConversationRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required"`
}

// CreateConversation provisions (or returns) the conversation bound to an
// appointment, for the authenticated participant.
func (h *ConversationHandler) CreateConversation(c echo.Context) error {
	var req createConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	conversation, err := h.conversationUseCase.GetOrCreateConversation(c.Request().Context(), principal, req.AppointmentID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, conversation)
}

// ListConversations returns the caller's conversations, most recently active
// first.
func (h *ConversationHandler) ListConversations(c echo.Context) error {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	conversations, err := h.conversationUseCase.ListConversations(c.Request().Context(), principal)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversations)
}

// GetMessages returns the full ordered history of a conversation.
func (h *ConversationHandler) GetMessages(c echo.Context) error {
	conversationID := c.Param("conversationId")

	if _, ok := middleware.PrincipalFromContext(c); !ok {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	messages, err := h.conversationUseCase.ListMessages(c.Request().Context(), conversationID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}
