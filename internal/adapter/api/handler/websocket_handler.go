package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"carelink/internal/infrastructure/auth"
	ws "carelink/internal/infrastructure/websocket"
	"carelink/internal/usecase"
	"carelink/pkg/errors"
	"carelink/pkg/logger"
	"carelink/pkg/response"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	wsManager           *ws.Manager
	verifier            *auth.Verifier
	conversationUseCase *usecase.ConversationUseCase
}

func NewWebSocketHandler(wsManager *ws.Manager, verifier *auth.Verifier, conversationUseCase *usecase.ConversationUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:           wsManager,
		verifier:            verifier,
		conversationUseCase: conversationUseCase,
	}
}

// HandleWebSocket authenticates the handshake, upgrades the connection and
// runs the read loop until the client disconnects. An invalid credential
// rejects the handshake before the connection can join any room.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	credential := handshakeCredential(c)
	if credential == "" {
		return response.Error(c, errors.Unauthorized("Missing credential", nil))
	}

	principal, err := h.verifier.Verify(credential)
	if err != nil {
		return response.Error(c, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := ws.NewClient(principal, conn)
	h.wsManager.Register(client)

	go client.WritePump()

	client.ReadPump(h.dispatch)
	h.wsManager.Unregister(client)
	logger.Info("Client %s disconnected (user %s)", client.ID, principal.ID)

	return nil
}

// handshakeCredential accepts the credential either as a bearer header or as
// a query parameter, since browser websocket clients cannot set headers.
func handshakeCredential(c echo.Context) string {
	if token := c.QueryParam("token"); token != "" {
		return token
	}
	authHeader := c.Request().Header.Get("Authorization")
	if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

func (h *WebSocketHandler) dispatch(client *ws.Client, event ws.Event) {
	switch event.Type {
	case ws.EventPing:
		h.wsManager.SendEvent(client, ws.EventPong, map[string]string{"status": "alive"})

	case ws.EventJoinConversation:
		h.handleJoin(client, event.Data)

	case ws.EventLeaveConversation:
		h.handleLeave(client, event.Data)

	case ws.EventSendMessage:
		h.handleSendMessage(client, event.Data)

	case ws.EventMarkRead:
		h.handleMarkRead(client, event.Data)

	case ws.EventTyping:
		h.handleTyping(client, event.Data)

	default:
		h.wsManager.SendError(client, "Unknown event type")
	}
}

func (h *WebSocketHandler) handleJoin(client *ws.Client, data json.RawMessage) {
	var joinData ws.JoinConversationData
	if err := json.Unmarshal(data, &joinData); err != nil || joinData.ConversationID == "" {
		h.wsManager.SendError(client, "Invalid join_conversation payload")
		return
	}

	ctx := context.Background()
	if err := h.conversationUseCase.Authorize(ctx, client.Principal, joinData.ConversationID); err != nil {
		logger.Warn("Client %s denied joining room %s: %v", client.ID, joinData.ConversationID, err)
		h.wsManager.SendError(client, "You cannot join this conversation")
		return
	}

	h.wsManager.JoinRoom(joinData.ConversationID, client)
}

func (h *WebSocketHandler) handleLeave(client *ws.Client, data json.RawMessage) {
	var leaveData ws.JoinConversationData
	if err := json.Unmarshal(data, &leaveData); err != nil || leaveData.ConversationID == "" {
		h.wsManager.SendError(client, "Invalid leave_conversation payload")
		return
	}

	h.wsManager.LeaveRoom(leaveData.ConversationID, client)
}

func (h *WebSocketHandler) handleSendMessage(client *ws.Client, data json.RawMessage) {
	var sendData ws.SendMessageData
	if err := json.Unmarshal(data, &sendData); err != nil || sendData.ConversationID == "" || sendData.Content == "" {
		h.wsManager.SendError(client, "Invalid send_message payload")
		return
	}

	// Persistence and fan-out both happen in the use case; the broadcast is
	// only reached once the message is durably stored.
	_, err := h.conversationUseCase.SendMessage(context.Background(), client.Principal, sendData.ConversationID, sendData.Content)
	if err != nil {
		logger.Error("Client %s failed to send message to %s: %v", client.ID, sendData.ConversationID, err)
		h.wsManager.SendError(client, "Failed to send message")
	}
}

func (h *WebSocketHandler) handleMarkRead(client *ws.Client, data json.RawMessage) {
	var readData ws.MarkReadData
	if err := json.Unmarshal(data, &readData); err != nil || readData.ConversationID == "" || readData.MessageID == "" {
		h.wsManager.SendError(client, "Invalid mark_read payload")
		return
	}

	if err := h.conversationUseCase.MarkMessageRead(context.Background(), client.Principal, readData.ConversationID, readData.MessageID); err != nil {
		h.wsManager.SendError(client, "Failed to mark message as read")
		return
	}

	receipt, err := ws.EncodeEvent(ws.EventReadReceipt, ws.ReadReceiptData{
		ConversationID: readData.ConversationID,
		MessageID:      readData.MessageID,
		ReaderID:       client.Principal.ID,
	})
	if err != nil {
		logger.Error("Failed to encode read receipt: %v", err)
		return
	}
	h.wsManager.BroadcastToRoomExcept(readData.ConversationID, client.ID, receipt)
}

// handleTyping relays a transient typing indicator; nothing is persisted.
func (h *WebSocketHandler) handleTyping(client *ws.Client, data json.RawMessage) {
	var typingData ws.TypingData
	if err := json.Unmarshal(data, &typingData); err != nil || typingData.ConversationID == "" {
		h.wsManager.SendError(client, "Invalid typing payload")
		return
	}

	typingData.UserID = client.Principal.ID

	payload, err := ws.EncodeEvent(ws.EventTyping, typingData)
	if err != nil {
		return
	}
	h.wsManager.BroadcastToRoomExcept(typingData.ConversationID, client.ID, payload)
}
