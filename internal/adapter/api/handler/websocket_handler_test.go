package handler_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carelink/internal/adapter/api/handler"
	"carelink/internal/domain/entity"
	"carelink/internal/domain/service"
	"carelink/internal/infrastructure/auth"
	ws "carelink/internal/infrastructure/websocket"
	"carelink/internal/usecase"
)

func newTestWebSocketHandler(t *testing.T) (*handler.WebSocketHandler, *usecase.ConversationUseCase, *ws.Manager) {
	t.Helper()

	appointmentRepo := &memoryAppointmentRepo{appointments: map[string]*entity.Appointment{
		"a1": {ID: "a1", UserID: "u1", TherapistID: "t1", Role: entity.RoleTherapist},
	}}
	conversationRepo := &memoryConversationRepo{conversations: make(map[string]*entity.Conversation)}
	messageRepo := &memoryMessageRepo{conversations: conversationRepo, messages: make(map[string][]*entity.Message)}

	wsManager := ws.NewManager()
	conversationUseCase := usecase.NewConversationUseCase(
		appointmentRepo,
		conversationRepo,
		messageRepo,
		service.NewAccessPolicy(false),
		wsManager,
	)

	return handler.NewWebSocketHandler(wsManager, auth.NewVerifier(testSecret), conversationUseCase), conversationUseCase, wsManager
}

func registeredClient(m *ws.Manager, userID string, role entity.Role) *ws.Client {
	client := ws.NewClient(entity.Principal{ID: userID, Role: role}, nil)
	m.Register(client)
	return client
}

func drainClient(c *ws.Client) [][]byte {
	var payloads [][]byte
	for {
		select {
		case payload := <-c.Send:
			payloads = append(payloads, payload)
		default:
			return payloads
		}
	}
}

func decodeEventType(t *testing.T, payload []byte) string {
	t.Helper()
	var event struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(payload, &event))
	return event.Type
}

func rawData(s string) json.RawMessage {
	return json.RawMessage(s)
}

func TestDispatchSendMessageFansOutToRoom(t *testing.T) {
	h, uc, m := newTestWebSocketHandler(t)

	_, err := uc.GetOrCreateConversation(context.Background(), entity.Principal{ID: "u1", Role: entity.RoleUser}, "a1")
	require.NoError(t, err)

	sender := registeredClient(m, "u1", entity.RoleUser)
	receiver := registeredClient(m, "t1", entity.RoleTherapist)

	h.Dispatch(sender, ws.Event{Type: ws.EventJoinConversation, Data: rawData(`{"conversation_id":"a1"}`)})
	h.Dispatch(receiver, ws.Event{Type: ws.EventJoinConversation, Data: rawData(`{"conversation_id":"a1"}`)})
	require.True(t, m.InRoom("a1", sender))
	require.True(t, m.InRoom("a1", receiver))

	h.Dispatch(sender, ws.Event{Type: ws.EventSendMessage, Data: rawData(`{"conversation_id":"a1","content":"hi"}`)})

	payloads := drainClient(receiver)
	require.Len(t, payloads, 1)

	var event struct {
		Type string         `json:"type"`
		Data entity.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payloads[0], &event))
	assert.Equal(t, ws.EventNewMessage, event.Type)
	assert.Equal(t, "hi", event.Data.Content)
	assert.Equal(t, "u1", event.Data.SenderID)
	assert.Equal(t, entity.RoleUser, event.Data.SenderRole)

	// The persisted copy is immediately retrievable via history.
	history, err := uc.ListMessages(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hi", history[0].Content)
}

func TestDispatchJoinDeniedForNonParticipant(t *testing.T) {
	h, uc, m := newTestWebSocketHandler(t)

	_, err := uc.GetOrCreateConversation(context.Background(), entity.Principal{ID: "u1", Role: entity.RoleUser}, "a1")
	require.NoError(t, err)

	stranger := registeredClient(m, "u2", entity.RoleUser)

	h.Dispatch(stranger, ws.Event{Type: ws.EventJoinConversation, Data: rawData(`{"conversation_id":"a1"}`)})

	assert.False(t, m.InRoom("a1", stranger))
	payloads := drainClient(stranger)
	require.Len(t, payloads, 1)
	assert.Equal(t, ws.EventError, decodeEventType(t, payloads[0]))
}

func TestDispatchSendToUnknownConversationReportsError(t *testing.T) {
	h, _, m := newTestWebSocketHandler(t)

	sender := registeredClient(m, "u1", entity.RoleUser)

	h.Dispatch(sender, ws.Event{Type: ws.EventSendMessage, Data: rawData(`{"conversation_id":"missing","content":"hi"}`)})

	payloads := drainClient(sender)
	require.Len(t, payloads, 1)
	assert.Equal(t, ws.EventError, decodeEventType(t, payloads[0]))
}

func TestDispatchPing(t *testing.T) {
	h, _, m := newTestWebSocketHandler(t)

	client := registeredClient(m, "u1", entity.RoleUser)
	h.Dispatch(client, ws.Event{Type: ws.EventPing})

	payloads := drainClient(client)
	require.Len(t, payloads, 1)
	assert.Equal(t, ws.EventPong, decodeEventType(t, payloads[0]))
}

func TestDispatchUnknownEvent(t *testing.T) {
	h, _, m := newTestWebSocketHandler(t)

	client := registeredClient(m, "u1", entity.RoleUser)
	h.Dispatch(client, ws.Event{Type: "bogus"})

	payloads := drainClient(client)
	require.Len(t, payloads, 1)
	assert.Equal(t, ws.EventError, decodeEventType(t, payloads[0]))
}

func TestDispatchMarkReadBroadcastsReceipt(t *testing.T) {
	h, uc, m := newTestWebSocketHandler(t)
	ctx := context.Background()

	_, err := uc.GetOrCreateConversation(ctx, entity.Principal{ID: "u1", Role: entity.RoleUser}, "a1")
	require.NoError(t, err)

	message, err := uc.SendMessage(ctx, entity.Principal{ID: "u1", Role: entity.RoleUser}, "a1", "hi")
	require.NoError(t, err)

	reader := registeredClient(m, "t1", entity.RoleTherapist)
	other := registeredClient(m, "u1", entity.RoleUser)
	h.Dispatch(reader, ws.Event{Type: ws.EventJoinConversation, Data: rawData(`{"conversation_id":"a1"}`)})
	h.Dispatch(other, ws.Event{Type: ws.EventJoinConversation, Data: rawData(`{"conversation_id":"a1"}`)})

	payload, err := json.Marshal(ws.MarkReadData{ConversationID: "a1", MessageID: message.ID})
	require.NoError(t, err)
	h.Dispatch(reader, ws.Event{Type: ws.EventMarkRead, Data: payload})

	// The receipt goes to the rest of the room, not back to the reader.
	assert.Empty(t, drainClient(reader))
	payloads := drainClient(other)
	require.Len(t, payloads, 1)

	var event struct {
		Type string             `json:"type"`
		Data ws.ReadReceiptData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payloads[0], &event))
	assert.Equal(t, ws.EventReadReceipt, event.Type)
	assert.Equal(t, "t1", event.Data.ReaderID)
	assert.Equal(t, message.ID, event.Data.MessageID)
}

func TestDispatchTypingRelayedWithoutPersistence(t *testing.T) {
	h, uc, m := newTestWebSocketHandler(t)
	ctx := context.Background()

	_, err := uc.GetOrCreateConversation(ctx, entity.Principal{ID: "u1", Role: entity.RoleUser}, "a1")
	require.NoError(t, err)

	typist := registeredClient(m, "u1", entity.RoleUser)
	watcher := registeredClient(m, "t1", entity.RoleTherapist)
	h.Dispatch(typist, ws.Event{Type: ws.EventJoinConversation, Data: rawData(`{"conversation_id":"a1"}`)})
	h.Dispatch(watcher, ws.Event{Type: ws.EventJoinConversation, Data: rawData(`{"conversation_id":"a1"}`)})

	h.Dispatch(typist, ws.Event{Type: ws.EventTyping, Data: rawData(`{"conversation_id":"a1","typing":true}`)})

	assert.Empty(t, drainClient(typist))
	payloads := drainClient(watcher)
	require.Len(t, payloads, 1)

	var event struct {
		Type string        `json:"type"`
		Data ws.TypingData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payloads[0], &event))
	assert.Equal(t, ws.EventTyping, event.Type)
	assert.Equal(t, "u1", event.Data.UserID)
	assert.True(t, event.Data.Typing)

	history, err := uc.ListMessages(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDispatchMalformedPayloadReportsError(t *testing.T) {
	h, _, m := newTestWebSocketHandler(t)

	client := registeredClient(m, "u1", entity.RoleUser)
	h.Dispatch(client, ws.Event{Type: ws.EventSendMessage, Data: rawData(`{"conversation_id":""}`)})

	payloads := drainClient(client)
	require.Len(t, payloads, 1)
	assert.Equal(t, ws.EventError, decodeEventType(t, payloads[0]))
}
