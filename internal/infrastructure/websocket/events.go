package websocket

import (
	"encoding/json"
	"time"
)

// Client -> server event types.
const (
	EventPing              = "ping"
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
	EventSendMessage       = "send_message"
	EventMarkRead          = "mark_read"
	EventTyping            = "typing"

	eventInvalid = "_invalid"
)

// Server -> client event types.
const (
	EventPong        = "pong"
	EventNewMessage  = "new_message"
	EventReadReceipt = "read_receipt"
	EventError       = "error"
)

// Event is the decoded form of an inbound frame. Data stays raw until the
// dispatcher knows which payload shape to expect.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func DecodeEvent(payload []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

type JoinConversationData struct {
	ConversationID string `json:"conversation_id"`
}

type SendMessageData struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

type MarkReadData struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
}

type TypingData struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id,omitempty"`
	Typing         bool   `json:"typing"`
}

type ReadReceiptData struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	ReaderID       string `json:"reader_id"`
}

// envelope is the wire form of every outbound event.
type envelope struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// EncodeEvent marshals an outbound event with a server-side timestamp.
func EncodeEvent(eventType string, data interface{}) ([]byte, error) {
	return json.Marshal(envelope{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
