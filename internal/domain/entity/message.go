package entity

import "time"

// Message is immutable after creation except for ReadBy, which only grows.
type Message struct {
	ID             string    `json:"id" firestore:"id"`
	ConversationID string    `json:"conversation_id" firestore:"conversationId"`
	SenderID       string    `json:"sender_id" firestore:"senderId"`
	SenderRole     Role      `json:"sender_role" firestore:"senderRole"`
	Content        string    `json:"content" firestore:"content"`
	ReadBy         []string  `json:"read_by" firestore:"readBy"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
}

// IsReadBy reports whether the given user already appears in the read set.
func (m *Message) IsReadBy(userID string) bool {
	for _, reader := range m.ReadBy {
		if reader == userID {
			return true
		}
	}
	return false
}
