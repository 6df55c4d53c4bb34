package repository

import (
	"context"

	"carelink/internal/domain/entity"
)

type MessageRepository interface {
	// Create persists a new message with the sender as its first reader.
	// Fails with NOT_FOUND if the conversation does not exist.
	Create(ctx context.Context, message *entity.Message) error

	// ListByConversation returns every message of the conversation sorted
	// ascending by creation time.
	ListByConversation(ctx context.Context, conversationID string) ([]*entity.Message, error)

	// MarkRead appends the user to the message's read set. Idempotent.
	MarkRead(ctx context.Context, conversationID, messageID, userID string) error
}
