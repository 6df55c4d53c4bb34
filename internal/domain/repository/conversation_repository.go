package repository

import (
	"context"
	"time"

	"carelink/internal/domain/entity"
)

type ConversationRepository interface {
	// GetOrCreate returns the single conversation for the appointment,
	// creating it if absent. Concurrent first calls for the same appointment
	// must converge on one conversation.
	GetOrCreate(ctx context.Context, conversation *entity.Conversation) (*entity.Conversation, error)

	GetByID(ctx context.Context, id string) (*entity.Conversation, error)

	ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error)

	// RecordActivity updates the cached last-message fields. Best-effort; it
	// must be called only after the message itself has been persisted.
	RecordActivity(ctx context.Context, conversationID, lastMessage string, at time.Time) error
}
