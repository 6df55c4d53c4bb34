package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"carelink/internal/domain/entity"
	"carelink/internal/domain/repository"
	"carelink/pkg/errors"
	"carelink/pkg/logger"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

// Conversations are keyed by appointment id, which is what makes
// one-conversation-per-appointment a property of the store rather than of the
// callers. Create on an existing key fails with AlreadyExists; the loser of a
// creation race re-fetches the winner.
func (r *firestoreConversationRepository) GetOrCreate(ctx context.Context, conversation *entity.Conversation) (*entity.Conversation, error) {
	docRef := r.client.Collection("conversations").Doc(conversation.AppointmentID)

	now := time.Now()
	conversation.ID = docRef.ID
	conversation.CreatedAt = now
	conversation.UpdatedAt = now
	conversation.LastMessageAt = now

	conversation.ParticipantIDs = conversation.ParticipantIDs[:0]
	for _, p := range conversation.Participants {
		conversation.ParticipantIDs = append(conversation.ParticipantIDs, p.UserID)
	}

	_, err := docRef.Create(ctx, conversation)
	if err == nil {
		return conversation, nil
	}

	if status.Code(err) != codes.AlreadyExists {
		return nil, errors.Internal("Failed to create conversation", err)
	}

	logger.Debug("Conversation for appointment %s already exists, re-fetching", conversation.AppointmentID)
	return r.GetByID(ctx, docRef.ID)
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection("conversations").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conversation entity.Conversation
	if err := doc.DataTo(&conversation); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}
	conversation.ID = doc.Ref.ID

	return &conversation, nil
}

func (r *firestoreConversationRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	query := r.client.Collection("conversations").
		Where("participantIds", "array-contains", userID).
		OrderBy("lastMessageAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list conversations", err)
	}

	var conversations []*entity.Conversation
	for _, doc := range docs {
		var conversation entity.Conversation
		if err := doc.DataTo(&conversation); err != nil {
			logger.Warn("Skipping malformed conversation %s: %v", doc.Ref.ID, err)
			continue
		}
		conversation.ID = doc.Ref.ID
		conversations = append(conversations, &conversation)
	}

	return conversations, nil
}

func (r *firestoreConversationRepository) RecordActivity(ctx context.Context, conversationID, lastMessage string, at time.Time) error {
	_, err := r.client.Collection("conversations").Doc(conversationID).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: lastMessage},
		{Path: "lastMessageAt", Value: at},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errors.Internal("Failed to record conversation activity", err)
	}

	return nil
}
