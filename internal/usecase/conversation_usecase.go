package usecase

import (
	"context"

	"carelink/internal/domain/entity"
	"carelink/internal/domain/repository"
	"carelink/internal/domain/service"
	ws "carelink/internal/infrastructure/websocket"
	"carelink/pkg/errors"
	"carelink/pkg/logger"
)

// ConversationUseCase orchestrates conversation provisioning, message history
// and the realtime message flow.
type ConversationUseCase struct {
	appointmentRepo  repository.AppointmentRepository
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	policy           *service.AccessPolicy
	wsManager        *ws.Manager
}

func NewConversationUseCase(
	appointmentRepo repository.AppointmentRepository,
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	policy *service.AccessPolicy,
	wsManager *ws.Manager,
) *ConversationUseCase {
	return &ConversationUseCase{
		appointmentRepo:  appointmentRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		policy:           policy,
		wsManager:        wsManager,
	}
}

// GetOrCreateConversation resolves the appointment, checks that the principal
// may participate, and returns the appointment's single conversation,
// creating it on first access.
func (uc *ConversationUseCase) GetOrCreateConversation(ctx context.Context, principal entity.Principal, appointmentID string) (*entity.Conversation, error) {
	appointment, err := uc.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if !uc.policy.IsAllowed(appointment, principal) {
		return nil, errors.Forbidden("You are not a participant of this appointment", nil)
	}

	providerID, ok := appointment.ProviderID()
	if !ok {
		logger.Error("Appointment %s has role %s but no matching provider reference", appointment.ID, appointment.Role)
		return nil, errors.Internal("Appointment is missing its provider reference", nil)
	}

	conversation := &entity.Conversation{
		AppointmentID: appointment.ID,
		Participants: []entity.Participant{
			{UserID: appointment.UserID, Role: entity.RoleUser},
			{UserID: providerID, Role: appointment.Role},
		},
	}

	return uc.conversationRepo.GetOrCreate(ctx, conversation)
}

// ListConversations returns the principal's conversations, most recently
// active first.
func (uc *ConversationUseCase) ListConversations(ctx context.Context, principal entity.Principal) ([]*entity.Conversation, error) {
	return uc.conversationRepo.ListByUserID(ctx, principal.ID)
}

// ListMessages returns the conversation's full history in creation order.
func (uc *ConversationUseCase) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	return uc.messageRepo.ListByConversation(ctx, conversationID)
}

// Authorize checks that the principal is a participant of the conversation.
// Used before admitting a realtime connection into a room.
func (uc *ConversationUseCase) Authorize(ctx context.Context, principal entity.Principal, conversationID string) error {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(principal.ID) {
		return errors.Forbidden("You are not a participant of this conversation", nil)
	}
	return nil
}

// SendMessage durably appends the message, refreshes the conversation's
// activity cache and only then fans the message out to the room. A store
// failure aborts before any broadcast, so a broadcast message is always
// retrievable via history.
func (uc *ConversationUseCase) SendMessage(ctx context.Context, principal entity.Principal, conversationID, content string) (*entity.Message, error) {
	if content == "" {
		return nil, errors.BadRequest("Message content is required", nil)
	}

	message := &entity.Message{
		ConversationID: conversationID,
		SenderID:       principal.ID,
		SenderRole:     principal.Role,
		Content:        content,
		ReadBy:         []string{principal.ID},
	}

	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	if err := uc.conversationRepo.RecordActivity(ctx, conversationID, message.Content, message.CreatedAt); err != nil {
		// The message itself is persisted; a stale listing cache is
		// tolerable.
		logger.Warn("Failed to record activity for conversation %s: %v", conversationID, err)
	}

	payload, err := ws.EncodeEvent(ws.EventNewMessage, message)
	if err != nil {
		return nil, errors.Internal("Failed to encode message event", err)
	}
	uc.wsManager.BroadcastToRoom(conversationID, payload)

	return message, nil
}

// MarkMessageRead appends the principal to the message's read set.
func (uc *ConversationUseCase) MarkMessageRead(ctx context.Context, principal entity.Principal, conversationID, messageID string) error {
	return uc.messageRepo.MarkRead(ctx, conversationID, messageID, principal.ID)
}
