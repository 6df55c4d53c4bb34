package entity

import "time"

// Participant is one of the two members of a conversation.
type Participant struct {
	UserID string `json:"user_id" firestore:"userId"`
	Role   Role   `json:"role" firestore:"role"`
}

// Conversation is the single chat channel bound to one appointment. Its two
// participants are the appointment's user and the role-selected provider.
// LastMessage/LastMessageAt are a denormalized cache for listing and sorting.
type Conversation struct {
	ID            string        `json:"id" firestore:"id"`
	AppointmentID string        `json:"appointment_id" firestore:"appointmentId"`
	Participants  []Participant `json:"participants" firestore:"participants"`
	// ParticipantIDs duplicates the participant user ids as a flat list so
	// the store can serve membership queries.
	ParticipantIDs []string  `json:"-" firestore:"participantIds"`
	LastMessage    string    `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt  time.Time `json:"last_message_at" firestore:"lastMessageAt"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updated_at" firestore:"updatedAt"`
}

// HasParticipant reports whether the given user is one of the two members.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
