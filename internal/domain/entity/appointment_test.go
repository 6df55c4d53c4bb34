package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderIDSelectsByRole(t *testing.T) {
	mentorAppt := &Appointment{ID: "a1", UserID: "u1", MentorID: "m1", Role: RoleMentor}
	providerID, ok := mentorAppt.ProviderID()
	assert.True(t, ok)
	assert.Equal(t, "m1", providerID)

	therapistAppt := &Appointment{ID: "a2", UserID: "u1", TherapistID: "t1", Role: RoleTherapist}
	providerID, ok = therapistAppt.ProviderID()
	assert.True(t, ok)
	assert.Equal(t, "t1", providerID)
}

func TestProviderIDMissingReference(t *testing.T) {
	// Role tag points at a provider field that was never set.
	appt := &Appointment{ID: "a1", UserID: "u1", TherapistID: "t1", Role: RoleMentor}
	_, ok := appt.ProviderID()
	assert.False(t, ok)

	userRole := &Appointment{ID: "a2", UserID: "u1", Role: RoleUser}
	_, ok = userRole.ProviderID()
	assert.False(t, ok)
}

func TestConversationHasParticipant(t *testing.T) {
	conversation := &Conversation{
		Participants: []Participant{
			{UserID: "u1", Role: RoleUser},
			{UserID: "t1", Role: RoleTherapist},
		},
	}

	assert.True(t, conversation.HasParticipant("u1"))
	assert.True(t, conversation.HasParticipant("t1"))
	assert.False(t, conversation.HasParticipant("u2"))
}

func TestMessageIsReadBy(t *testing.T) {
	message := &Message{ReadBy: []string{"u1"}}

	assert.True(t, message.IsReadBy("u1"))
	assert.False(t, message.IsReadBy("t1"))
}
