package entity

import "time"

// Role identifies the kind of participant in an appointment conversation.
type Role string

const (
	RoleUser      Role = "USER"
	RoleMentor    Role = "MENTOR"
	RoleTherapist Role = "THERAPIST"
)

// Appointment is owned by the scheduling subsystem; this service only reads it.
// Role selects which of MentorID/TherapistID is the authoritative provider
// reference; exactly one of them is expected to be set.
type Appointment struct {
	ID          string    `json:"id" firestore:"id"`
	UserID      string    `json:"user_id" firestore:"userId"`
	MentorID    string    `json:"mentor_id,omitempty" firestore:"mentorId,omitempty"`
	TherapistID string    `json:"therapist_id,omitempty" firestore:"therapistId,omitempty"`
	Role        Role      `json:"role" firestore:"role"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ProviderID returns the provider reference selected by the appointment's role
// tag, and whether it is actually set.
func (a *Appointment) ProviderID() (string, bool) {
	switch a.Role {
	case RoleMentor:
		return a.MentorID, a.MentorID != ""
	case RoleTherapist:
		return a.TherapistID, a.TherapistID != ""
	}
	return "", false
}
