package service

import (
	"carelink/internal/domain/entity"
)

// AccessPolicy decides whether a principal may participate in an
// appointment's conversation: the principal must be the appointment's user or
// its role-selected provider.
//
// allowUnmatched reproduces a legacy fallback that let any other principal
// through. It exists only as a compatibility toggle and defaults to off;
// unmatched principals are denied.
type AccessPolicy struct {
	allowUnmatched bool
}

func NewAccessPolicy(allowUnmatched bool) *AccessPolicy {
	return &AccessPolicy{allowUnmatched: allowUnmatched}
}

func (p *AccessPolicy) IsAllowed(appointment *entity.Appointment, principal entity.Principal) bool {
	if principal.ID == appointment.UserID {
		return true
	}
	if providerID, ok := appointment.ProviderID(); ok && principal.ID == providerID {
		return true
	}
	return p.allowUnmatched
}
