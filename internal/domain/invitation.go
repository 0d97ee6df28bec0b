package domain

import "time"

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
	InvitationStatusExpired  InvitationStatus = "expired"
)

// Invitation is a pending offer of membership bound to an email address.
// The token is an unguessable bearer credential for accept/decline. Status
// transitions are one-directional: pending moves to accepted, declined or
// expired, and nothing leaves those terminal states.
type Invitation struct {
	ID         string           `json:"id"`
	EntityID   string           `json:"entity_id"`
	Email      string           `json:"email"`
	Role       Role             `json:"role"`
	Status     InvitationStatus `json:"status"`
	Token      string           `json:"token"`
	ExpiresOn  time.Time        `json:"expires_on"`
	InvitedBy  string           `json:"invited_by"`
	AcceptedOn *time.Time       `json:"accepted_on,omitempty"`
	CreatedOn  time.Time        `json:"created_on"`
}

// InvitationWithEntity is an invitation joined with a summary of the entity
// it belongs to, for listing a user's pending invitations.
type InvitationWithEntity struct {
	Invitation
	EntityName string `json:"entity_name"`
	EntitySlug string `json:"entity_slug"`
}

// InvitationFilter narrows an invitation listing.
type InvitationFilter struct {
	Status InvitationStatus
	Limit  int
	Offset int
}
