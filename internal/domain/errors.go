package domain

import "errors"

// Error kinds returned by the services. Callers at the request boundary are
// expected to map these to status codes: ErrNotFound to 404, ErrPermissionDenied
// and ErrNotMember to 403, ErrUnauthenticated to 401, the conflict kinds to 409.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidSlug          = errors.New("invalid slug")
	ErrSlugTaken            = errors.New("slug already taken")
	ErrSlugGenerationFailed = errors.New("could not generate a unique slug")
	ErrDuplicateInvitation  = errors.New("a pending invitation already exists for this email")
	ErrAlreadyMember        = errors.New("user is already an active member")
	ErrPersonalEntityExists = errors.New("user already has a personal entity")
	ErrInvariantViolation   = errors.New("cannot remove the only administrator")
	ErrInvalidOperation     = errors.New("operation not permitted for this entity")
	ErrInvitationNotPending = errors.New("invitation is not pending")
	ErrInvitationExpired    = errors.New("invitation has expired")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrNotMember            = errors.New("user is not a member of this entity")
	ErrUnauthenticated      = errors.New("unauthenticated")
)
