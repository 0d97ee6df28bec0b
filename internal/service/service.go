package service

import (
	"context"

	"teamspace-backend/internal/domain"
)

// CreateOrganizationInput carries the caller-supplied fields for a new
// organization. Slug is optional; when empty a collision-free slug is
// generated from the display name.
type CreateOrganizationInput struct {
	DisplayName string
	Slug        string
	Description string
}

// UpdateEntityInput updates only the supplied fields.
type UpdateEntityInput struct {
	Name        *string
	Description *string
	AvatarURL   *string
	Slug        *string
}

type CreateInvitationInput struct {
	Email string
	Role  domain.Role
}

type EntityService interface {
	CreatePersonal(ctx context.Context, userID, emailHint string) (*domain.Entity, error)
	GetOrCreatePersonal(ctx context.Context, userID, emailHint string) (*domain.Entity, error)
	CreateOrganization(ctx context.Context, userID string, in CreateOrganizationInput) (*domain.Entity, error)
	GetByID(ctx context.Context, id string) (*domain.Entity, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Entity, error)
	ListForUser(ctx context.Context, userID, emailHint string) ([]domain.EntityWithRole, error)
	Update(ctx context.Context, entityID string, in UpdateEntityInput) (*domain.Entity, error)
	Delete(ctx context.Context, entityID string) error
	IsSlugAvailable(ctx context.Context, slug string) (bool, error)
}

type MembershipService interface {
	List(ctx context.Context, entityID string, filter domain.MemberFilter) ([]domain.Member, error)
	Get(ctx context.Context, entityID, userID string, includeInactive bool) (*domain.Membership, error)
	GetRole(ctx context.Context, entityID, userID string) (domain.Role, error)
	Add(ctx context.Context, entityID, userID string, role domain.Role) (*domain.Membership, error)
	UpdateRole(ctx context.Context, entityID, userID string, role domain.Role) (*domain.Membership, error)
	Remove(ctx context.Context, entityID, userID string) error
	IsMember(ctx context.Context, entityID, userID string) (bool, error)
}

type InvitationService interface {
	Create(ctx context.Context, entityID, invitedBy string, in CreateInvitationInput) (*domain.Invitation, error)
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
	GetByID(ctx context.Context, id string) (*domain.Invitation, error)
	ListForEntity(ctx context.Context, entityID string, filter domain.InvitationFilter) ([]domain.Invitation, error)
	ListPendingForEmail(ctx context.Context, email string) ([]domain.InvitationWithEntity, error)
	Accept(ctx context.Context, token, userID string) (*domain.Invitation, error)
	Decline(ctx context.Context, token string) (*domain.Invitation, error)
	Cancel(ctx context.Context, invitationID string) error
	// ProcessNewUserSignup accepts every pending invitation for the email of
	// a freshly created user. Individual failures are logged and swallowed;
	// the return value is the number of invitations accepted.
	ProcessNewUserSignup(ctx context.Context, userID, email string) int
	ExpireStale(ctx context.Context) (int64, error)
}

type PermissionService interface {
	PermissionsFor(role domain.Role) domain.Permissions
	// UserPermissions returns nil when the user has no active membership.
	UserPermissions(ctx context.Context, entityID, userID string) (*domain.Permissions, error)
	CanViewEntity(ctx context.Context, entityID, userID string) (bool, error)
	CanEditEntity(ctx context.Context, entityID, userID string) (bool, error)
	CanDeleteEntity(ctx context.Context, entityID, userID string) (bool, error)
	CanInviteMembers(ctx context.Context, entityID, userID string) (bool, error)
	CanManageMembers(ctx context.Context, entityID, userID string) (bool, error)
	AssertPermission(ctx context.Context, entityID, userID string, capability domain.Capability) error
	MinimumRoleFor(capability domain.Capability) (domain.Role, bool)
}

// AccessContext is the resolved view handed to the request boundary: the
// entity, the caller's role in it and the effective capability set.
type AccessContext struct {
	Entity      *domain.Entity
	Role        domain.Role
	Permissions domain.Permissions
}

type AccessService interface {
	ResolveContext(ctx context.Context, slugOrID, userID string) (*AccessContext, error)
	RequireCapability(ac *AccessContext, capability domain.Capability) error
	RequireRole(ac *AccessContext, minimum domain.Role) error
}
