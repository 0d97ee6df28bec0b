package repository

import (
	"context"
	"time"

	"teamspace-backend/internal/domain"
)

// UserRepository reads external user identities. Users are owned by the
// account system; this core only looks them up for display and email checks.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type EntityRepository interface {
	// CreateWithOwner inserts the entity and its initial owner membership as
	// one transactional unit.
	CreateWithOwner(ctx context.Context, entity *domain.Entity, owner *domain.Membership) error
	GetByID(ctx context.Context, id string) (*domain.Entity, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Entity, error)
	// FindPersonalByUser returns the personal entity the user owns through an
	// active owner membership, or ErrNotFound.
	FindPersonalByUser(ctx context.Context, userID string) (*domain.Entity, error)
	ListForUser(ctx context.Context, userID string) ([]domain.EntityWithRole, error)
	// ListSlugs returns a snapshot of every slug currently in use.
	ListSlugs(ctx context.Context) (map[string]bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, entity *domain.Entity) error
	// Delete removes the entity; memberships and invitations cascade.
	Delete(ctx context.Context, id string) error
}

type MembershipRepository interface {
	// Upsert inserts an active membership, or reactivates the existing
	// (entity, user) row with the new role on conflict. The stored row id and
	// join timestamp are written back into m.
	Upsert(ctx context.Context, m *domain.Membership) error
	Get(ctx context.Context, entityID, userID string, includeInactive bool) (*domain.Membership, error)
	List(ctx context.Context, entityID string, filter domain.MemberFilter) ([]domain.Member, error)
	UpdateRole(ctx context.Context, entityID, userID string, role domain.Role) (*domain.Membership, error)
	// Deactivate soft-deletes the active membership.
	Deactivate(ctx context.Context, entityID, userID string) error
	CountActiveAdminTier(ctx context.Context, entityID string) (int, error)
}

type InvitationRepository interface {
	Create(ctx context.Context, inv *domain.Invitation) error
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
	GetByID(ctx context.Context, id string) (*domain.Invitation, error)
	ListByEntity(ctx context.Context, entityID string, filter domain.InvitationFilter) ([]domain.Invitation, error)
	ListPendingByEmail(ctx context.Context, email string) ([]domain.InvitationWithEntity, error)
	// UpdateStatus transitions a pending invitation to the given status. It
	// returns ErrInvitationNotPending when the row is missing or a concurrent
	// writer already settled it.
	UpdateStatus(ctx context.Context, id string, status domain.InvitationStatus) error
	// AcceptWithMembership marks the pending invitation accepted and upserts
	// the granted membership as one transactional unit. Fails with
	// ErrInvitationNotPending if the row left the pending state concurrently.
	AcceptWithMembership(ctx context.Context, inv *domain.Invitation, m *domain.Membership) error
	// Delete hard-deletes the invitation. Deleting a missing row is a no-op.
	Delete(ctx context.Context, id string) error
	// ExpireStale transitions every pending invitation past its expiry to
	// expired and returns the number of rows changed.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}
