package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"teamspace-backend/internal/domain"
	"teamspace-backend/internal/repository"
)

type membershipService struct {
	entities    repository.EntityRepository
	memberships repository.MembershipRepository
}

func NewMembershipService(entities repository.EntityRepository, memberships repository.MembershipRepository) MembershipService {
	return &membershipService{
		entities:    entities,
		memberships: memberships,
	}
}

func (s *membershipService) List(ctx context.Context, entityID string, filter domain.MemberFilter) ([]domain.Member, error) {
	return s.memberships.List(ctx, entityID, filter)
}

func (s *membershipService) Get(ctx context.Context, entityID, userID string, includeInactive bool) (*domain.Membership, error) {
	return s.memberships.Get(ctx, entityID, userID, includeInactive)
}

func (s *membershipService) GetRole(ctx context.Context, entityID, userID string) (domain.Role, error) {
	m, err := s.memberships.Get(ctx, entityID, userID, false)
	if err != nil {
		return "", err
	}
	return m.Role, nil
}

func (s *membershipService) Add(ctx context.Context, entityID, userID string, role domain.Role) (*domain.Membership, error) {
	entity, err := s.entities.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if entity.Kind == domain.EntityKindPersonal {
		return nil, fmt.Errorf("%w: personal entities have no secondary members", domain.ErrInvalidOperation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidOperation, role)
	}
	if role == domain.RoleOwner {
		return nil, fmt.Errorf("%w: the owner role is assigned at creation or by ownership transfer", domain.ErrInvalidOperation)
	}

	existing, err := s.memberships.Get(ctx, entityID, userID, true)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Active {
		return nil, domain.ErrAlreadyMember
	}

	m := &domain.Membership{
		ID:       uuid.NewString(),
		EntityID: entityID,
		UserID:   userID,
		Role:     role,
	}
	// The upsert reactivates an inactive row in place, keeping the
	// (entity, user) pair unique and the original row id stable.
	if err := s.memberships.Upsert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *membershipService) UpdateRole(ctx context.Context, entityID, userID string, role domain.Role) (*domain.Membership, error) {
	entity, err := s.entities.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if entity.Kind == domain.EntityKindPersonal {
		return nil, fmt.Errorf("%w: personal entities have a fixed role", domain.ErrInvalidOperation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidOperation, role)
	}
	if role == domain.RoleOwner {
		return nil, fmt.Errorf("%w: elevation to owner goes through ownership transfer", domain.ErrInvalidOperation)
	}

	current, err := s.memberships.Get(ctx, entityID, userID, false)
	if err != nil {
		return nil, err
	}
	if current.Role == domain.RoleOwner {
		return nil, fmt.Errorf("%w: the owner role cannot be changed here", domain.ErrInvalidOperation)
	}

	if current.Role.AdminTier() && !role.AdminTier() {
		if err := s.checkNotLastAdmin(ctx, entityID); err != nil {
			return nil, err
		}
	}

	return s.memberships.UpdateRole(ctx, entityID, userID, role)
}

func (s *membershipService) Remove(ctx context.Context, entityID, userID string) error {
	entity, err := s.entities.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if entity.Kind == domain.EntityKindPersonal {
		return fmt.Errorf("%w: personal memberships cannot be removed", domain.ErrInvalidOperation)
	}

	current, err := s.memberships.Get(ctx, entityID, userID, false)
	if err != nil {
		return err
	}
	if current.Role == domain.RoleOwner {
		return fmt.Errorf("%w: transfer ownership before removing the owner", domain.ErrInvalidOperation)
	}

	if current.Role.AdminTier() {
		if err := s.checkNotLastAdmin(ctx, entityID); err != nil {
			return err
		}
	}

	return s.memberships.Deactivate(ctx, entityID, userID)
}

func (s *membershipService) IsMember(ctx context.Context, entityID, userID string) (bool, error) {
	_, err := s.memberships.Get(ctx, entityID, userID, false)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// checkNotLastAdmin refuses any operation that would drop the count of
// active admin-tier members to zero.
func (s *membershipService) checkNotLastAdmin(ctx context.Context, entityID string) error {
	count, err := s.memberships.CountActiveAdminTier(ctx, entityID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return domain.ErrInvariantViolation
	}
	return nil
}
