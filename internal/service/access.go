package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"teamspace-backend/internal/domain"
	"teamspace-backend/internal/repository"
)

type accessService struct {
	entities    repository.EntityRepository
	memberships repository.MembershipRepository
}

func NewAccessService(entities repository.EntityRepository, memberships repository.MembershipRepository) AccessService {
	return &accessService{
		entities:    entities,
		memberships: memberships,
	}
}

func (s *accessService) ResolveContext(ctx context.Context, slugOrID, userID string) (*AccessContext, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	entity, err := s.lookupEntity(ctx, slugOrID)
	if err != nil {
		return nil, err
	}

	m, err := s.memberships.Get(ctx, entity.ID, userID, false)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotMember
		}
		return nil, err
	}

	return &AccessContext{
		Entity:      entity,
		Role:        m.Role,
		Permissions: effectivePermissions(m.Role, entity.Kind),
	}, nil
}

func (s *accessService) RequireCapability(ac *AccessContext, capability domain.Capability) error {
	if !ac.Permissions.Has(capability) {
		return fmt.Errorf("%w: missing capability %s", domain.ErrPermissionDenied, capability)
	}
	return nil
}

func (s *accessService) RequireRole(ac *AccessContext, minimum domain.Role) error {
	if !ac.Role.AtLeast(minimum) {
		return fmt.Errorf("%w: role %s is below %s", domain.ErrPermissionDenied, ac.Role, minimum)
	}
	return nil
}

func (s *accessService) lookupEntity(ctx context.Context, slugOrID string) (*domain.Entity, error) {
	if err := uuid.Validate(slugOrID); err == nil {
		return s.entities.GetByID(ctx, slugOrID)
	}
	return s.entities.GetBySlug(ctx, slugOrID)
}
