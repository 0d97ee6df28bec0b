package service

import (
	"context"
	"errors"
	"fmt"

	"teamspace-backend/internal/domain"
	"teamspace-backend/internal/repository"
)

type permissionService struct {
	entities    repository.EntityRepository
	memberships repository.MembershipRepository
}

func NewPermissionService(entities repository.EntityRepository, memberships repository.MembershipRepository) PermissionService {
	return &permissionService{
		entities:    entities,
		memberships: memberships,
	}
}

func (s *permissionService) PermissionsFor(role domain.Role) domain.Permissions {
	return domain.PermissionsForRole(role)
}

func (s *permissionService) UserPermissions(ctx context.Context, entityID, userID string) (*domain.Permissions, error) {
	entity, err := s.entities.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	m, err := s.memberships.Get(ctx, entityID, userID, false)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	perms := effectivePermissions(m.Role, entity.Kind)
	return &perms, nil
}

func (s *permissionService) CanViewEntity(ctx context.Context, entityID, userID string) (bool, error) {
	return s.check(ctx, entityID, userID, domain.CapabilityViewEntity)
}

func (s *permissionService) CanEditEntity(ctx context.Context, entityID, userID string) (bool, error) {
	return s.check(ctx, entityID, userID, domain.CapabilityEditEntity)
}

func (s *permissionService) CanDeleteEntity(ctx context.Context, entityID, userID string) (bool, error) {
	return s.check(ctx, entityID, userID, domain.CapabilityDeleteEntity)
}

func (s *permissionService) CanInviteMembers(ctx context.Context, entityID, userID string) (bool, error) {
	return s.check(ctx, entityID, userID, domain.CapabilityInviteMembers)
}

func (s *permissionService) CanManageMembers(ctx context.Context, entityID, userID string) (bool, error) {
	return s.check(ctx, entityID, userID, domain.CapabilityManageMembers)
}

func (s *permissionService) AssertPermission(ctx context.Context, entityID, userID string, capability domain.Capability) error {
	entity, err := s.entities.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	m, err := s.memberships.Get(ctx, entityID, userID, false)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotMember
		}
		return err
	}
	if !effectivePermissions(m.Role, entity.Kind).Has(capability) {
		return fmt.Errorf("%w: %s requires more than role %s", domain.ErrPermissionDenied, capability, m.Role)
	}
	return nil
}

func (s *permissionService) MinimumRoleFor(capability domain.Capability) (domain.Role, bool) {
	return domain.MinimumRoleFor(capability)
}

func (s *permissionService) check(ctx context.Context, entityID, userID string, capability domain.Capability) (bool, error) {
	perms, err := s.UserPermissions(ctx, entityID, userID)
	if err != nil {
		return false, err
	}
	if perms == nil {
		return false, nil
	}
	return perms.Has(capability), nil
}

// effectivePermissions adjusts the static role table for the entity kind.
// Personal entities have no concept of secondary membership, so delete and
// member-management capabilities are always withheld there.
func effectivePermissions(role domain.Role, kind domain.EntityKind) domain.Permissions {
	perms := domain.PermissionsForRole(role)
	if kind == domain.EntityKindPersonal {
		perms.DeleteEntity = false
		perms.InviteMembers = false
		perms.ManageMembers = false
	}
	return perms
}
