package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"teamspace-backend/internal/domain"
	"teamspace-backend/internal/identifier"
	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/repository"
)

// slug inserts are retried this many times before giving up; the store's
// unique constraint is the final authority on availability.
const slugInsertAttempts = 5

type entityService struct {
	entities repository.EntityRepository
	users    repository.UserRepository
}

func NewEntityService(entities repository.EntityRepository, users repository.UserRepository) EntityService {
	return &entityService{entities: entities, users: users}
}

func (s *entityService) CreatePersonal(ctx context.Context, userID, emailHint string) (*domain.Entity, error) {
	name := "Personal"
	if emailHint == "" {
		// Background flows have no authenticated email at hand; fall back to
		// the user directory.
		u, err := s.users.GetByID(ctx, userID)
		switch {
		case err == nil:
			emailHint = u.Email
			if u.Name != "" {
				name = u.Name
			}
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}
	if name == "Personal" && emailHint != "" {
		if local, _, found := strings.Cut(emailHint, "@"); found && local != "" {
			name = local
		}
	}

	for attempt := 0; attempt < slugInsertAttempts; attempt++ {
		entity := &domain.Entity{
			ID:        uuid.NewString(),
			Slug:      identifier.GenerateSlug(identifier.SlugMinLength),
			Kind:      domain.EntityKindPersonal,
			Name:      name,
			CreatedBy: userID,
		}
		owner := &domain.Membership{
			ID:       uuid.NewString(),
			EntityID: entity.ID,
			UserID:   userID,
			Role:     domain.RoleOwner,
		}

		err := s.entities.CreateWithOwner(ctx, entity, owner)
		switch {
		case err == nil:
			return entity, nil
		case errors.Is(err, domain.ErrSlugTaken):
			continue
		case errors.Is(err, domain.ErrPersonalEntityExists):
			// Lost a concurrent first-login race; the winner's entity is the
			// user's personal entity.
			return s.entities.FindPersonalByUser(ctx, userID)
		default:
			return nil, err
		}
	}
	return nil, domain.ErrSlugGenerationFailed
}

func (s *entityService) GetOrCreatePersonal(ctx context.Context, userID, emailHint string) (*domain.Entity, error) {
	entity, err := s.entities.FindPersonalByUser(ctx, userID)
	if err == nil {
		return entity, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.CreatePersonal(ctx, userID, emailHint)
}

func (s *entityService) CreateOrganization(ctx context.Context, userID string, in CreateOrganizationInput) (*domain.Entity, error) {
	if in.Slug != "" {
		return s.createOrganizationWithSlug(ctx, userID, in)
	}

	slugs, err := s.entities.ListSlugs(ctx)
	if err != nil {
		return nil, err
	}

	slug := identifier.GenerateUniqueSlug(in.DisplayName, slugs)
	for attempt := 0; attempt < slugInsertAttempts; attempt++ {
		entity, err := s.insertOrganization(ctx, userID, slug, in)
		if err == nil {
			return entity, nil
		}
		if !errors.Is(err, domain.ErrSlugTaken) {
			return nil, err
		}
		// Snapshot went stale between read and insert; try a random slug.
		slug = identifier.GenerateSlug(identifier.SlugMinLength)
	}
	return nil, domain.ErrSlugGenerationFailed
}

func (s *entityService) createOrganizationWithSlug(ctx context.Context, userID string, in CreateOrganizationInput) (*domain.Entity, error) {
	slug := identifier.NormalizeSlug(in.Slug)
	if !identifier.ValidateSlug(slug) {
		return nil, domain.ErrInvalidSlug
	}
	exists, err := s.entities.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrSlugTaken
	}
	return s.insertOrganization(ctx, userID, slug, in)
}

func (s *entityService) insertOrganization(ctx context.Context, userID, slug string, in CreateOrganizationInput) (*domain.Entity, error) {
	entity := &domain.Entity{
		ID:          uuid.NewString(),
		Slug:        slug,
		Kind:        domain.EntityKindOrganization,
		Name:        in.DisplayName,
		Description: in.Description,
		CreatedBy:   userID,
	}
	owner := &domain.Membership{
		ID:       uuid.NewString(),
		EntityID: entity.ID,
		UserID:   userID,
		Role:     domain.RoleOwner,
	}
	if err := s.entities.CreateWithOwner(ctx, entity, owner); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *entityService) GetByID(ctx context.Context, id string) (*domain.Entity, error) {
	return s.entities.GetByID(ctx, id)
}

func (s *entityService) GetBySlug(ctx context.Context, slug string) (*domain.Entity, error) {
	return s.entities.GetBySlug(ctx, slug)
}

func (s *entityService) ListForUser(ctx context.Context, userID, emailHint string) ([]domain.EntityWithRole, error) {
	entities, err := s.entities.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entities) > 0 {
		return entities, nil
	}

	// First contact: provision the personal entity so the user never sees an
	// empty workspace list.
	personal, err := s.GetOrCreatePersonal(ctx, userID, emailHint)
	if err != nil {
		return nil, err
	}
	logger.Info("provisioned personal entity on first listing", "user_id", userID, "entity_id", personal.ID)
	return []domain.EntityWithRole{{Entity: *personal, Role: domain.RoleOwner}}, nil
}

func (s *entityService) Update(ctx context.Context, entityID string, in UpdateEntityInput) (*domain.Entity, error) {
	entity, err := s.entities.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}

	if in.Slug != nil {
		slug := identifier.NormalizeSlug(*in.Slug)
		if !identifier.ValidateSlug(slug) {
			return nil, domain.ErrInvalidSlug
		}
		if slug != entity.Slug {
			exists, err := s.entities.SlugExists(ctx, slug)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.ErrSlugTaken
			}
			entity.Slug = slug
		}
	}
	if in.Name != nil {
		entity.Name = *in.Name
	}
	if in.Description != nil {
		entity.Description = *in.Description
	}
	if in.AvatarURL != nil {
		entity.AvatarURL = *in.AvatarURL
	}

	if err := s.entities.Update(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *entityService) Delete(ctx context.Context, entityID string) error {
	entity, err := s.entities.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if entity.Kind == domain.EntityKindPersonal {
		return fmt.Errorf("%w: personal entities cannot be deleted", domain.ErrInvalidOperation)
	}
	return s.entities.Delete(ctx, entityID)
}

func (s *entityService) IsSlugAvailable(ctx context.Context, slug string) (bool, error) {
	exists, err := s.entities.SlugExists(ctx, slug)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
