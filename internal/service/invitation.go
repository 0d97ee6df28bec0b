package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"teamspace-backend/internal/domain"
	"teamspace-backend/internal/identifier"
	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/repository"
)

type invitationService struct {
	entities    repository.EntityRepository
	memberships repository.MembershipRepository
	invitations repository.InvitationRepository
	users       repository.UserRepository
}

func NewInvitationService(
	entities repository.EntityRepository,
	memberships repository.MembershipRepository,
	invitations repository.InvitationRepository,
	users repository.UserRepository,
) InvitationService {
	return &invitationService{
		entities:    entities,
		memberships: memberships,
		invitations: invitations,
		users:       users,
	}
}

func (s *invitationService) Create(ctx context.Context, entityID, invitedBy string, in CreateInvitationInput) (*domain.Invitation, error) {
	entity, err := s.entities.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if entity.Kind == domain.EntityKindPersonal {
		return nil, fmt.Errorf("%w: personal entities cannot be invited to", domain.ErrInvalidOperation)
	}
	if in.Role != domain.RoleAdmin && in.Role != domain.RoleMember {
		return nil, fmt.Errorf("%w: invitations may grant admin or member only", domain.ErrInvalidOperation)
	}

	// Refuse inviting someone who already holds an active membership. The
	// pending-invitation uniqueness itself is enforced by the store's
	// constraint, so a concurrent duplicate still fails cleanly.
	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if user != nil {
		if _, err := s.memberships.Get(ctx, entityID, user.ID, false); err == nil {
			return nil, domain.ErrAlreadyMember
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	token, err := identifier.GenerateInvitationToken()
	if err != nil {
		return nil, err
	}

	inv := &domain.Invitation{
		ID:        uuid.NewString(),
		EntityID:  entityID,
		Email:     in.Email,
		Role:      in.Role,
		Status:    domain.InvitationStatusPending,
		Token:     token,
		ExpiresOn: identifier.InvitationExpiry(),
		InvitedBy: invitedBy,
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invitationService) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	return s.invitations.GetByToken(ctx, token)
}

func (s *invitationService) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	return s.invitations.GetByID(ctx, id)
}

func (s *invitationService) ListForEntity(ctx context.Context, entityID string, filter domain.InvitationFilter) ([]domain.Invitation, error) {
	return s.invitations.ListByEntity(ctx, entityID, filter)
}

func (s *invitationService) ListPendingForEmail(ctx context.Context, email string) ([]domain.InvitationWithEntity, error) {
	return s.invitations.ListPendingByEmail(ctx, email)
}

func (s *invitationService) Accept(ctx context.Context, token, userID string) (*domain.Invitation, error) {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.checkPending(inv); err != nil {
		return nil, err
	}

	if time.Now().UTC().After(inv.ExpiresOn) {
		// Lazy expiry: persist the terminal state as a side effect of the
		// failed accept so later reads agree even before the sweep runs.
		// Losing this write to a concurrent settle is harmless; the deadline
		// has passed either way.
		err := s.invitations.UpdateStatus(ctx, inv.ID, domain.InvitationStatusExpired)
		if err != nil && !errors.Is(err, domain.ErrInvitationNotPending) {
			return nil, err
		}
		return nil, domain.ErrInvitationExpired
	}

	if _, err := s.memberships.Get(ctx, inv.EntityID, userID, false); err == nil {
		return nil, domain.ErrAlreadyMember
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	m := &domain.Membership{
		ID:       uuid.NewString(),
		EntityID: inv.EntityID,
		UserID:   userID,
		Role:     inv.Role,
	}
	if err := s.invitations.AcceptWithMembership(ctx, inv, m); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invitationService) Decline(ctx context.Context, token string) (*domain.Invitation, error) {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.checkPending(inv); err != nil {
		return nil, err
	}

	if err := s.invitations.UpdateStatus(ctx, inv.ID, domain.InvitationStatusDeclined); err != nil {
		return nil, err
	}
	inv.Status = domain.InvitationStatusDeclined
	return inv, nil
}

// Cancel hard-deletes the invitation regardless of status. Cancelling an
// already-settled or missing invitation is harmless.
func (s *invitationService) Cancel(ctx context.Context, invitationID string) error {
	return s.invitations.Delete(ctx, invitationID)
}

func (s *invitationService) ProcessNewUserSignup(ctx context.Context, userID, email string) int {
	pending, err := s.invitations.ListPendingByEmail(ctx, email)
	if err != nil {
		logger.Error("failed to list pending invitations for new user", "user_id", userID, "error", err)
		return 0
	}

	accepted := 0
	for _, inv := range pending {
		// Each attempt is isolated: a stale or conflicting invitation must
		// never block the signup flow or the remaining invitations.
		if _, err := s.Accept(ctx, inv.Token, userID); err != nil {
			logger.Warn("skipping invitation during signup",
				"user_id", userID, "invitation_id", inv.ID, "entity_id", inv.EntityID, "error", err)
			continue
		}
		accepted++
	}
	if accepted > 0 {
		logger.Info("auto-accepted invitations on signup", "user_id", userID, "count", accepted)
	}
	return accepted
}

func (s *invitationService) ExpireStale(ctx context.Context) (int64, error) {
	return s.invitations.ExpireStale(ctx, time.Now().UTC())
}

func (s *invitationService) checkPending(inv *domain.Invitation) error {
	switch inv.Status {
	case domain.InvitationStatusPending:
		return nil
	case domain.InvitationStatusExpired:
		return domain.ErrInvitationExpired
	default:
		return domain.ErrInvitationNotPending
	}
}
