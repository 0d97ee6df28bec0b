package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"teamspace-backend/internal/config"
	"teamspace-backend/internal/domain"
	"teamspace-backend/internal/service"
)

type mockInvitationService struct {
	mock.Mock
}

func (m *mockInvitationService) Create(ctx context.Context, entityID, invitedBy string, in service.CreateInvitationInput) (*domain.Invitation, error) {
	args := m.Called(ctx, entityID, invitedBy, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}
func (m *mockInvitationService) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}
func (m *mockInvitationService) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}
func (m *mockInvitationService) ListForEntity(ctx context.Context, entityID string, filter domain.InvitationFilter) ([]domain.Invitation, error) {
	args := m.Called(ctx, entityID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invitation), args.Error(1)
}
func (m *mockInvitationService) ListPendingForEmail(ctx context.Context, email string) ([]domain.InvitationWithEntity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvitationWithEntity), args.Error(1)
}
func (m *mockInvitationService) Accept(ctx context.Context, token, userID string) (*domain.Invitation, error) {
	args := m.Called(ctx, token, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}
func (m *mockInvitationService) Decline(ctx context.Context, token string) (*domain.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}
func (m *mockInvitationService) Cancel(ctx context.Context, invitationID string) error {
	args := m.Called(ctx, invitationID)
	return args.Error(0)
}
func (m *mockInvitationService) ProcessNewUserSignup(ctx context.Context, userID, email string) int {
	args := m.Called(ctx, userID, email)
	return args.Int(0)
}
func (m *mockInvitationService) ExpireStale(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestJobRunner_ExpireInvitations(t *testing.T) {
	cfg := &config.Config{}

	t.Run("Runs the sweep", func(t *testing.T) {
		invitations := new(mockInvitationService)
		invitations.On("ExpireStale", mock.Anything).Return(int64(4), nil)

		runner := NewJobRunner(invitations, cfg)
		runner.ExpireInvitations()

		invitations.AssertExpectations(t)
	})

	t.Run("A failed sweep is logged, not propagated", func(t *testing.T) {
		invitations := new(mockInvitationService)
		invitations.On("ExpireStale", mock.Anything).Return(int64(0), assert.AnError)

		runner := NewJobRunner(invitations, cfg)
		runner.ExpireInvitations()

		invitations.AssertExpectations(t)
	})
}
