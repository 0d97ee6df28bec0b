package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"teamspace-backend/internal/domain"
)

// MockEntityRepo
type MockEntityRepo struct {
	mock.Mock
}

func (m *MockEntityRepo) CreateWithOwner(ctx context.Context, entity *domain.Entity, owner *domain.Membership) error {
	args := m.Called(ctx, entity, owner)
	return args.Error(0)
}
func (m *MockEntityRepo) GetByID(ctx context.Context, id string) (*domain.Entity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entity), args.Error(1)
}
func (m *MockEntityRepo) GetBySlug(ctx context.Context, slug string) (*domain.Entity, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entity), args.Error(1)
}
func (m *MockEntityRepo) FindPersonalByUser(ctx context.Context, userID string) (*domain.Entity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entity), args.Error(1)
}
func (m *MockEntityRepo) ListForUser(ctx context.Context, userID string) ([]domain.EntityWithRole, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntityWithRole), args.Error(1)
}
func (m *MockEntityRepo) ListSlugs(ctx context.Context) (map[string]bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}
func (m *MockEntityRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}
func (m *MockEntityRepo) Update(ctx context.Context, entity *domain.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}
func (m *MockEntityRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMembershipRepo
type MockMembershipRepo struct {
	mock.Mock
}

func (m *MockMembershipRepo) Upsert(ctx context.Context, membership *domain.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}
func (m *MockMembershipRepo) Get(ctx context.Context, entityID, userID string, includeInactive bool) (*domain.Membership, error) {
	args := m.Called(ctx, entityID, userID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) List(ctx context.Context, entityID string, filter domain.MemberFilter) ([]domain.Member, error) {
	args := m.Called(ctx, entityID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMembershipRepo) UpdateRole(ctx context.Context, entityID, userID string, role domain.Role) (*domain.Membership, error) {
	args := m.Called(ctx, entityID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) Deactivate(ctx context.Context, entityID, userID string) error {
	args := m.Called(ctx, entityID, userID)
	return args.Error(0)
}
func (m *MockMembershipRepo) CountActiveAdminTier(ctx context.Context, entityID string) (int, error) {
	args := m.Called(ctx, entityID)
	return args.Int(0), args.Error(1)
}

// MockInvitationRepo
type MockInvitationRepo struct {
	mock.Mock
}

func (m *MockInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
func (m *MockInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}
func (m *MockInvitationRepo) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}
func (m *MockInvitationRepo) ListByEntity(ctx context.Context, entityID string, filter domain.InvitationFilter) ([]domain.Invitation, error) {
	args := m.Called(ctx, entityID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invitation), args.Error(1)
}
func (m *MockInvitationRepo) ListPendingByEmail(ctx context.Context, email string) ([]domain.InvitationWithEntity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvitationWithEntity), args.Error(1)
}
func (m *MockInvitationRepo) UpdateStatus(ctx context.Context, id string, status domain.InvitationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockInvitationRepo) AcceptWithMembership(ctx context.Context, inv *domain.Invitation, membership *domain.Membership) error {
	args := m.Called(ctx, inv, membership)
	return args.Error(0)
}
func (m *MockInvitationRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockInvitationRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
