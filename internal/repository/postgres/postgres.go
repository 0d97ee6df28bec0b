package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"teamspace-backend/internal/repository"
)

// Constraint names the store relies on as the final authority for uniqueness
// races: optimistic checks happen in the services, but the conflict that
// counts is the one Postgres reports.
const (
	constraintEntitySlug        = "entities_slug_key"
	constraintPersonalOwner     = "entities_personal_owner_key"
	constraintMembershipPair    = "memberships_entity_id_user_id_key"
	constraintPendingInvitation = "invitations_pending_entity_email_key"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.EntityRepository
	repository.MembershipRepository
	repository.InvitationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                   db,
		UserRepository:       NewUserRepository(db),
		EntityRepository:     NewEntityRepository(db),
		MembershipRepository: NewMembershipRepository(db),
		InvitationRepository: NewInvitationRepository(db),
	}
}

// uniqueViolation returns the violated constraint name when err is a Postgres
// unique-constraint failure.
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return pqErr.Constraint, true
	}
	return "", false
}
