package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"teamspace-backend/internal/domain"
	"teamspace-backend/internal/repository"
)

type membershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

// membershipUpsert reactivates the existing (entity, user) row with the new
// role instead of inserting a duplicate. Shared with the invitation-accept
// transaction.
const membershipUpsert = `INSERT INTO memberships (id, entity_id, user_id, role, active, joined_on, updated_on)
	VALUES ($1, $2, $3, $4, TRUE, $5, $5)
	ON CONFLICT (entity_id, user_id)
	DO UPDATE SET role = EXCLUDED.role, active = TRUE, updated_on = EXCLUDED.updated_on
	RETURNING id, joined_on`

func (r *membershipRepository) Upsert(ctx context.Context, m *domain.Membership) error {
	now := time.Now().UTC()
	m.Active = true
	m.UpdatedOn = now
	return r.db.QueryRowContext(ctx, membershipUpsert, m.ID, m.EntityID, m.UserID, m.Role, now).
		Scan(&m.ID, &m.JoinedOn)
}

func (r *membershipRepository) Get(ctx context.Context, entityID, userID string, includeInactive bool) (*domain.Membership, error) {
	query := `SELECT id, entity_id, user_id, role, active, joined_on, updated_on
	          FROM memberships WHERE entity_id = $1 AND user_id = $2`
	if !includeInactive {
		query += ` AND active = TRUE`
	}
	m := &domain.Membership{}
	err := r.db.QueryRowContext(ctx, query, entityID, userID).
		Scan(&m.ID, &m.EntityID, &m.UserID, &m.Role, &m.Active, &m.JoinedOn, &m.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *membershipRepository) List(ctx context.Context, entityID string, filter domain.MemberFilter) ([]domain.Member, error) {
	query := `SELECT m.id, m.entity_id, m.user_id, m.role, m.active, m.joined_on, m.updated_on,
	                 COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.avatar_url, '')
	          FROM memberships m
	          LEFT JOIN users u ON u.id = m.user_id
	          WHERE m.entity_id = $1`
	args := []any{entityID}

	if !filter.IncludeInactive {
		query += ` AND m.active = TRUE`
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		query += fmt.Sprintf(` AND m.role = $%d`, len(args))
	}
	query += ` ORDER BY m.joined_on, m.id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.EntityID, &m.UserID, &m.Role, &m.Active, &m.JoinedOn, &m.UpdatedOn,
			&m.UserName, &m.UserEmail, &m.UserAvatarURL); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *membershipRepository) UpdateRole(ctx context.Context, entityID, userID string, role domain.Role) (*domain.Membership, error) {
	query := `UPDATE memberships SET role = $1, updated_on = $2
	          WHERE entity_id = $3 AND user_id = $4 AND active = TRUE
	          RETURNING id, entity_id, user_id, role, active, joined_on, updated_on`
	m := &domain.Membership{}
	err := r.db.QueryRowContext(ctx, query, role, time.Now().UTC(), entityID, userID).
		Scan(&m.ID, &m.EntityID, &m.UserID, &m.Role, &m.Active, &m.JoinedOn, &m.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *membershipRepository) Deactivate(ctx context.Context, entityID, userID string) error {
	query := `UPDATE memberships SET active = FALSE, updated_on = $1
	          WHERE entity_id = $2 AND user_id = $3 AND active = TRUE`
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), entityID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *membershipRepository) CountActiveAdminTier(ctx context.Context, entityID string) (int, error) {
	query := `SELECT COUNT(*) FROM memberships
	          WHERE entity_id = $1 AND active = TRUE AND role IN ($2, $3)`
	var count int
	err := r.db.QueryRowContext(ctx, query, entityID, domain.RoleOwner, domain.RoleAdmin).Scan(&count)
	return count, err
}
