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

const invitationColumns = `id, entity_id, email, role, status, token, expires_on, invited_by, accepted_on, created_on`

type invitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) repository.InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	inv.CreatedOn = time.Now().UTC()
	query := `INSERT INTO invitations (id, entity_id, email, role, status, token, expires_on, invited_by, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query, inv.ID, inv.EntityID, inv.Email, inv.Role, inv.Status, inv.Token, inv.ExpiresOn, inv.InvitedBy, inv.CreatedOn)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintPendingInvitation {
			return domain.ErrDuplicateInvitation
		}
		return err
	}
	return nil
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	return r.getOne(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE token = $1`, token)
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	return r.getOne(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id)
}

func (r *invitationRepository) ListByEntity(ctx context.Context, entityID string, filter domain.InvitationFilter) ([]domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE entity_id = $1`
	args := []any{entityID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY created_on, id`
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

	var invitations []domain.Invitation
	for rows.Next() {
		var inv domain.Invitation
		if err := scanInvitation(rows.Scan, &inv); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (r *invitationRepository) ListPendingByEmail(ctx context.Context, email string) ([]domain.InvitationWithEntity, error) {
	query := `SELECT i.id, i.entity_id, i.email, i.role, i.status, i.token, i.expires_on, i.invited_by, i.accepted_on, i.created_on,
	                 e.name, e.slug
	          FROM invitations i
	          JOIN entities e ON e.id = i.entity_id
	          WHERE LOWER(i.email) = LOWER($1) AND i.status = $2
	          ORDER BY i.created_on, i.id`
	rows, err := r.db.QueryContext(ctx, query, email, domain.InvitationStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []domain.InvitationWithEntity
	for rows.Next() {
		var inv domain.InvitationWithEntity
		var acceptedOn sql.NullTime
		if err := rows.Scan(&inv.ID, &inv.EntityID, &inv.Email, &inv.Role, &inv.Status, &inv.Token,
			&inv.ExpiresOn, &inv.InvitedBy, &acceptedOn, &inv.CreatedOn, &inv.EntityName, &inv.EntitySlug); err != nil {
			return nil, err
		}
		if acceptedOn.Valid {
			inv.AcceptedOn = &acceptedOn.Time
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, id string, status domain.InvitationStatus) error {
	// Only pending rows may transition; a settled invitation must never be
	// overwritten by a slower writer.
	query := `UPDATE invitations SET status = $1 WHERE id = $2 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, status, id, domain.InvitationStatusPending)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrInvitationNotPending
	}
	return nil
}

func (r *invitationRepository) AcceptWithMembership(ctx context.Context, inv *domain.Invitation, m *domain.Membership) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	m.Active = true
	m.UpdatedOn = now
	if err := tx.QueryRowContext(ctx, membershipUpsert, m.ID, m.EntityID, m.UserID, m.Role, now).
		Scan(&m.ID, &m.JoinedOn); err != nil {
		return err
	}

	query := `UPDATE invitations SET status = $1, accepted_on = $2 WHERE id = $3 AND status = $4`
	res, err := tx.ExecContext(ctx, query, domain.InvitationStatusAccepted, now, inv.ID, domain.InvitationStatusPending)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	// A concurrent accept, decline or expiry already moved the row out of
	// pending; the membership write above must not survive it.
	if affected == 0 {
		return domain.ErrInvitationNotPending
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	inv.Status = domain.InvitationStatusAccepted
	inv.AcceptedOn = &now
	return nil
}

func (r *invitationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	return err
}

func (r *invitationRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE invitations SET status = $1 WHERE status = $2 AND expires_on < $3`
	res, err := r.db.ExecContext(ctx, query, domain.InvitationStatusExpired, domain.InvitationStatusPending, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *invitationRepository) getOne(ctx context.Context, query string, arg any) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	err := scanInvitation(r.db.QueryRowContext(ctx, query, arg).Scan, inv)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func scanInvitation(scan func(...any) error, inv *domain.Invitation) error {
	var acceptedOn sql.NullTime
	if err := scan(&inv.ID, &inv.EntityID, &inv.Email, &inv.Role, &inv.Status, &inv.Token,
		&inv.ExpiresOn, &inv.InvitedBy, &acceptedOn, &inv.CreatedOn); err != nil {
		return err
	}
	if acceptedOn.Valid {
		inv.AcceptedOn = &acceptedOn.Time
	}
	return nil
}
