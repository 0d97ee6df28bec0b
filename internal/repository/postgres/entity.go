package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"teamspace-backend/internal/domain"
	"teamspace-backend/internal/repository"
)

const entityColumns = `id, slug, kind, name, COALESCE(description, ''), COALESCE(avatar_url, ''), created_by, created_on, updated_on`

type entityRepository struct {
	db *sql.DB
}

func NewEntityRepository(db *sql.DB) repository.EntityRepository {
	return &entityRepository{db: db}
}

func (r *entityRepository) CreateWithOwner(ctx context.Context, e *domain.Entity, owner *domain.Membership) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	e.CreatedOn = now
	e.UpdatedOn = now

	query := `INSERT INTO entities (id, slug, kind, name, description, avatar_url, created_by, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := tx.ExecContext(ctx, query, e.ID, e.Slug, e.Kind, e.Name, e.Description, e.AvatarURL, e.CreatedBy, e.CreatedOn, e.UpdatedOn); err != nil {
		switch constraint, ok := uniqueViolation(err); {
		case ok && constraint == constraintEntitySlug:
			return domain.ErrSlugTaken
		case ok && constraint == constraintPersonalOwner:
			return domain.ErrPersonalEntityExists
		}
		return err
	}

	owner.Active = true
	owner.JoinedOn = now
	owner.UpdatedOn = now
	query = `INSERT INTO memberships (id, entity_id, user_id, role, active, joined_on, updated_on)
	         VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.ExecContext(ctx, query, owner.ID, owner.EntityID, owner.UserID, owner.Role, owner.Active, owner.JoinedOn, owner.UpdatedOn); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *entityRepository) GetByID(ctx context.Context, id string) (*domain.Entity, error) {
	return r.getOne(ctx, `SELECT `+entityColumns+` FROM entities WHERE id = $1`, id)
}

func (r *entityRepository) GetBySlug(ctx context.Context, slug string) (*domain.Entity, error) {
	return r.getOne(ctx, `SELECT `+entityColumns+` FROM entities WHERE slug = $1`, slug)
}

func (r *entityRepository) FindPersonalByUser(ctx context.Context, userID string) (*domain.Entity, error) {
	query := `SELECT e.id, e.slug, e.kind, e.name, COALESCE(e.description, ''), COALESCE(e.avatar_url, ''), e.created_by, e.created_on, e.updated_on
	          FROM entities e
	          JOIN memberships m ON m.entity_id = e.id
	          WHERE m.user_id = $1 AND m.active = TRUE AND m.role = $2 AND e.kind = $3`
	e := &domain.Entity{}
	err := r.db.QueryRowContext(ctx, query, userID, domain.RoleOwner, domain.EntityKindPersonal).
		Scan(&e.ID, &e.Slug, &e.Kind, &e.Name, &e.Description, &e.AvatarURL, &e.CreatedBy, &e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *entityRepository) ListForUser(ctx context.Context, userID string) ([]domain.EntityWithRole, error) {
	query := `SELECT e.id, e.slug, e.kind, e.name, COALESCE(e.description, ''), COALESCE(e.avatar_url, ''), e.created_by, e.created_on, e.updated_on, m.role
	          FROM entities e
	          JOIN memberships m ON m.entity_id = e.id
	          WHERE m.user_id = $1 AND m.active = TRUE
	          ORDER BY m.joined_on, m.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.EntityWithRole
	for rows.Next() {
		var e domain.EntityWithRole
		if err := rows.Scan(&e.ID, &e.Slug, &e.Kind, &e.Name, &e.Description, &e.AvatarURL, &e.CreatedBy, &e.CreatedOn, &e.UpdatedOn, &e.Role); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *entityRepository) ListSlugs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slug FROM entities`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slugs := make(map[string]bool)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slugs[s] = true
	}
	return slugs, rows.Err()
}

func (r *entityRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM entities WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (r *entityRepository) Update(ctx context.Context, e *domain.Entity) error {
	e.UpdatedOn = time.Now().UTC()
	query := `UPDATE entities SET slug = $1, name = $2, description = $3, avatar_url = $4, updated_on = $5 WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, e.Slug, e.Name, e.Description, e.AvatarURL, e.UpdatedOn, e.ID)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintEntitySlug {
			return domain.ErrSlugTaken
		}
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

func (r *entityRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entities WHERE id = $1`, id)
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

func (r *entityRepository) getOne(ctx context.Context, query string, arg any) (*domain.Entity, error) {
	e := &domain.Entity{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&e.ID, &e.Slug, &e.Kind, &e.Name, &e.Description, &e.AvatarURL, &e.CreatedBy, &e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}
