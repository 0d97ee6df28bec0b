package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"teamspace-backend/internal/domain"
	"teamspace-backend/internal/repository/postgres"
)

func entityRows(e *domain.Entity) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "slug", "kind", "name", "description", "avatar_url", "created_by", "created_on", "updated_on"}).
		AddRow(e.ID, e.Slug, string(e.Kind), e.Name, e.Description, e.AvatarURL, e.CreatedBy, e.CreatedOn, e.UpdatedOn)
}

func TestEntityRepository_CreateWithOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewEntityRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		e := &domain.Entity{
			ID:        "e1",
			Slug:      "acmecorp",
			Kind:      domain.EntityKindOrganization,
			Name:      "Acme Corp",
			CreatedBy: "u1",
		}
		owner := &domain.Membership{ID: "m1", EntityID: "e1", UserID: "u1", Role: domain.RoleOwner}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO entities").
			WithArgs(e.ID, e.Slug, e.Kind, e.Name, e.Description, e.AvatarURL, e.CreatedBy, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO memberships").
			WithArgs(owner.ID, owner.EntityID, owner.UserID, owner.Role, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateWithOwner(ctx, e, owner)
		assert.NoError(t, err)
		assert.True(t, owner.Active)
		assert.False(t, e.CreatedOn.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Slug collision rolls back", func(t *testing.T) {
		e := &domain.Entity{ID: "e1", Slug: "acmecorp", Kind: domain.EntityKindOrganization, Name: "Acme", CreatedBy: "u1"}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO entities").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "entities_slug_key"})
		mock.ExpectRollback()

		err := repo.CreateWithOwner(ctx, e, &domain.Membership{ID: "m1"})
		assert.ErrorIs(t, err, domain.ErrSlugTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Second personal entity for the same user", func(t *testing.T) {
		e := &domain.Entity{ID: "e2", Slug: "u1space", Kind: domain.EntityKindPersonal, Name: "Personal", CreatedBy: "u1"}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO entities").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "entities_personal_owner_key"})
		mock.ExpectRollback()

		err := repo.CreateWithOwner(ctx, e, &domain.Membership{ID: "m2"})
		assert.ErrorIs(t, err, domain.ErrPersonalEntityExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntityRepository_Lookups(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewEntityRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("GetBySlug success", func(t *testing.T) {
		want := &domain.Entity{ID: "e1", Slug: "acmecorp", Kind: domain.EntityKindOrganization, Name: "Acme", CreatedBy: "u1", CreatedOn: now, UpdatedOn: now}

		mock.ExpectQuery("SELECT (.+) FROM entities WHERE slug").
			WithArgs("acmecorp").
			WillReturnRows(entityRows(want))

		got, err := repo.GetBySlug(ctx, "acmecorp")
		assert.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, domain.EntityKindOrganization, got.Kind)
	})

	t.Run("GetBySlug not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM entities WHERE slug").
			WithArgs("nosuch12").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetBySlug(ctx, "nosuch12")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("SlugExists", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("acmecorp").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := repo.SlugExists(ctx, "acmecorp")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("ListForUser carries the role through", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "slug", "kind", "name", "description", "avatar_url", "created_by", "created_on", "updated_on", "role"}).
			AddRow("e1", "alice123", string(domain.EntityKindPersonal), "alice", "", "", "u1", now, now, string(domain.RoleOwner)).
			AddRow("e2", "acmecorp", string(domain.EntityKindOrganization), "Acme", "", "", "u9", now, now, string(domain.RoleMember))

		mock.ExpectQuery("SELECT (.+) FROM entities e").
			WithArgs("u1").
			WillReturnRows(rows)

		list, err := repo.ListForUser(ctx, "u1")
		assert.NoError(t, err)
		assert.Len(t, list, 2)
		assert.Equal(t, domain.RoleOwner, list[0].Role)
		assert.Equal(t, domain.RoleMember, list[1].Role)
	})
}

func TestEntityRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewEntityRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		e := &domain.Entity{ID: "e1", Slug: "acmecorp", Name: "Acme Corp"}

		mock.ExpectExec("UPDATE entities SET").
			WithArgs(e.Slug, e.Name, e.Description, e.AvatarURL, sqlmock.AnyArg(), e.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, e))
	})

	t.Run("Slug taken", func(t *testing.T) {
		mock.ExpectExec("UPDATE entities SET").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "entities_slug_key"})

		err := repo.Update(ctx, &domain.Entity{ID: "e1", Slug: "taken123"})
		assert.ErrorIs(t, err, domain.ErrSlugTaken)
	})

	t.Run("Missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE entities SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, &domain.Entity{ID: "gone"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEntityRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewEntityRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM entities").
			WithArgs("e1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "e1"))
	})

	t.Run("Missing row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM entities").
			WithArgs("gone").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, "gone"), domain.ErrNotFound)
	})
}
