package postgres_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"teamspace-backend/internal/domain"
	"teamspace-backend/internal/repository/postgres"
)

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Matches case-insensitively", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "name", "avatar_url"}).
			AddRow("u1", "alice@example.com", "Alice", "")

		mock.ExpectQuery("SELECT (.+) FROM users WHERE LOWER").
			WithArgs("Alice@Example.com").
			WillReturnRows(rows)

		u, err := repo.GetByEmail(ctx, "Alice@Example.com")
		assert.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		assert.Equal(t, "alice@example.com", u.Email)
	})

	t.Run("Unknown email", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE LOWER").
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
