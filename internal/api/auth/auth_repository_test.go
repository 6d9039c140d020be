package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// nullString matches a *string argument that is nil, i.e. SQL NULL.
type nullString struct{}

func (nullString) Match(v interface{}) bool {
	p, ok := v.(*string)
	return ok && p == nil
}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresAuthRepo) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresAuthRepo(mock, discardLogger)
}

func TestPostgresAuthRepo_GetByUsername(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	query := regexp.QuoteMeta("SELECT id::text, username, password_hash, COALESCE(category, ''), created_at, updated_at")
	cols := []string{"id", "username", "password_hash", "category", "created_at", "updated_at"}

	t.Run("found", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectQuery(query).WithArgs("alice").
			WillReturnRows(pgxmock.NewRows(cols).
				AddRow("d290f1ee-6c54-4b01-90e6-d701748f0851", "alice", "$2a$10$hash", "admin", created, created))

		c, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", c.Username)
		assert.Equal(t, "$2a$10$hash", c.PasswordHash)
		assert.Equal(t, "admin", c.Role)
		assert.Equal(t, created, c.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectQuery(query).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store down", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectQuery(query).WithArgs("alice").WillReturnError(errors.New("connection refused"))

		_, err := repo.GetByUsername(ctx, "alice")
		assert.ErrorIs(t, err, types.ErrStoreUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresAuthRepo_ExistsByUsername(t *testing.T) {
	mock, repo := newMockRepo(t)
	query := regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)")

	mock.ExpectQuery(query).WithArgs("alice").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(query).WithArgs("bob").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAuthRepo_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	insert := regexp.QuoteMeta("INSERT INTO users (id, username, password_hash, category)")

	t.Run("stores NULL category by default", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectQuery(insert).
			WithArgs(pgxmock.AnyArg(), "alice", "$2a$10$hash", nullString{}).
			WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		c, err := repo.Create(ctx, "alice", "$2a$10$hash", "")
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "alice", c.Username)
		assert.Empty(t, c.Role)
		assert.Equal(t, now, c.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectQuery(insert).
			WithArgs(pgxmock.AnyArg(), "alice", "$2a$10$hash", nullString{}).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		_, err := repo.Create(ctx, "alice", "$2a$10$hash", "")
		assert.ErrorIs(t, err, types.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
