package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	database "github.com/FACorreiaa/go-contact-registry/app/db"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo manages credential records on behalf of administrators.
// Username uniqueness is enforced by users_username_key; a violation
// surfaces as types.ErrConflict.
type UserRepo interface {
	List(ctx context.Context) ([]types.Credential, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Credential, error)
	GetByUsername(ctx context.Context, username string) (*types.Credential, error)
	Create(ctx context.Context, username, passwordHash, role string) (*types.Credential, error)
	Update(ctx context.Context, id uuid.UUID, username, passwordHash, role string) (*types.Credential, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresUserRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresUserRepo(db database.Querier, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		db:     db,
	}
}

const userColumns = `id::text, username, password_hash, COALESCE(category, ''), created_at, updated_at`

func scanUser(row pgx.Row) (*types.Credential, error) {
	var c types.Credential
	if err := row.Scan(&c.ID, &c.Username, &c.PasswordHash, &c.Role, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// category maps an empty role to SQL NULL.
func category(role string) *string {
	if role == "" {
		return nil
	}
	return &role
}

func (r *PostgresUserRepo) List(ctx context.Context) ([]types.Credential, error) {
	ctx, done := database.StartQuery(ctx, "UserRepo", "List", "SELECT", "users")

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		err = done(err)
		r.logger.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []types.Credential{}
	for rows.Next() {
		c, err := scanUser(rows)
		if err != nil {
			err = done(err)
			r.logger.ErrorContext(ctx, "Failed to scan user row", slog.Any("error", err))
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *c)
	}
	if err := done(rows.Err()); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating user rows", slog.Any("error", err))
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *PostgresUserRepo) getOne(ctx context.Context, method, where string, arg any) (*types.Credential, error) {
	ctx, done := database.StartQuery(ctx, "UserRepo", method, "SELECT", "users")
	c, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err = done(err); err != nil {
		return nil, fmt.Errorf("user %v: %w", arg, err)
	}
	return c, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Credential, error) {
	return r.getOne(ctx, "GetByID", `id = $1`, id)
}

func (r *PostgresUserRepo) GetByUsername(ctx context.Context, username string) (*types.Credential, error) {
	return r.getOne(ctx, "GetByUsername", `username = $1`, username)
}

func (r *PostgresUserRepo) Create(ctx context.Context, username, passwordHash, role string) (*types.Credential, error) {
	ctx, done := database.StartQuery(ctx, "UserRepo", "Create", "INSERT", "users")
	c, err := scanUser(r.db.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash, category)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		uuid.New(), username, passwordHash, category(role)))
	if err = done(err); err != nil {
		r.logger.WarnContext(ctx, "Failed to insert user",
			slog.String("method", "Create"), slog.String("username", username), slog.Any("error", err))
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return c, nil
}

func (r *PostgresUserRepo) Update(ctx context.Context, id uuid.UUID, username, passwordHash, role string) (*types.Credential, error) {
	ctx, done := database.StartQuery(ctx, "UserRepo", "Update", "UPDATE", "users")
	c, err := scanUser(r.db.QueryRow(ctx, `
		UPDATE users
		SET username = $2, password_hash = $3, category = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, username, passwordHash, category(role)))
	if err = done(err); err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return c, nil
}

func (r *PostgresUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, done := database.StartQuery(ctx, "UserRepo", "Delete", "DELETE", "users")
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err = done(err); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete user %s: %w", id, types.ErrNotFound)
	}
	return nil
}
