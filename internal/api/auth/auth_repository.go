package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	database "github.com/FACorreiaa/go-contact-registry/app/db"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the credential store. Username uniqueness is enforced by the
// users_username_key constraint; Create reports a violation as types.ErrConflict.
type AuthRepo interface {
	// GetByUsername returns types.ErrNotFound when no credential exists.
	GetByUsername(ctx context.Context, username string) (*types.Credential, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, username, passwordHash, role string) (*types.Credential, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresAuthRepo(db database.Querier, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresAuthRepo) GetByUsername(ctx context.Context, username string) (*types.Credential, error) {
	ctx, done := database.StartQuery(ctx, "AuthRepo", "GetByUsername", "SELECT", "users")

	var c types.Credential
	err := done(r.db.QueryRow(ctx, `
		SELECT id::text, username, password_hash, COALESCE(category, ''), created_at, updated_at
		FROM users WHERE username = $1`,
		username).Scan(&c.ID, &c.Username, &c.PasswordHash, &c.Role, &c.CreatedAt, &c.UpdatedAt))
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to load credential",
				slog.String("method", "GetByUsername"), slog.Any("error", err))
		}
		return nil, fmt.Errorf("get credential %q: %w", username, err)
	}
	return &c, nil
}

func (r *PostgresAuthRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	ctx, done := database.StartQuery(ctx, "AuthRepo", "ExistsByUsername", "SELECT", "users")

	var exists bool
	err := done(r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check username",
			slog.String("method", "ExistsByUsername"), slog.Any("error", err))
		return false, fmt.Errorf("check username %q: %w", username, err)
	}
	return exists, nil
}

// Create stores a new credential. An empty role is stored as NULL.
func (r *PostgresAuthRepo) Create(ctx context.Context, username, passwordHash, role string) (*types.Credential, error) {
	ctx, done := database.StartQuery(ctx, "AuthRepo", "Create", "INSERT", "users")
	l := r.logger.With(slog.String("method", "Create"), slog.String("username", username))

	var category *string
	if role != "" {
		category = &role
	}

	c := types.Credential{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	err := done(r.db.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash, category)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		c.ID, username, passwordHash, category).Scan(&c.CreatedAt, &c.UpdatedAt))
	if err != nil {
		l.WarnContext(ctx, "Failed to insert credential", slog.Any("error", err))
		return nil, fmt.Errorf("create credential %q: %w", username, err)
	}

	l.InfoContext(ctx, "Credential created", slog.String("id", c.ID))
	return &c, nil
}
