package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-contact-registry/internal/api/auth"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

var _ UserService = (*UserServiceImpl)(nil)

// UserService is account administration. Unlike signup, callers choose the role.
type UserService interface {
	List(ctx context.Context) ([]types.Credential, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Credential, error)
	GetByUsername(ctx context.Context, username string) (*types.Credential, error)
	Create(ctx context.Context, req types.UserRequest) (*types.Credential, error)
	// Update replaces username, password and role.
	Update(ctx context.Context, id uuid.UUID, req types.UserRequest) (*types.Credential, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// EnsureAdmin creates an admin account when username is free. An existing
	// account is left as it is.
	EnsureAdmin(ctx context.Context, username, password string) error
}

type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
	hasher auth.PasswordHasher
}

func NewUserService(repo UserRepo, hasher auth.PasswordHasher, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
		hasher: hasher,
	}
}

func (s *UserServiceImpl) List(ctx context.Context) ([]types.Credential, error) {
	return s.repo.List(ctx)
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*types.Credential, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserServiceImpl) GetByUsername(ctx context.Context, username string) (*types.Credential, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *UserServiceImpl) Create(ctx context.Context, req types.UserRequest) (*types.Credential, error) {
	l := s.logger.With(slog.String("method", "Create"), slog.String("username", req.Username))

	_, err := s.repo.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return nil, fmt.Errorf("username %q taken: %w", req.Username, types.ErrConflict)
	case !errors.Is(err, types.ErrNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("hash password: %w", err)
	}
	c, err := s.repo.Create(ctx, req.Username, hash, req.Role)
	if err != nil {
		return nil, err
	}
	l.InfoContext(ctx, "User created", slog.String("id", c.ID), slog.String("role", c.Role))
	return c, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, id uuid.UUID, req types.UserRequest) (*types.Credential, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	c, err := s.repo.Update(ctx, id, req.Username, hash, req.Role)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "User updated", slog.String("id", c.ID), slog.String("role", c.Role))
	return c, nil
}

func (s *UserServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "User deleted", slog.String("id", id.String()))
	return nil
}

func (s *UserServiceImpl) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}
	l := s.logger.With(slog.String("method", "EnsureAdmin"), slog.String("username", username))

	existing, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		if !strings.EqualFold(existing.Role, types.RoleAdmin) {
			l.WarnContext(ctx, "Bootstrap admin username belongs to a non-admin account")
		}
		return nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("look up bootstrap admin: %w", err)
	}

	req := types.UserRequest{Username: username, Password: password, Role: types.RoleAdmin}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("bootstrap admin: %w: %w", types.ErrValidation, err)
	}
	if _, err := s.Create(ctx, req); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	l.InfoContext(ctx, "Bootstrap admin created")
	return nil
}
