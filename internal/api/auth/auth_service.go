package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-contact-registry/app/observability/metrics"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService turns credentials into bearer tokens.
type AuthService interface {
	// Register creates a credential with no role and returns a token for it.
	// An existing username yields types.ErrConflict and changes nothing.
	Register(ctx context.Context, username, password string) (string, error)
	// Login returns a fresh token. Unknown users and wrong passwords both
	// yield types.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	hasher PasswordHasher
	tokens TokenService
	// dummyHash is verified against when the username is unknown. It comes
	// from hasher so both login failures cost the same.
	dummyHash string
}

func NewAuthService(repo AuthRepo, hasher PasswordHasher, tokens TokenService, logger *slog.Logger) *AuthServiceImpl {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		logger.Error("Failed to prepare dummy password hash", slog.Any("error", err))
	}
	return &AuthServiceImpl{
		logger:    logger,
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
	}
}

func recordOutcome(ctx context.Context, counter metric.Int64Counter, op, outcome string, start time.Time) {
	m := metrics.Get()
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.AuthDurationSeconds.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attribute.String("operation", op)))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, types.ErrConflict):
		return "conflict"
	case errors.Is(err, types.ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "error"
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, password string) (token string, err error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()

	l := s.logger.With(slog.String("method", "Register"), slog.String("username", username))
	start := time.Now()
	defer func() {
		recordOutcome(ctx, metrics.Get().RegisterRequestsTotal, "register", outcomeOf(err), start)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcomeOf(err))
		}
	}()

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		l.ErrorContext(ctx, "Failed to check username availability", slog.Any("error", err))
		return "", fmt.Errorf("register: %w", storeErr(err))
	}
	if exists {
		l.InfoContext(ctx, "Signup rejected, username taken")
		return "", fmt.Errorf("register %q: %w", username, types.ErrConflict)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return "", fmt.Errorf("register: %w", err)
	}

	// the constraint decides races the pre-check could not see
	if _, err = s.repo.Create(ctx, username, hash, ""); err != nil {
		if errors.Is(err, types.ErrConflict) {
			l.InfoContext(ctx, "Signup lost race for username")
			return "", fmt.Errorf("register %q: %w", username, types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to store credential", slog.Any("error", err))
		return "", fmt.Errorf("register: %w", storeErr(err))
	}

	token, err = s.tokens.Issue(username)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		return "", fmt.Errorf("register: %w", err)
	}

	l.InfoContext(ctx, "User registered")
	return token, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (token string, err error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"), slog.String("username", username))
	start := time.Now()
	defer func() {
		recordOutcome(ctx, metrics.Get().LoginRequestsTotal, "login", outcomeOf(err), start)
		if err != nil {
			span.SetStatus(codes.Error, outcomeOf(err))
		}
	}()

	cred, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			// burn the same time a real verify would
			s.hasher.Verify(password, s.dummyHash)
			l.InfoContext(ctx, "Login failed")
			return "", types.ErrInvalidCredentials
		}
		l.ErrorContext(ctx, "Failed to load credential", slog.Any("error", err))
		return "", fmt.Errorf("login: %w", storeErr(err))
	}

	if !s.hasher.Verify(password, cred.PasswordHash) {
		l.InfoContext(ctx, "Login failed")
		return "", types.ErrInvalidCredentials
	}

	token, err = s.tokens.Issue(cred.Username)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		return "", fmt.Errorf("login: %w", err)
	}

	l.InfoContext(ctx, "User logged in")
	return token, nil
}

// storeErr keeps store failures classified even when the repository returned
// something unexpected.
func storeErr(err error) error {
	if errors.Is(err, types.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
}
