package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-contact-registry/config"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

var _ TokenService = (*JWTTokenService)(nil)

// TokenService issues and checks the bearer tokens handed out at signup and login.
type TokenService interface {
	// Issue signs a token whose subject is username.
	Issue(username string) (string, error)
	// Validate checks signature, algorithm, expiry and the configured issuer
	// and audience, returning the subject. Failures wrap types.ErrInvalidToken.
	Validate(token string) (string, error)
	// ExtractSubject reads the subject without verifying anything. Only for logging.
	ExtractSubject(token string) (string, error)
}

// JWTTokenService signs HS256 JWTs with a key fixed at construction.
type JWTTokenService struct {
	key      []byte
	ttl      time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

// TokenOption customises a JWTTokenService.
type TokenOption func(*JWTTokenService)

// WithClock replaces the wall clock used for iat, exp and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *JWTTokenService) { s.now = now }
}

func NewTokenService(cfg config.JWTConfig, opts ...TokenOption) (*JWTTokenService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("token service: signing key must not be empty")
	}
	if cfg.AccessTokenTTL <= 0 {
		return nil, fmt.Errorf("token service: lifetime must be positive, got %s", cfg.AccessTokenTTL)
	}
	s := &JWTTokenService{
		key:      []byte(cfg.SecretKey),
		ttl:      cfg.AccessTokenTTL,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *JWTTokenService) Issue(username string) (string, error) {
	if username == "" {
		return "", errors.New("token service: empty subject")
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   username,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTTokenService) Validate(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", types.ErrInvalidToken)
	}
	return claims.Subject, nil
}

func (s *JWTTokenService) ExtractSubject(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", types.ErrInvalidToken)
	}
	return claims.Subject, nil
}
