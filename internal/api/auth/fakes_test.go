package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

// memRepo is an AuthRepo backed by a map. Create enforces username
// uniqueness under its lock, like the database constraint.
type memRepo struct {
	mu    sync.Mutex
	users map[string]types.Credential
	// afterExists, when set, runs once ExistsByUsername has answered.
	afterExists func()
	err         error
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]types.Credential)}
}

func (m *memRepo) GetByUsername(_ context.Context, username string) (*types.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.users[username]
	if !ok {
		return nil, fmt.Errorf("get credential %q: %w", username, types.ErrNotFound)
	}
	return &c, nil
}

func (m *memRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	err := m.err
	_, ok := m.users[username]
	m.mu.Unlock()

	if m.afterExists != nil {
		m.afterExists()
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (m *memRepo) Create(_ context.Context, username, passwordHash, role string) (*types.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.users[username]; ok {
		return nil, fmt.Errorf("create credential %q: %w", username, types.ErrConflict)
	}
	now := time.Now()
	c := types.Credential{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[username] = c
	return &c, nil
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}
