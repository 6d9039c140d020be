package router

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

// memStore backs the credential, county and person repositories with maps.
type memStore struct {
	mu       sync.Mutex
	users    map[string]types.Credential
	counties map[int64]types.County
	persons  map[int64]types.Person
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]types.Credential),
		counties: make(map[int64]types.County),
		persons:  make(map[int64]types.Person),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

type memCredentials struct{ *memStore }

func (m memCredentials) GetByUsername(_ context.Context, username string) (*types.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.users[username]
	if !ok {
		return nil, fmt.Errorf("credential %q: %w", username, types.ErrNotFound)
	}
	return &c, nil
}

func (m memCredentials) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[username]
	return ok, nil
}

func (m memCredentials) Create(_ context.Context, username, passwordHash, role string) (*types.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; ok {
		return nil, fmt.Errorf("credential %q: %w", username, types.ErrConflict)
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

type memCounties struct{ *memStore }

func (m memCounties) find(match func(types.County) bool) (*types.County, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.counties {
		if match(c) {
			return &c, nil
		}
	}
	return nil, types.ErrNotFound
}

func (m memCounties) List(_ context.Context) ([]types.County, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.County, 0, len(m.counties))
	for _, c := range m.counties {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b types.County) int { return int(a.ID - b.ID) })
	return out, nil
}

func (m memCounties) GetByID(_ context.Context, id int64) (*types.County, error) {
	return m.find(func(c types.County) bool { return c.ID == id })
}

func (m memCounties) GetByName(_ context.Context, name string) (*types.County, error) {
	return m.find(func(c types.County) bool { return strings.EqualFold(c.Name, name) })
}

func (m memCounties) GetByCode(_ context.Context, code int) (*types.County, error) {
	return m.find(func(c types.County) bool { return c.Code == code })
}

func (m memCounties) Create(_ context.Context, req types.CountyRequest) (*types.County, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.counties {
		if c.Code == req.Code || strings.EqualFold(c.Name, req.Name) {
			return nil, types.ErrConflict
		}
	}
	c := types.County{ID: m.id(), Name: req.Name, Code: req.Code, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.counties[c.ID] = c
	return &c, nil
}

func (m memCounties) Update(_ context.Context, id int64, req types.CountyRequest) (*types.County, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.counties[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	c.Name, c.Code, c.UpdatedAt = req.Name, req.Code, time.Now()
	m.counties[id] = c
	return &c, nil
}

func (m memCounties) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.counties[id]; !ok {
		return types.ErrNotFound
	}
	delete(m.counties, id)
	for pid, p := range m.persons {
		if p.CountyID == id {
			delete(m.persons, pid)
		}
	}
	return nil
}

type memPersons struct{ *memStore }

func (m memPersons) filter(match func(types.Person) bool) []types.Person {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.Person{}
	for _, p := range m.persons {
		if match(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b types.Person) int { return int(a.ID - b.ID) })
	return out
}

func (m memPersons) one(match func(types.Person) bool) (*types.Person, error) {
	found := m.filter(match)
	if len(found) == 0 {
		return nil, types.ErrNotFound
	}
	return &found[0], nil
}

func (m memPersons) List(_ context.Context) ([]types.Person, error) {
	return m.filter(func(types.Person) bool { return true }), nil
}

func (m memPersons) ListByCounty(_ context.Context, countyName string) ([]types.Person, error) {
	return m.filter(func(p types.Person) bool { return strings.EqualFold(p.CountyName, countyName) }), nil
}

func (m memPersons) Recent(_ context.Context, limit int) ([]types.Person, error) {
	all := m.filter(func(types.Person) bool { return true })
	slices.Reverse(all)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m memPersons) GetByID(_ context.Context, id int64) (*types.Person, error) {
	return m.one(func(p types.Person) bool { return p.ID == id })
}

func (m memPersons) GetByEmail(_ context.Context, email string) (*types.Person, error) {
	return m.one(func(p types.Person) bool { return p.Email == email })
}

func (m memPersons) GetByPhone(_ context.Context, phone string) (*types.Person, error) {
	return m.one(func(p types.Person) bool { return p.Phone == phone })
}

func (m memPersons) GenderStats(_ context.Context) (*types.GenderStats, error) {
	var s types.GenderStats
	for _, p := range m.filter(func(types.Person) bool { return true }) {
		switch strings.ToLower(p.Gender) {
		case "male":
			s.MaleCount++
		case "female":
			s.FemaleCount++
		case "not specified":
			s.NotSpecifiedCount++
		}
	}
	return &s, nil
}

func (m memPersons) Create(_ context.Context, p types.Person) (*types.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	p.CountyName = m.counties[p.CountyID].Name
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	m.persons[p.ID] = p
	return &p, nil
}

func (m memPersons) Update(_ context.Context, p types.Person) (*types.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.persons[p.ID]
	if !ok {
		return nil, types.ErrNotFound
	}
	p.CountyName = m.counties[p.CountyID].Name
	p.CreatedAt, p.UpdatedAt = old.CreatedAt, time.Now()
	m.persons[p.ID] = p
	return &p, nil
}

func (m memPersons) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.persons[id]; !ok {
		return types.ErrNotFound
	}
	delete(m.persons, id)
	return nil
}

// memUsers is the administrative view over the same credential map.
type memUsers struct{ *memStore }

func (m memUsers) find(id uuid.UUID) (types.Credential, bool) {
	for _, c := range m.users {
		if c.ID == id.String() {
			return c, true
		}
	}
	return types.Credential{}, false
}

func (m memUsers) List(_ context.Context) ([]types.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Credential, 0, len(m.users))
	for _, c := range m.users {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b types.Credential) int { return strings.Compare(a.Username, b.Username) })
	return out, nil
}

func (m memUsers) GetByID(_ context.Context, id uuid.UUID) (*types.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.find(id)
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, types.ErrNotFound)
	}
	return &c, nil
}

func (m memUsers) GetByUsername(ctx context.Context, username string) (*types.Credential, error) {
	return memCredentials(m).GetByUsername(ctx, username)
}

func (m memUsers) Create(ctx context.Context, username, passwordHash, role string) (*types.Credential, error) {
	return memCredentials(m).Create(ctx, username, passwordHash, role)
}

func (m memUsers) Update(_ context.Context, id uuid.UUID, username, passwordHash, role string) (*types.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.find(id)
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, types.ErrNotFound)
	}
	if other, taken := m.users[username]; taken && other.ID != c.ID {
		return nil, fmt.Errorf("user %q: %w", username, types.ErrConflict)
	}
	delete(m.users, c.Username)
	c.Username, c.PasswordHash, c.Role, c.UpdatedAt = username, passwordHash, role, time.Now()
	m.users[username] = c
	return &c, nil
}

func (m memUsers) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.find(id)
	if !ok {
		return fmt.Errorf("user %s: %w", id, types.ErrNotFound)
	}
	delete(m.users, c.Username)
	return nil
}
