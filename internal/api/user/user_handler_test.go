package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

type MockUserService struct {
	MockUserRepo
}

var _ UserService = (*MockUserService)(nil)

func (m *MockUserService) Create(ctx context.Context, req types.UserRequest) (*types.Credential, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, req types.UserRequest) (*types.Credential, error) {
	return m.user(m.Called(ctx, id, req))
}

func (m *MockUserService) EnsureAdmin(ctx context.Context, username, password string) error {
	return m.Called(ctx, username, password).Error(0)
}

func newTestRouter(svc UserService) http.Handler {
	r := chi.NewRouter()
	r.Route("/users", NewHandlerImpl(svc, discardLogger).Routes)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestUserHandler_Reads(t *testing.T) {
	svc := new(MockUserService)
	h := newTestRouter(svc)
	id := uuid.New()
	alice := &types.Credential{ID: id.String(), Username: "alice", PasswordHash: "$2a$10$secret", Role: "admin"}

	svc.On("List", mock.Anything).Return([]types.Credential{*alice}, nil).Once()
	svc.On("GetByID", mock.Anything, id).Return(alice, nil).Once()
	svc.On("GetByUsername", mock.Anything, "alice").Return(alice, nil).Once()
	svc.On("GetByUsername", mock.Anything, "ghost").Return(nil, notFound("ghost")).Once()

	w := do(h, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$10$secret")

	w = do(h, http.MethodGet, "/users/"+id.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "alice", got["username"])
	assert.NotContains(t, got, "password_hash")
	assert.NotContains(t, got, "PasswordHash")

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/users/username/alice", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/users/username/ghost", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/users/42", "").Code)

	svc.AssertExpectations(t)
}

func TestUserHandler_Writes(t *testing.T) {
	svc := new(MockUserService)
	h := newTestRouter(svc)
	id := uuid.New()
	body := `{"username":"carol","password":"Str0ngP@ss!","role":"admin"}`
	req := types.UserRequest{Username: "carol", Password: "Str0ngP@ss!", Role: "admin"}
	carol := &types.Credential{ID: id.String(), Username: "carol", PasswordHash: "$2a$10$secret", Role: "admin"}

	svc.On("Create", mock.Anything, req).Return(carol, nil).Once()
	svc.On("Update", mock.Anything, id, req).Return(carol, nil).Once()
	svc.On("Delete", mock.Anything, id).Return(nil).Once()

	w := do(h, http.MethodPost, "/users", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	assert.Equal(t, http.StatusOK, do(h, http.MethodPut, "/users/"+id.String(), body).Code)
	assert.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, "/users/"+id.String(), "").Code)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPut, "/users/not-a-uuid", body).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodDelete, "/users/not-a-uuid", "").Code)

	w = do(h, http.MethodPost, "/users", `{"username":"carol","password":"weak","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Password")

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/users", `{"username":"carol","password":"Str0ngP@ss!"}`).Code)

	svc.AssertExpectations(t)
}
