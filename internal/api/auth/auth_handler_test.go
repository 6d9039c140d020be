package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/FACorreiaa/go-contact-registry/app/middleware"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

func postJSON(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAuthHandler_Signup(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *MockAuthService)
		wantStatus int
		wantInBody string
	}{
		{
			name: "created",
			body: `{"username":"alice","password":"Str0ngP@ss!"}`,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "alice", "Str0ngP@ss!").Return("signed.jwt.token", nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantInBody: `"token":"signed.jwt.token"`,
		},
		{
			name:       "weak password",
			body:       `{"username":"alice","password":"password"}`,
			wantStatus: http.StatusBadRequest,
			wantInBody: "uppercase",
		},
		{
			name:       "short username",
			body:       `{"username":"al","password":"Str0ngP@ss!"}`,
			wantStatus: http.StatusBadRequest,
			wantInBody: "Username must be between 3 and 255 characters",
		},
		{
			name:       "symbol outside the allowed set",
			body:       `{"username":"alice","password":"Str0ngP@ss!^"}`,
			wantStatus: http.StatusBadRequest,
			wantInBody: "may only contain",
		},
		{
			name:       "malformed json",
			body:       `{"username":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"username":"alice","password":"Str0ngP@ss!","role":"admin"}`,
			wantStatus: http.StatusBadRequest,
			wantInBody: "unknown key",
		},
		{
			name: "duplicate",
			body: `{"username":"alice","password":"Str0ngP@ss!"}`,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "alice", "Str0ngP@ss!").
					Return("", fmt.Errorf("register %q: %w", "alice", types.ErrConflict)).Once()
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "store down",
			body: `{"username":"alice","password":"Str0ngP@ss!"}`,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "alice", "Str0ngP@ss!").
					Return("", fmt.Errorf("register: %w: %w", types.ErrStoreUnavailable, errors.New("dial tcp: refused"))).Once()
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			if tt.setup != nil {
				tt.setup(svc)
			}
			h := NewAuthHandler(svc, discardLogger)

			w := postJSON(h.Signup, "/api/v1/auth/signup", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantInBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantInBody)
			}
			assert.NotContains(t, w.Body.String(), "dial tcp")
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "alice", "Str0ngP@ss!").Return("signed.jwt.token", nil).Once()
		h := NewAuthHandler(svc, discardLogger)

		w := postJSON(h.Login, "/api/v1/auth/login", `{"username":"alice","password":"Str0ngP@ss!"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "signed.jwt.token", decodeBody(t, w)["token"])
		svc.AssertExpectations(t)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "alice", "nope").Return("", types.ErrInvalidCredentials).Once()
		h := NewAuthHandler(svc, discardLogger)

		w := postJSON(h.Login, "/api/v1/auth/login", `{"username":"alice","password":"nope"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, types.ErrInvalidCredentials.Error(), body["error"])
		svc.AssertExpectations(t)
	})

	t.Run("missing password", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandler(svc, discardLogger)

		w := postJSON(h.Login, "/api/v1/auth/login", `{"username":"alice"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(new(MockAuthService), discardLogger)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	h.Me(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	id := types.NewIdentity(&types.Credential{Username: "root", Role: "admin"})
	req = req.WithContext(appMiddleware.WithIdentity(req.Context(), id))
	w = httptest.NewRecorder()
	h.Me(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "root", body["username"])
	assert.ElementsMatch(t, []interface{}{"ROLE_USER", "ROLE_ADMIN"}, body["authorities"])
}
