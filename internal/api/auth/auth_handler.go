package auth

import (
	"log/slog"
	"net/http"

	appMiddleware "github.com/FACorreiaa/go-contact-registry/app/middleware"
	"github.com/FACorreiaa/go-contact-registry/internal/api"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Signup godoc
// @Summary      Sign up
// @Description  Creates a credential and returns a bearer token for it.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.SignupRequest true "Username and password"
// @Success      201 {object} types.TokenResponse
// @Failure      400 {object} types.Response "Invalid input"
// @Failure      409 {object} types.Response "Username taken"
// @Failure      503 {object} types.Response "Store unavailable"
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Signup"))

	var req types.SignupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid signup body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authService.Register(ctx, req.Username, req.Password)
	if err != nil {
		api.ServiceError(w, r, err, "Failed to sign up")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, types.TokenResponse{Token: token})
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges a username and password for a bearer token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.LoginRequest true "Username and password"
// @Success      200 {object} types.TokenResponse
// @Failure      400 {object} types.Response "Malformed body"
// @Failure      401 {object} types.Response "Invalid username or password"
// @Failure      503 {object} types.Response "Store unavailable"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid login body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		api.ServiceError(w, r, err, "Failed to log in")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.TokenResponse{Token: token})
}

// Me godoc
// @Summary      Current user
// @Description  Returns the identity attached to the request.
// @Tags         User
// @Produce      json
// @Success      200 {object} types.Identity
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := appMiddleware.IdentityFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, types.ErrUnauthenticated.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, id)
}
