package user

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-contact-registry/internal/api"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

type HandlerImpl struct {
	userService UserService
	logger      *slog.Logger
}

func NewHandlerImpl(userService UserService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// Routes mounts the user administration endpoints. Reads need a login,
// writes need ROLE_ADMIN; both are enforced by the authorization policy.
func (h *HandlerImpl) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/username/{username}", h.GetByUsername)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func (h *HandlerImpl) writeOne(w http.ResponseWriter, r *http.Request, status int, c *types.Credential, err error) {
	if err != nil {
		api.ServiceError(w, r, err, "Failed to process user")
		return
	}
	api.WriteJSONResponse(w, r, status, c)
}

// List godoc
// @Summary      List users
// @Tags         User
// @Produce      json
// @Success      200 {array} types.Credential
// @Failure      401 {object} types.Response
// @Security     BearerAuth
// @Router       /users [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		api.ServiceError(w, r, err, "Failed to list users")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, users)
}

// GetByID godoc
// @Summary      Get user by ID
// @Tags         User
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} types.Credential
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *HandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user id")
		return
	}
	c, err := h.userService.GetByID(r.Context(), id)
	h.writeOne(w, r, http.StatusOK, c, err)
}

// GetByUsername godoc
// @Summary      Get user by username
// @Tags         User
// @Produce      json
// @Param        username path string true "Username"
// @Success      200 {object} types.Credential
// @Failure      404 {object} types.Response
// @Security     BearerAuth
// @Router       /users/username/{username} [get]
func (h *HandlerImpl) GetByUsername(w http.ResponseWriter, r *http.Request) {
	c, err := h.userService.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	h.writeOne(w, r, http.StatusOK, c, err)
}

func (h *HandlerImpl) decodeRequest(w http.ResponseWriter, r *http.Request) (types.UserRequest, bool) {
	var req types.UserRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid user body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return req, false
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}

// Create godoc
// @Summary      Create user
// @Description  Creates an account with the given role. Requires ROLE_ADMIN.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        body body types.UserRequest true "User"
// @Success      201 {object} types.Credential
// @Failure      400 {object} types.Response
// @Failure      403 {object} types.Response
// @Failure      409 {object} types.Response
// @Security     BearerAuth
// @Router       /users [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	c, err := h.userService.Create(r.Context(), req)
	h.writeOne(w, r, http.StatusCreated, c, err)
}

// Update godoc
// @Summary      Update user
// @Description  Replaces username, password and role. Requires ROLE_ADMIN.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        body body types.UserRequest true "User"
// @Success      200 {object} types.Credential
// @Failure      400 {object} types.Response
// @Failure      403 {object} types.Response
// @Failure      404 {object} types.Response
// @Failure      409 {object} types.Response
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user id")
		return
	}
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	c, err := h.userService.Update(r.Context(), id, req)
	h.writeOne(w, r, http.StatusOK, c, err)
}

// Delete godoc
// @Summary      Delete user
// @Description  Requires ROLE_ADMIN.
// @Tags         User
// @Param        id path string true "User ID"
// @Success      204
// @Failure      403 {object} types.Response
// @Failure      404 {object} types.Response
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user id")
		return
	}
	if err := h.userService.Delete(r.Context(), id); err != nil {
		api.ServiceError(w, r, err, "Failed to delete user")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
