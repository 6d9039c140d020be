package county

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-contact-registry/internal/api"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

type HandlerImpl struct {
	countyService CountyService
	logger        *slog.Logger
}

func NewHandlerImpl(countyService CountyService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		countyService: countyService,
		logger:        logger,
	}
}

// Routes mounts the county endpoints.
func (h *HandlerImpl) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/name/{name}", h.GetByName)
	r.Get("/code/{code}", h.GetByCode)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// List godoc
// @Summary      List counties
// @Tags         County
// @Produce      json
// @Success      200 {array} types.County
// @Failure      503 {object} types.Response
// @Router       /counties [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	counties, err := h.countyService.List(r.Context())
	if err != nil {
		api.ServiceError(w, r, err, "Failed to list counties")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, counties)
}

// GetByID godoc
// @Summary      Get county by id
// @Tags         County
// @Produce      json
// @Param        id path int true "County ID"
// @Success      200 {object} types.County
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /counties/{id} [get]
func (h *HandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid county id")
		return
	}
	c, err := h.countyService.GetByID(r.Context(), id)
	if err != nil {
		api.ServiceError(w, r, err, "Failed to load county")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, c)
}

// GetByName godoc
// @Summary      Get county by name
// @Tags         County
// @Produce      json
// @Param        name path string true "County name"
// @Success      200 {object} types.County
// @Failure      404 {object} types.Response
// @Router       /counties/name/{name} [get]
func (h *HandlerImpl) GetByName(w http.ResponseWriter, r *http.Request) {
	c, err := h.countyService.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		api.ServiceError(w, r, err, "Failed to load county")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, c)
}

// GetByCode godoc
// @Summary      Get county by code
// @Tags         County
// @Produce      json
// @Param        code path int true "County code"
// @Success      200 {object} types.County
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /counties/code/{code} [get]
func (h *HandlerImpl) GetByCode(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid county code")
		return
	}
	c, err := h.countyService.GetByCode(r.Context(), code)
	if err != nil {
		api.ServiceError(w, r, err, "Failed to load county")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, c)
}

func (h *HandlerImpl) decodeRequest(w http.ResponseWriter, r *http.Request) (types.CountyRequest, bool) {
	var req types.CountyRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid county body", slog.Any("error", err))
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
// @Summary      Create county
// @Tags         County
// @Accept       json
// @Produce      json
// @Param        body body types.CountyRequest true "County"
// @Success      201 {object} types.County
// @Failure      400 {object} types.Response
// @Failure      401 {object} types.Response
// @Failure      409 {object} types.Response
// @Security     BearerAuth
// @Router       /counties [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	c, err := h.countyService.Create(r.Context(), req)
	if err != nil {
		api.ServiceError(w, r, err, "Failed to create county")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, c)
}

// Update godoc
// @Summary      Update county
// @Tags         County
// @Accept       json
// @Produce      json
// @Param        id path int true "County ID"
// @Param        body body types.CountyRequest true "County"
// @Success      200 {object} types.County
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Failure      409 {object} types.Response
// @Security     BearerAuth
// @Router       /counties/{id} [put]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid county id")
		return
	}
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	c, err := h.countyService.Update(r.Context(), id, req)
	if err != nil {
		api.ServiceError(w, r, err, "Failed to update county")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, c)
}

// Delete godoc
// @Summary      Delete county
// @Description  Removes a county and every person registered in it. Requires ROLE_ADMIN.
// @Tags         County
// @Param        id path int true "County ID"
// @Success      204
// @Failure      403 {object} types.Response
// @Failure      404 {object} types.Response
// @Security     BearerAuth
// @Router       /counties/{id} [delete]
func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid county id")
		return
	}
	if err := h.countyService.Delete(r.Context(), id); err != nil {
		api.ServiceError(w, r, err, "Failed to delete county")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
