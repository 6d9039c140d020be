package person

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-contact-registry/internal/api"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

type HandlerImpl struct {
	personService PersonService
	logger        *slog.Logger
}

func NewHandlerImpl(personService PersonService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		personService: personService,
		logger:        logger,
	}
}

// Routes mounts the person endpoints.
func (h *HandlerImpl) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/five-recent", h.FiveRecent)
	r.Get("/gender-stats", h.GenderStats)
	r.Get("/email/{email}", h.GetByEmail)
	r.Get("/phone/{phone}", h.GetByPhone)
	r.Get("/county/{name}", h.ListByCounty)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *HandlerImpl) writeList(w http.ResponseWriter, r *http.Request, persons []types.Person, err error) {
	if err != nil {
		api.ServiceError(w, r, err, "Failed to list persons")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, persons)
}

func (h *HandlerImpl) writeOne(w http.ResponseWriter, r *http.Request, status int, p *types.Person, err error) {
	if err != nil {
		api.ServiceError(w, r, err, "Failed to process person")
		return
	}
	api.WriteJSONResponse(w, r, status, p)
}

// List godoc
// @Summary      List persons
// @Tags         Person
// @Produce      json
// @Success      200 {array} types.Person
// @Failure      401 {object} types.Response
// @Security     BearerAuth
// @Router       /persons [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	persons, err := h.personService.List(r.Context())
	h.writeList(w, r, persons, err)
}

// ListByCounty godoc
// @Summary      List persons in a county
// @Tags         Person
// @Produce      json
// @Param        name path string true "County name"
// @Success      200 {array} types.Person
// @Security     BearerAuth
// @Router       /persons/county/{name} [get]
func (h *HandlerImpl) ListByCounty(w http.ResponseWriter, r *http.Request) {
	persons, err := h.personService.ListByCounty(r.Context(), chi.URLParam(r, "name"))
	h.writeList(w, r, persons, err)
}

// FiveRecent godoc
// @Summary      Five most recently added persons
// @Tags         Person
// @Produce      json
// @Success      200 {array} types.Person
// @Security     BearerAuth
// @Router       /persons/five-recent [get]
func (h *HandlerImpl) FiveRecent(w http.ResponseWriter, r *http.Request) {
	persons, err := h.personService.FiveRecent(r.Context())
	h.writeList(w, r, persons, err)
}

// GenderStats godoc
// @Summary      Gender statistics
// @Description  Counts of Male, Female and Not Specified records. Public.
// @Tags         Person
// @Produce      json
// @Success      200 {object} types.GenderStats
// @Router       /persons/gender-stats [get]
func (h *HandlerImpl) GenderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.personService.GenderStats(r.Context())
	if err != nil {
		api.ServiceError(w, r, err, "Failed to compute gender stats")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}

// GetByID godoc
// @Summary      Get person by id
// @Tags         Person
// @Produce      json
// @Param        id path int true "Person ID"
// @Success      200 {object} types.Person
// @Failure      404 {object} types.Response
// @Security     BearerAuth
// @Router       /persons/{id} [get]
func (h *HandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid person id")
		return
	}
	p, err := h.personService.GetByID(r.Context(), id)
	h.writeOne(w, r, http.StatusOK, p, err)
}

// GetByEmail godoc
// @Summary      Get person by email
// @Tags         Person
// @Produce      json
// @Param        email path string true "Email"
// @Success      200 {object} types.Person
// @Failure      404 {object} types.Response
// @Security     BearerAuth
// @Router       /persons/email/{email} [get]
func (h *HandlerImpl) GetByEmail(w http.ResponseWriter, r *http.Request) {
	p, err := h.personService.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	h.writeOne(w, r, http.StatusOK, p, err)
}

// GetByPhone godoc
// @Summary      Get person by phone
// @Tags         Person
// @Produce      json
// @Param        phone path string true "Phone"
// @Success      200 {object} types.Person
// @Failure      404 {object} types.Response
// @Security     BearerAuth
// @Router       /persons/phone/{phone} [get]
func (h *HandlerImpl) GetByPhone(w http.ResponseWriter, r *http.Request) {
	p, err := h.personService.GetByPhone(r.Context(), chi.URLParam(r, "phone"))
	h.writeOne(w, r, http.StatusOK, p, err)
}

func (h *HandlerImpl) decodeRequest(w http.ResponseWriter, r *http.Request) (types.PersonRequest, bool) {
	var req types.PersonRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid person body", slog.Any("error", err))
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
// @Summary      Create person
// @Tags         Person
// @Accept       json
// @Produce      json
// @Param        body body types.PersonRequest true "Person"
// @Success      201 {object} types.Person
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response "County not found"
// @Failure      409 {object} types.Response "Email already registered"
// @Security     BearerAuth
// @Router       /persons [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	p, err := h.personService.Create(r.Context(), req)
	h.writeOne(w, r, http.StatusCreated, p, err)
}

// Update godoc
// @Summary      Update person
// @Tags         Person
// @Accept       json
// @Produce      json
// @Param        id path int true "Person ID"
// @Param        body body types.PersonRequest true "Person"
// @Success      200 {object} types.Person
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Failure      409 {object} types.Response
// @Security     BearerAuth
// @Router       /persons/{id} [put]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid person id")
		return
	}
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	p, err := h.personService.Update(r.Context(), id, req)
	h.writeOne(w, r, http.StatusOK, p, err)
}

// Delete godoc
// @Summary      Delete person
// @Tags         Person
// @Param        id path int true "Person ID"
// @Success      204
// @Failure      404 {object} types.Response
// @Security     BearerAuth
// @Router       /persons/{id} [delete]
func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid person id")
		return
	}
	if err := h.personService.Delete(r.Context(), id); err != nil {
		api.ServiceError(w, r, err, "Failed to delete person")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
