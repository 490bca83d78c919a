package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
)

// PropertyHandler serves owners, clients and properties.
type PropertyHandler struct {
	service ports.PropertyService
}

func NewPropertyHandler(service ports.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// CreateOwner handles POST /owners.
//
// @Summary      Register an owner
// @Tags         owners
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      partyRequest  true  "Owner"
// @Success      201   {object}  envelope{data=domain.Owner}
// @Failure      400   {object}  errorResponse
// @Router       /owners [post]
func (h *PropertyHandler) CreateOwner(c echo.Context) error {
	var req partyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	o, err := h.service.CreateOwner(c.Request().Context(), domain.Owner{
		IdentityKey: req.IdentityKey, FullName: req.FullName, Email: req.Email, Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, o)
}

// ListOwners handles GET /owners.
//
// @Summary      List owners
// @Tags         owners
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]domain.Owner}
// @Router       /owners [get]
func (h *PropertyHandler) ListOwners(c echo.Context) error {
	owners, err := h.service.ListOwners(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, owners)
}

// GetOwner handles GET /owners/:id.
//
// @Summary      Get an owner
// @Tags         owners
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Identity key"
// @Success      200  {object}  envelope{data=domain.Owner}
// @Failure      404  {object}  errorResponse
// @Router       /owners/{id} [get]
func (h *PropertyHandler) GetOwner(c echo.Context) error {
	o, err := h.service.GetOwner(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, o)
}

// CreateClient handles POST /clients.
//
// @Summary      Register a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      partyRequest  true  "Client"
// @Success      201   {object}  envelope{data=domain.Client}
// @Failure      400   {object}  errorResponse
// @Router       /clients [post]
func (h *PropertyHandler) CreateClient(c echo.Context) error {
	var req partyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cl, err := h.service.CreateClient(c.Request().Context(), domain.Client{
		IdentityKey: req.IdentityKey, FullName: req.FullName, Email: req.Email, Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, cl)
}

// ListClients handles GET /clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]domain.Client}
// @Router       /clients [get]
func (h *PropertyHandler) ListClients(c echo.Context) error {
	clients, err := h.service.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, clients)
}

// GetClient handles GET /clients/:id.
//
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Identity key"
// @Success      200  {object}  envelope{data=domain.Client}
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [get]
func (h *PropertyHandler) GetClient(c echo.Context) error {
	cl, err := h.service.GetClient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cl)
}

// CreateProperty handles POST /properties.
//
// @Summary      List a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPropertyRequest  true  "Property"
// @Success      201   {object}  envelope{data=domain.Property}
// @Failure      400   {object}  errorResponse
// @Router       /properties [post]
func (h *PropertyHandler) CreateProperty(c echo.Context) error {
	var req createPropertyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.service.CreateProperty(c.Request().Context(), ports.CreatePropertyInput{
		OwnerID:      req.OwnerID,
		Type:         req.Type,
		Location:     req.Location,
		SizeM2:       req.SizeM2,
		Price:        req.Price,
		Condition:    req.Condition,
		Availability: domain.Availability(req.Availability),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, p)
}

// ListProperties handles GET /properties.
//
// @Summary      List properties
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        availability  query     string  false  "Filter by availability"
// @Success      200           {object}  envelope{data=[]domain.Property}
// @Failure      400           {object}  errorResponse
// @Router       /properties [get]
func (h *PropertyHandler) ListProperties(c echo.Context) error {
	props, err := h.service.ListProperties(c.Request().Context(), domain.Availability(c.QueryParam("availability")))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, props)
}

// GetProperty handles GET /properties/:id.
//
// @Summary      Get a property
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Property id"
// @Success      200  {object}  envelope{data=domain.Property}
// @Failure      404  {object}  errorResponse
// @Router       /properties/{id} [get]
func (h *PropertyHandler) GetProperty(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.service.GetProperty(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p)
}

// SetAvailability handles PATCH /properties/:id/availability. This is the
// administrative override and does not consult any sale.
//
// @Summary      Overwrite a property's availability
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Property id"
// @Param        body  body      availabilityRequest  true  "New availability"
// @Success      200   {object}  envelope{data=domain.Property}
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /properties/{id}/availability [patch]
func (h *PropertyHandler) SetAvailability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req availabilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.service.Transition(c.Request().Context(), id, domain.Availability(req.Availability))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p)
}
