package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
)

const idempotencyHeader = "Idempotency-Key"

// SaleHandler handles HTTP requests for sale operations.
type SaleHandler struct {
	service ports.SaleService
}

func NewSaleHandler(service ports.SaleService) *SaleHandler {
	return &SaleHandler{service: service}
}

// List handles GET /sales.
//
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        propertyId  query     int     false  "Filter by property"
// @Param        clientId    query     string  false  "Filter by client"
// @Param        status      query     string  false  "Filter by status"
// @Success      200         {object}  envelope{data=[]saleResponse}
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Router       /sales [get]
func (h *SaleHandler) List(c echo.Context) error {
	filter := ports.ListSalesFilter{
		ClientID: c.QueryParam("clientId"),
		Status:   domain.SaleStatus(c.QueryParam("status")),
	}
	if raw := c.QueryParam("propertyId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "propertyId must be a positive integer")
		}
		filter.PropertyID = id
	}

	sales, err := h.service.ListSales(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toSaleResponses(sales))
}

// Get handles GET /sales/:id.
//
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Sale id"
// @Success      200  {object}  envelope{data=saleResponse}
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /sales/{id} [get]
func (h *SaleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	sale, err := h.service.GetSale(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toSaleResponse(sale))
}

// Create handles POST /sales. Completed sales mark the property sold in the
// same transaction.
//
// @Summary      Create a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Makes retries return the first sale"
// @Param        body             body      createSaleRequest  true   "Sale"
// @Success      201              {object}  envelope{data=saleChangeResponse}
// @Success      200              {object}  envelope{data=saleChangeResponse}  "Idempotent replay"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /sales [post]
func (h *SaleHandler) Create(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req createSaleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := toCreateSaleInput(req, actorID, c.Request().Header.Get(idempotencyHeader))
	res, err := h.service.CreateSale(c.Request().Context(), in)
	if err != nil {
		return err
	}

	code := http.StatusCreated
	if res.AlreadyExisted {
		code = http.StatusOK
	}
	return respond(c, code, toSaleChangeResponse(res))
}

// Update handles PUT /sales/:id.
//
// @Summary      Update a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Sale id"
// @Param        body  body      updateSaleRequest  true  "Fields to change"
// @Success      200   {object}  envelope{data=saleChangeResponse}
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /sales/{id} [put]
func (h *SaleHandler) Update(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateSaleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.UpdateSale(c.Request().Context(), ports.UpdateSaleInput{
		ID:      id,
		Patch:   toSalePatch(req),
		ActorID: actorID,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toSaleChangeResponse(res))
}

// UpdateStatus handles PATCH /sales/:id/status.
//
// @Summary      Change a sale's status
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Sale id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  envelope{data=saleChangeResponse}
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /sales/{id}/status [patch]
func (h *SaleHandler) UpdateStatus(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.UpdateStatus(c.Request().Context(), id, domain.SaleStatus(req.Status), actorID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toSaleChangeResponse(res))
}

// Delete handles DELETE /sales/:id. Deleting a completed sale puts the
// property back on the market.
//
// @Summary      Delete a sale
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Sale id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /sales/{id} [delete]
func (h *SaleHandler) Delete(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	deleted, err := h.service.DeleteSale(c.Request().Context(), id, actorID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrSaleNotFound
	}
	return respondMessage(c, http.StatusOK, "sale deleted")
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return id, nil
}
