package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authgate/resource-api/internal/core/domain"
	"github.com/authgate/resource-api/internal/core/ports"
)

// RecordHandler serves CRUD over generic resource models. It is always
// mounted behind the authorization gate.
type RecordHandler struct {
	service ports.RecordService
	binder  echo.DefaultBinder
}

func NewRecordHandler(service ports.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

type deleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// bindData decodes the request body only; path params must not leak into
// the stored record.
func (h *RecordHandler) bindData(c echo.Context) (map[string]any, error) {
	data := map[string]any{}
	if err := h.binder.BindBody(c, &data); err != nil {
		return nil, fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput)
	}
	return data, nil
}

// Create handles POST /api/{v1,v2}/:model.
//
// @Summary      Create a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        model  path      string  true  "Resource model (e.g. food)"
// @Param        body   body      object  true  "Record fields"
// @Success      201    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /api/v2/{model} [post]
func (h *RecordHandler) Create(c echo.Context) error {
	data, err := h.bindData(c)
	if err != nil {
		return err
	}
	rec, err := h.service.Create(c.Request().Context(), c.Param("model"), data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec.Flatten())
}

// List handles GET /api/{v1,v2}/:model.
//
// @Summary      List records
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        model  path      string  true  "Resource model (e.g. food)"
// @Success      200    {array}   map[string]interface{}
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /api/v2/{model} [get]
func (h *RecordHandler) List(c echo.Context) error {
	recs, err := h.service.List(c.Request().Context(), c.Param("model"))
	if err != nil {
		return err
	}
	out := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Flatten())
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/{v1,v2}/:model/:id.
//
// @Summary      Get a record
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        model  path      string  true  "Resource model (e.g. food)"
// @Param        id     path      string  true  "Record id"
// @Success      200    {object}  map[string]interface{}
// @Failure      404    {object}  map[string]string
// @Router       /api/v2/{model}/{id} [get]
func (h *RecordHandler) Get(c echo.Context) error {
	rec, err := h.service.Get(c.Request().Context(), c.Param("model"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec.Flatten())
}

// Update handles PUT /api/{v1,v2}/:model/:id.
//
// @Summary      Replace a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        model  path      string  true  "Resource model (e.g. food)"
// @Param        id     path      string  true  "Record id"
// @Param        body   body      object  true  "Record fields"
// @Success      200    {object}  map[string]interface{}
// @Failure      404    {object}  map[string]string
// @Router       /api/v2/{model}/{id} [put]
func (h *RecordHandler) Update(c echo.Context) error {
	data, err := h.bindData(c)
	if err != nil {
		return err
	}
	rec, err := h.service.Update(c.Request().Context(), c.Param("model"), c.Param("id"), data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec.Flatten())
}

// Delete handles DELETE /api/{v1,v2}/:model/:id.
//
// @Summary      Delete a record
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        model  path      string  true  "Resource model (e.g. food)"
// @Param        id     path      string  true  "Record id"
// @Success      200    {object}  deleteResponse
// @Failure      403    {object}  map[string]string
// @Router       /api/v2/{model}/{id} [delete]
func (h *RecordHandler) Delete(c echo.Context) error {
	n, err := h.service.Delete(c.Request().Context(), c.Param("model"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{Deleted: n})
}
