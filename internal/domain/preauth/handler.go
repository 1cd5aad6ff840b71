package preauth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hcms/payor-api/internal/platform/auth"
	"github.com/hcms/payor-api/internal/platform/errs"
	"github.com/hcms/payor-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/preauth", h.Create)
	api.GET("/preauth", h.List)
	api.GET("/preauth/:preauth_id", h.Get)
	api.PUT("/preauth/:preauth_id/status", h.UpdateStatus)
}

func (h *Handler) Create(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.Create(c.Request().Context(), payorID, in)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) List(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), payorID, c.QueryParam("status"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	p, err := h.svc.Get(c.Request().Context(), payorID, c.Param("preauth_id"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	var body struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.UpdateStatus(c.Request().Context(), payorID, c.Param("preauth_id"), body.Status, body.Notes); err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
