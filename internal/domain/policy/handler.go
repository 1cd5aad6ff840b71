package policy

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
	api.POST("/policies", h.Create)
	api.GET("/policies", h.List)
	api.GET("/policies/:policy_id", h.Get)
	api.PUT("/policies/:policy_id", h.Update)
	api.GET("/policies/:policy_id/coverage", h.CheckCoverage)
	api.GET("/policies/:policy_id/limits", h.GetLimits)
}

func (h *Handler) Create(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	var p Policy
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.Create(c.Request().Context(), payorID, &p)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) List(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), payorID, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	p, err := h.svc.Get(c.Request().Context(), payorID, c.Param("policy_id"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Update(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	var p Policy
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p.PolicyID = c.Param("policy_id")
	if err := h.svc.Update(c.Request().Context(), payorID, &p); err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CheckCoverage(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	result, err := h.svc.CheckCoverage(c.Request().Context(), payorID,
		c.Param("policy_id"), c.QueryParam("diagnosis_code"), c.QueryParam("procedure_code"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetLimits(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	limits, err := h.svc.GetLimits(c.Request().Context(), payorID, c.Param("policy_id"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, limits)
}
