package member

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
	api.POST("/members", h.Create)
	api.GET("/members", h.List)
	api.GET("/members/:member_id", h.Get)
	api.PUT("/members/:member_id", h.Update)
	api.GET("/members/:member_id/eligibility", h.VerifyEligibility)
}

func (h *Handler) Create(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	var m Member
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.Create(c.Request().Context(), payorID, &m)
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
	m, err := h.svc.Get(c.Request().Context(), payorID, c.Param("member_id"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Update(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	var m Member
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	m.MemberID = c.Param("member_id")
	if err := h.svc.Update(c.Request().Context(), payorID, &m); err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) VerifyEligibility(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	result, err := h.svc.VerifyEligibility(c.Request().Context(), payorID, c.Param("member_id"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, result)
}
