package analytics

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hcms/payor-api/internal/platform/auth"
	"github.com/hcms/payor-api/internal/platform/errs"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/analytics/summary", h.Summary)
	api.GET("/analytics/claims-by-status", h.ClaimsByStatus)
	api.GET("/analytics/recent-activity", h.RecentActivity)
	api.GET("/dashboard", h.Summary)
}

func (h *Handler) Summary(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	m, err := h.svc.Metrics(c.Request().Context(), payorID)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "metrics": m})
}

func (h *Handler) ClaimsByStatus(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	counts, err := h.svc.ClaimsByStatus(c.Request().Context(), payorID)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	if counts == nil {
		counts = []StatusCount{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"claims_by_status": counts})
}

func (h *Handler) RecentActivity(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	activity, err := h.svc.RecentActivity(c.Request().Context(), payorID, limit)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	if activity == nil {
		activity = []ActivityEntry{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"recent_activity": activity})
}
