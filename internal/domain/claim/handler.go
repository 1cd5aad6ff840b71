package claim

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

// RegisterRoutes wires intake onto the public group (providers submit without
// payor credentials) and review operations onto the authenticated group.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/claims", h.Submit)

	api.GET("/claims", h.List)
	api.GET("/claims/:claim_id", h.Get)
	api.GET("/claims/:claim_id/audit", h.AuditTrail)
	api.POST("/claims/:claim_id/decision", h.ProcessDecision)
	api.POST("/claims/:claim_id/preauth/evaluate", h.EvaluatePreAuth)
}

func (h *Handler) Submit(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := h.svc.Submit(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) List(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	p := pagination.FromContext(c)
	f := ListFilter{Status: c.QueryParam("status")}

	items, total, err := h.svc.List(c.Request().Context(), payorID, f, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	claim, err := h.svc.Get(c.Request().Context(), payorID, c.Param("claim_id"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, claim)
}

func (h *Handler) AuditTrail(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	entries, err := h.svc.AuditTrail(c.Request().Context(), payorID, c.Param("claim_id"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	if entries == nil {
		entries = []*AuditEntry{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"audit_log": entries})
}

func (h *Handler) ProcessDecision(c echo.Context) error {
	ctx := c.Request().Context()
	identity := auth.IdentityFromContext(ctx)
	if identity == nil {
		return echo.NewHTTPError(http.StatusForbidden, "payor identity required")
	}

	var in DecisionInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	claim, err := h.svc.ProcessDecision(ctx, identity.PayorID, c.Param("claim_id"), in, identity.Email)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Claim decision processed successfully",
		"claim":   claim,
	})
}

func (h *Handler) EvaluatePreAuth(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	result, err := h.svc.EvaluatePreAuth(c.Request().Context(), payorID, c.Param("claim_id"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, result)
}
